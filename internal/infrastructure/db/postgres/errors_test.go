package postgres

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/geotrail/location-log/internal/core/domain"
)

func TestClassify_UniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	if got := classify(err); !errors.Is(got, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", got)
	}
}

func TestClassify_OtherPgErrorIsInternal(t *testing.T) {
	err := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	got := classify(err)
	if errors.Is(got, domain.ErrEmailExists) || errors.Is(got, domain.ErrStoreUnavailable) {
		t.Fatalf("expected unclassified error, got %v", got)
	}
}

func TestClassify_ConnectionRefused(t *testing.T) {
	err := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
	if got := classify(fmt.Errorf("postgres ping: %w", err)); !errors.Is(got, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", got)
	}
}

func TestClassify_HostNotFound(t *testing.T) {
	err := &net.DNSError{Err: "no such host", Name: "db.invalid", IsNotFound: true}
	if got := classify(err); !errors.Is(got, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", got)
	}
}

func TestClassify_Nil(t *testing.T) {
	if classify(nil) != nil {
		t.Fatalf("expected nil")
	}
}

func TestClassify_PassThrough(t *testing.T) {
	boom := errors.New("boom")
	if got := classify(boom); got != boom {
		t.Fatalf("expected unchanged error, got %v", got)
	}
}
