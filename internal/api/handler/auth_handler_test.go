package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/geotrail/location-log/internal/core/domain"
	"github.com/geotrail/location-log/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func assertBadRequest(t *testing.T, err error, wantMsg string) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", he.Code)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation in chain, got %v", err)
	}
	if wantMsg != "" && he.Message != wantMsg {
		t.Fatalf("expected message %q, got %q", wantMsg, he.Message)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Email != "a@example.com" || in.Password != "secret" || in.Name != "Alice" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{
				Token: "tok",
				User:  &domain.User{ID: "7", Email: in.Email, Name: in.Name, PasswordHash: "hash"},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/auth/register", `{"email":"a@example.com","password":"secret","name":"Alice"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "tok" || resp.User != (userResponse{ID: "7", Email: "a@example.com", Name: "Alice"}) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Register_PropagatesServiceError(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailExists
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/auth/register", `{"email":"a@example.com","password":"x","name":"A"}`)
	if err := handler.Register(c); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	cases := map[string]struct {
		body string
		msg  string
	}{
		"malformed":     {body: "not-json", msg: "invalid payload"},
		"missing name":  {body: `{"email":"a@example.com","password":"x"}`, msg: "name is required"},
		"empty body":    {body: "", msg: ""},
		"wrong type":    {body: `{"email":42,"password":"x","name":"A"}`, msg: "email must be a string"},
		"empty strings": {body: `{"email":"","password":"","name":""}`, msg: ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			stub := &stubAuthService{
				registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
					t.Fatalf("should not be called")
					return nil, nil
				},
			}
			c, _ := newTestContext(http.MethodPost, "/auth/register", tc.body)
			assertBadRequest(t, NewAuthHandler(stub).Register(c), tc.msg)
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AuthResult{Token: "token123", User: &domain.User{ID: "1", Email: email, Name: "Alice"}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.User.Name != "Alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/auth/login", "{")
	assertBadRequest(t, handler.Login(c), "invalid payload")
}
