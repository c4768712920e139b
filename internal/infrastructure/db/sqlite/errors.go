package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/geotrail/location-log/internal/core/domain"
)

func classify(err error) error {
	if err == nil {
		return nil
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) && isUniqueViolation(sqlErr) {
		return fmt.Errorf("%w: %w", domain.ErrEmailExists, err)
	}
	return err
}

func isUniqueViolation(err *sqlite.Error) bool {
	if err.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	// Without extended result codes only the primary code is reported.
	return err.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(err.Error(), "UNIQUE")
}
