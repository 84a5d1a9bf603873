package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// mapError: restricción UNIQUE -> ErrDuplicate; SQLITE_BUSY/LOCKED (busy_timeout agotado) -> ErrStorageConflict.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *driver.Error
	if errors.As(err, &se) {
		code := se.Code()
		switch {
		case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE, code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return domain.ErrDuplicate
		case code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE"):
			return domain.ErrDuplicate
		case code&0xff == sqlite3.SQLITE_BUSY, code&0xff == sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%s: %w", op, domain.ErrStorageConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
