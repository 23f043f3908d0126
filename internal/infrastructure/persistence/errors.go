package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/erp/stockdesk/internal/domain/shared"
)

// translateWriteError maps unique-constraint violations to
// shared.ErrAlreadyExists. PostgreSQL reports "duplicate key", SQLite
// "UNIQUE constraint failed".
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed") {
		return shared.ErrAlreadyExists
	}
	return err
}
