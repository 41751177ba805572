package service

import (
	"errors"
	"fmt"
	"strings"

	"retailpos/pkg/apperr"

	"gorm.io/gorm"
)

// translateDBError maps storage-layer failures onto the shared error
// taxonomy. The GORM connection runs with TranslateError enabled, so
// unique-constraint violations surface as gorm.ErrDuplicatedKey; the
// string match covers drivers that bypass translation.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return fmt.Errorf("%v: %w", err, apperr.ErrDuplicateKey)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%v: %w", err, apperr.ErrReferenceNotFound)
	}
	return err
}
