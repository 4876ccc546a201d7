package service

import (
	"fmt"

	apperrors "hyperlocal/internal/errors"
)

// storageErr tags a database or token store failure so handlers can report
// it as StorageUnavailable while logs keep the driver error.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStorageUnavailable, err)
}
