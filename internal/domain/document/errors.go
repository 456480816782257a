package document

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrTestNotFound         = errors.New("medical test not found")
	ErrMissingFilePath      = errors.New("file path is required")
)
