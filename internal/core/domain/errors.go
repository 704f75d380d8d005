package domain

import "errors"

var (
	// Calculation inputs
	ErrMissingDate        = errors.New("date is required")
	ErrInvalidCRL         = errors.New("crown-rump length must be a positive finite number of millimetres")
	ErrInvalidCycleLength = errors.New("cycle length must be between 1 and 90 days")

	// Records
	ErrKeyNotFound    = errors.New("record key not found")
	ErrNotFound       = errors.New("record not found")
	ErrUnknownLabTest = errors.New("lab test not present on checkup")
	ErrInvalidInput   = errors.New("invalid input")

	// Settings and uploads
	ErrInvalidSetting = errors.New("invalid setting value")
	ErrFileTooLarge   = errors.New("file exceeds maximum allowed size")

	// Interaction
	ErrNotConfirmed     = errors.New("action not confirmed")
	ErrPermissionDenied = errors.New("notification permission not granted")
)
