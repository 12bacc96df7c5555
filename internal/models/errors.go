package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrInvalidConfig ErrorType = iota
	ErrInvalidExtension
	ErrFilenameParts
	ErrOSName
	ErrTimestamp
	ErrFetch
	ErrArchive
	ErrSigning
	ErrFileOp
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrInvalidExtension:
		return "InvalidExtension"
	case ErrFilenameParts:
		return "FilenameParts"
	case ErrOSName:
		return "OSName"
	case ErrTimestamp:
		return "Timestamp"
	case ErrFetch:
		return "Fetch"
	case ErrArchive:
		return "Archive"
	case ErrSigning:
		return "Signing"
	case ErrFileOp:
		return "FileOp"
	default:
		return "Unknown"
	}
}

// OTAGenError represents an error during record generation
type OTAGenError struct {
	Type ErrorType
	File string
	Err  error
}

// Error implements the error interface
func (e *OTAGenError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.File, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *OTAGenError) Unwrap() error {
	return e.Err
}

// NewError builds an OTAGenError for the given file.
func NewError(t ErrorType, file string, err error) *OTAGenError {
	return &OTAGenError{Type: t, File: file, Err: err}
}
