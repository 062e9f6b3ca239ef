// Package ingest validates uploaded workflow exports and normalizes them into
// the common workflow model.
package ingest

import (
	"errors"
	"fmt"
)

// Error kinds. Every one of them is scoped to a single file.
var (
	ErrMalformedInput    = errors.New("malformed input")
	ErrInvalidStructure  = errors.New("invalid structure")
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsafeFileName    = errors.New("unsafe file name")
	ErrStructureTooDeep  = errors.New("structure too deep")
	ErrNodeLimitExceeded = errors.New("node limit exceeded")
	ErrUnknownPlatform   = errors.New("unknown platform")
)

// FileError ties an error kind to the file that produced it.
type FileError struct {
	FileName string
	Kind     error
	Detail   string
}

func (e *FileError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", e.FileName, e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.FileName, e.Kind)
}

func (e *FileError) Unwrap() error {
	return e.Kind
}

// Code returns a stable snake_case identifier for API responses.
func (e *FileError) Code() string {
	return KindCode(e.Kind)
}

func newFileError(fileName string, kind error, format string, args ...any) *FileError {
	return &FileError{
		FileName: fileName,
		Kind:     kind,
		Detail:   fmt.Sprintf(format, args...),
	}
}

// KindCode maps an error kind onto its API code.
func KindCode(err error) string {
	switch {
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrInvalidStructure):
		return "invalid_structure"
	case errors.Is(err, ErrFileTooLarge):
		return "file_too_large"
	case errors.Is(err, ErrUnsafeFileName):
		return "unsafe_file_name"
	case errors.Is(err, ErrStructureTooDeep):
		return "structure_too_deep"
	case errors.Is(err, ErrNodeLimitExceeded):
		return "node_limit_exceeded"
	case errors.Is(err, ErrUnknownPlatform):
		return "unknown_platform"
	default:
		return "internal_error"
	}
}

// IsRejection reports whether err is one of the file-level validation kinds.
// ErrUnknownPlatform is a warning and is not a rejection.
func IsRejection(err error) bool {
	return errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrInvalidStructure) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrUnsafeFileName) ||
		errors.Is(err, ErrStructureTooDeep) ||
		errors.Is(err, ErrNodeLimitExceeded)
}
