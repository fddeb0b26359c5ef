package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/naijj/ml-shelf/entity"
)

// Upload preconditions, checked in order before any storage or database call.
// Each failure carries its own user-facing message and is never retried.
var (
	ErrUploadFileRequired   = errors.New("a model file is required")
	ErrNotAuthenticated     = errors.New("you must be signed in to do this")
	ErrModelNameRequired    = errors.New("model name must not be empty")
	ErrModelNameTooLong     = fmt.Errorf("model name must be at most %d characters", entity.MaxModelNameLength)
	ErrDescriptionTooLong   = fmt.Errorf("description must be at most %d characters", entity.MaxModelDescriptionLength)
	errFileTooLargeSentinel = errors.New("file exceeds the size limit")
)

// FileTooLargeError reports an upload over the 10 MB limit, citing the actual
// size of the rejected file.
type FileTooLargeError struct {
	Size int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf(
		"file size must be at most %s, selected file is %s (%d bytes)",
		humanize.IBytes(uint64(entity.MaxModelFileSize)),
		humanize.IBytes(uint64(e.Size)),
		e.Size,
	)
}

func (e *FileTooLargeError) Is(target error) bool {
	return target == errFileTooLargeSentinel
}

// ErrFileTooLarge matches any FileTooLargeError via errors.Is.
var ErrFileTooLarge = errFileTooLargeSentinel

// ValidateUpload gates an upload request. First failure wins.
func ValidateUpload(req UploadRequest) error {
	if req.File == nil {
		return ErrUploadFileRequired
	}
	if strings.TrimSpace(req.UserID) == "" {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(req.Name) == "" {
		return ErrModelNameRequired
	}
	// Limits are in characters, matching the varchar column sizes, so
	// multi-byte names are not counted short.
	if utf8.RuneCountInString(strings.TrimSpace(req.Name)) > entity.MaxModelNameLength {
		return ErrModelNameTooLong
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Description)) > entity.MaxModelDescriptionLength {
		return ErrDescriptionTooLong
	}
	if req.Size > entity.MaxModelFileSize {
		return &FileTooLargeError{Size: req.Size}
	}
	return nil
}

// IsValidationError reports whether err is one of the synchronous upload
// precondition failures.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrUploadFileRequired),
		errors.Is(err, ErrModelNameRequired),
		errors.Is(err, ErrModelNameTooLong),
		errors.Is(err, ErrDescriptionTooLong),
		errors.Is(err, ErrFileTooLarge):
		return true
	default:
		return false
	}
}
