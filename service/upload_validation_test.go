package service

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naijj/ml-shelf/entity"
)

func validUploadRequest() UploadRequest {
	return UploadRequest{
		File:     bytes.NewReader([]byte("weights")),
		FileName: "tiny.onnx",
		Size:     7,
		UserID:   "user-1",
		Name:     "TinyCNN",
	}
}

func TestValidateUploadAccepts(t *testing.T) {
	assert.NoError(t, ValidateUpload(validUploadRequest()))
}

func TestValidateUploadRequiresFile(t *testing.T) {
	req := validUploadRequest()
	req.File = nil

	err := ValidateUpload(req)
	assert.ErrorIs(t, err, ErrUploadFileRequired)
	assert.NotEmpty(t, err.Error())
}

func TestValidateUploadRequiresUser(t *testing.T) {
	req := validUploadRequest()
	req.UserID = "   "

	err := ValidateUpload(req)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestValidateUploadRequiresName(t *testing.T) {
	req := validUploadRequest()
	req.Name = "  \t "

	err := ValidateUpload(req)
	assert.ErrorIs(t, err, ErrModelNameRequired)
}

func TestValidateUploadNameLength(t *testing.T) {
	req := validUploadRequest()
	req.Name = strings.Repeat("x", entity.MaxModelNameLength)
	assert.NoError(t, ValidateUpload(req))

	req.Name = strings.Repeat("x", entity.MaxModelNameLength+1)
	assert.ErrorIs(t, ValidateUpload(req), ErrModelNameTooLong)
}

func TestValidateUploadNameLengthCountsCharacters(t *testing.T) {
	// Multi-byte names count by character, not by byte: 100 two-byte runes
	// are within the limit even though len() sees 200.
	req := validUploadRequest()
	req.Name = strings.Repeat("é", entity.MaxModelNameLength)
	assert.NoError(t, ValidateUpload(req))

	req.Name = strings.Repeat("é", entity.MaxModelNameLength+1)
	assert.ErrorIs(t, ValidateUpload(req), ErrModelNameTooLong)

	req = validUploadRequest()
	req.Description = strings.Repeat("模", entity.MaxModelDescriptionLength)
	assert.NoError(t, ValidateUpload(req))
}

func TestValidateUploadDescriptionLength(t *testing.T) {
	req := validUploadRequest()
	req.Description = strings.Repeat("d", entity.MaxModelDescriptionLength)
	assert.NoError(t, ValidateUpload(req))

	req.Description = strings.Repeat("d", entity.MaxModelDescriptionLength+1)
	assert.ErrorIs(t, ValidateUpload(req), ErrDescriptionTooLong)
}

func TestValidateUploadSizeBoundary(t *testing.T) {
	req := validUploadRequest()
	req.Size = entity.MaxModelFileSize
	assert.NoError(t, ValidateUpload(req), "exactly 10 MB is accepted")

	req.Size = entity.MaxModelFileSize + 1
	err := ValidateUpload(req)
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d bytes", entity.MaxModelFileSize+1),
		"size-limit message cites the actual size")
}

func TestValidateUploadFirstFailureWins(t *testing.T) {
	// Everything wrong at once, the missing file is reported first.
	err := ValidateUpload(UploadRequest{Size: entity.MaxModelFileSize + 1})
	assert.ErrorIs(t, err, ErrUploadFileRequired)
}

func TestValidationMessagesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, err := range []error{
		ErrUploadFileRequired,
		ErrNotAuthenticated,
		ErrModelNameRequired,
		ErrModelNameTooLong,
		ErrDescriptionTooLong,
		&FileTooLargeError{Size: entity.MaxModelFileSize + 1},
	} {
		require.NotEmpty(t, err.Error())
		assert.False(t, seen[err.Error()], "duplicate message: %s", err.Error())
		seen[err.Error()] = true
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrUploadFileRequired))
	assert.True(t, IsValidationError(&FileTooLargeError{Size: 1}))
	assert.False(t, IsValidationError(ErrNotAuthenticated), "auth failures map to 401, not 400")
	assert.False(t, IsValidationError(ErrStorageNotConfigured))
}
