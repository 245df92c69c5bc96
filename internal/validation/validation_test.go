package validation

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	rules := NewRules(DefaultAllowedTypes, 3)

	tests := []struct {
		name    string
		file    media.File
		wantErr error
	}{
		{name: "small jpeg", file: media.File{Name: "a.jpg", Type: "image/jpeg", Size: 1024}},
		{name: "exactly at limit", file: media.File{Name: "a.png", Type: "image/png", Size: 3 * MB}},
		{name: "type with params and case", file: media.File{Name: "a.gif", Type: "Image/GIF; foo=bar", Size: 10}},
		{name: "one byte over", file: media.File{Name: "a.png", Type: "image/png", Size: 3*MB + 1}, wantErr: ErrFileTooLarge},
		{name: "pdf rejected", file: media.File{Name: "a.pdf", Type: "application/pdf", Size: 10}, wantErr: ErrUnsupportedType},
		{name: "empty type rejected", file: media.File{Name: "a", Size: 10}, wantErr: ErrUnsupportedType},
		{name: "type checked before size", file: media.File{Name: "a.bmp", Type: "image/bmp", Size: 10 * MB}, wantErr: ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.file, rules)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestValidate_MessageReferencesLimit(t *testing.T) {
	err := Validate(media.File{Name: "big.png", Type: "image/png", Size: 5 * MB}, NewRules(DefaultAllowedTypes, 3))

	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Contains(t, err.Error(), "3 MB")
	assert.Contains(t, err.Error(), "big.png")
}

func TestValidate_UnsupportedMessageListsAllowed(t *testing.T) {
	err := Validate(media.File{Name: "x.bmp", Type: "image/bmp", Size: 1}, NewRules([]string{"image/png"}, 1))

	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "image/bmp")
	assert.Contains(t, err.Error(), "image/png")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "3 MB", FormatSize(3*MB))
	assert.Equal(t, "2.5 MB", FormatSize(5*MB/2))
}
