package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteValidateFields(t *testing.T) {
	assert.NoError(t, NewRoute("docs", "not a url").ValidateFields())
	assert.ErrorIs(t, NewRoute("", "https://example.com").ValidateFields(), ErrInvalidPayload)
	assert.ErrorIs(t, NewRoute("docs", "").ValidateFields(), ErrInvalidPayload)
}

func TestRouteValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{name: "https", target: "https://example.com"},
		{name: "opaque", target: "mailto:someone@example.com"},
		{name: "plain words", target: "not a url", wantErr: true},
		{name: "empty", target: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRoute("docs", tt.target).ValidateTarget()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestWithFragment(t *testing.T) {
	assert.Equal(t, "https://example.com", WithFragment("https://example.com", ""))
	assert.Equal(t, "https://example.com#install", WithFragment("https://example.com", "install"))
}

func TestRoutesClone(t *testing.T) {
	original := Routes{"docs": "https://example.com"}

	clone := original.Clone()
	clone["extra"] = "https://example.org"

	assert.Len(t, original, 1)
	assert.Len(t, clone, 2)
}
