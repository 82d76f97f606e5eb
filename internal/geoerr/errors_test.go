package geoerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfWrappedError(t *testing.T) {
	base := New(DocumentNotFound, "geo.usda", "file does not exist")
	wrapped := fmt.Errorf("resolving pointer: %w", base)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, DocumentNotFound, kind)
	assert.True(t, Is(wrapped, DocumentNotFound))
	assert.False(t, Is(wrapped, TargetNotFound))
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, Is(nil, CRSParseError))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(CRSParseError, "x", nil))
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(DocumentOpenError, "/tmp/geo.usda", cause)
	assert.Equal(t, "DocumentOpenError [/tmp/geo.usda]: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	err = Wrap(TransformError, "", cause)
	assert.Equal(t, "TransformError: boom", err.Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ReferenceSyntaxError", ReferenceSyntaxError.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
