package images

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craftline/orderdesk/internal/apperrors"
)

func TestResolveURLPassThrough(t *testing.T) {
	r := NewResolver(0)
	got, err := r.Resolve(Input{URL: "https://images.example.com/cabinet.jpg"})
	require.NoError(t, err)
	require.Equal(t, "https://images.example.com/cabinet.jpg", got)
}

func TestResolveNothingGivesPlaceholder(t *testing.T) {
	r := NewResolver(0)
	got, err := r.Resolve(Input{})
	require.NoError(t, err)
	require.Equal(t, Placeholder, got)

	got, err = r.Resolve(Input{URL: "   "})
	require.NoError(t, err)
	require.Equal(t, Placeholder, got)
}

func TestResolveFileBecomesDataURI(t *testing.T) {
	r := NewResolver(0)
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	got, err := r.Resolve(Input{Data: raw, ContentType: "image/png"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "data:image/png;base64,"))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, "data:image/png;base64,"))
	require.NoError(t, err)
	require.Equal(t, raw, decoded)
}

func TestResolveFileWinsOverURL(t *testing.T) {
	r := NewResolver(0)
	got, err := r.Resolve(Input{URL: "https://example.com/a.jpg", Data: []byte("x")})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "data:image/jpeg;base64,"))
}

func TestResolveOversizedFileRejected(t *testing.T) {
	r := NewResolver(16)
	_, err := r.Resolve(Input{Data: bytes.Repeat([]byte("x"), 17)})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	// At the limit is still fine.
	_, err = r.Resolve(Input{Data: bytes.Repeat([]byte("x"), 16)})
	require.NoError(t, err)
}

func TestResolveNonImageContentTypeRejected(t *testing.T) {
	r := NewResolver(0)
	_, err := r.Resolve(Input{Data: []byte("<svg/>"), ContentType: "text/html"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}
