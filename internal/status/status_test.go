package status

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craftline/orderdesk/internal/apperrors"
)

func TestParseValid(t *testing.T) {
	for _, s := range []string{"pending", "in-design", "completed", "rejected"} {
		got, err := Parse(s)
		require.NoError(t, err)
		require.Equal(t, Status(s), got)
	}
}

func TestParseEmptyDefaults(t *testing.T) {
	got, err := Parse("")
	require.NoError(t, err)
	require.Equal(t, Pending, got)
}

func TestParseOutsideVocabulary(t *testing.T) {
	for _, s := range []string{"shipped", "PENDING", "done", "in design"} {
		_, err := Parse(s)
		require.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	}
}

func TestLabels(t *testing.T) {
	require.Equal(t, "In Design", InDesign.Label("en"))
	require.Equal(t, "قيد التصميم", InDesign.Label("ar"))
	// Unknown language falls back to English.
	require.Equal(t, "In Design", InDesign.Label("fr"))
	// Unknown status falls back to the raw value.
	require.Equal(t, "weird", Status("weird").Label("en"))
}
