package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	orig := Cursor{
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 678900000, time.UTC),
		ID:        "018f1c9f-0000-7000-8000-abcdef012345",
	}

	decoded, err := DecodeCursor(orig.Encode())
	require.NoError(t, err)
	assert.True(t, decoded.CreatedAt.Equal(orig.CreatedAt))
	assert.Equal(t, orig.ID, decoded.ID)
}

func TestDecodeCursorEmpty(t *testing.T) {
	cur, err := DecodeCursor("")
	require.NoError(t, err)
	assert.True(t, cur.IsZero())
}

func TestDecodeCursorMalformed(t *testing.T) {
	cases := []string{
		"not base64 !!!",
		"aGVsbG8",        // "hello", no separator
		"MTIzNDU2Nzg6",   // "12345678:", empty id
		"bm90YW51bTppZA", // "notanum:id"
	}
	for _, raw := range cases {
		_, err := DecodeCursor(raw)
		assert.ErrorIs(t, err, ErrBadCursor, raw)
	}
}

func TestCursorIDSurvivesColons(t *testing.T) {
	orig := Cursor{CreatedAt: time.Unix(0, 42), ID: "weird:id:with:colons"}
	decoded, err := DecodeCursor(orig.Encode())
	require.NoError(t, err)
	assert.Equal(t, "weird:id:with:colons", decoded.ID)
}
