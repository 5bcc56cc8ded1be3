package snapshot_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratoquant/alphaql/internal/snapshot"
	"github.com/stratoquant/alphaql/panel"
)

func buildBundle(t *testing.T) *panel.Bundle {
	t.Helper()
	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	b, err := panel.NewBundle(dates, []string{"A", "B"})
	require.NoError(t, err)
	_, err = b.AddField("close", [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	_, err = b.AddField("volume", [][]float64{{10, 20}, {30, 40}})
	require.NoError(t, err)
	return b
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := buildBundle(t)

	data, err := snapshot.Encode(original)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := snapshot.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, original.Symbols, decoded.Symbols)
	require.Len(t, decoded.Dates, len(original.Dates))
	for i := range original.Dates {
		assert.True(t, original.Dates[i].Equal(decoded.Dates[i]))
	}
	assert.Equal(t, original.FieldNames(), decoded.FieldNames())

	for _, name := range original.FieldNames() {
		wantField, _ := original.Field(name)
		gotField, ok := decoded.Field(name)
		require.True(t, ok)
		assert.Equal(t, wantField.Data, gotField.Data)
	}
}

func TestDecodeRejectsTruncatedData(t *testing.T) {
	original := buildBundle(t)
	data, err := snapshot.Encode(original)
	require.NoError(t, err)

	_, err = snapshot.Decode(data[:len(data)-4])
	assert.Error(t, err)
}
