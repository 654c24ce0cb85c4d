//go:build meteostat

package meteostat

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests download a real station file from the Meteostat bulk service.
// Run with: go test -tags=meteostat ./internal/adapter/meteostat/ -v -count=1

func TestSmoke_FetchDaily_MadridBarajas(t *testing.T) {
	c := testClient(DefaultBaseURL)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	records, err := c.FetchDaily(ctx, "08221")
	require.NoError(t, err)
	require.NotEmpty(t, records)

	last := records[len(records)-1]
	assert.True(t, last.Date.After(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)), "archive should be current")
	assert.False(t, math.IsNaN(last.TAvg), "recent rows carry temperatures")
}

func TestSmoke_FetchDaily_UnknownStation(t *testing.T) {
	c := testClient(DefaultBaseURL)

	_, err := c.FetchDaily(context.Background(), "ZZZZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bulk data published")
}
