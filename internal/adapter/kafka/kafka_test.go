package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/raincast/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 10, 0, 0, time.UTC)
	result := domain.PredictionResult{
		Date:        time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC),
		Rain:        true,
		Probability: 0.625,
		Bucket:      domain.BucketHigh,
		Analogues:   14,
		RunID:       "run-42",
		PredictedAt: now,
	}

	msg, err := serializeToMessage(result)
	require.NoError(t, err)

	assert.Equal(t, []byte("2026-11-03"), msg.Key)
	assert.Contains(t, string(msg.Value), `"bucket":"High"`)
	assert.Contains(t, string(msg.Value), `"rain":true`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "run_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("run-42"), msg.Headers[0].Value)
	assert.Equal(t, "predicted_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var back domain.PredictionResult
	require.NoError(t, json.Unmarshal(msg.Value, &back))
	assert.Equal(t, 0.625, back.Probability)
	assert.Equal(t, 14, back.Analogues)
}
