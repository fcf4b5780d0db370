package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	occurred := time.Date(2024, 4, 26, 14, 0, 0, 0, time.UTC)
	processed := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	q := domain.Earthquake{
		ID:          "hv74000001",
		Geo:         domain.Geo{Lat: 19.4, Lon: -155.3},
		DepthKm:     8.2,
		Magnitude:   3.1,
		Place:       "5 km SW of Volcano, Hawaii",
		PlaceSource: domain.PlaceFromFeed,
		Time:        occurred,
		ProcessedAt: processed,
	}

	msg, err := serializeToMessage(q)
	require.NoError(t, err)

	assert.Equal(t, []byte("hv74000001"), msg.Key)
	assert.Equal(t, occurred, msg.Time)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte(EventType), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(processed.Format(time.RFC3339)), msg.Headers[1].Value)

	var decoded domain.Earthquake
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, q.ID, decoded.ID)
	assert.Equal(t, 8.2, decoded.DepthKm)
	assert.Equal(t, 3.1, decoded.Magnitude)
	assert.Equal(t, "5 km SW of Volcano, Hawaii", decoded.Place)
	assert.True(t, occurred.Equal(decoded.Time))
}

func TestSerializeToMessage_WireFields(t *testing.T) {
	msg, err := serializeToMessage(domain.Earthquake{ID: "ci1", DepthKm: 95.1})
	require.NoError(t, err)

	assert.Contains(t, string(msg.Value), `"depth_km":95.1`)
	assert.Contains(t, string(msg.Value), `"geo":{"lat":0,"lon":0}`)
	assert.NotContains(t, string(msg.Value), "place_source")
}
