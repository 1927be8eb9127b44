package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	event := NewEvent(EventMessageSent, 3, 4, "hi")
	data, err := json.Marshal(event)
	require.NoError(t, err)

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, EventMessageSent, decoded.Type)
	assert.Equal(t, uint(3), decoded.ActorID)
	assert.Equal(t, uint(4), decoded.TargetID)
	assert.Equal(t, "3", decoded.Key())
	assert.True(t, event.Timestamp.Equal(decoded.Timestamp))
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"missing type", `{"actor_id": 1}`},
		{"missing actor", `{"type": "post_created"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
