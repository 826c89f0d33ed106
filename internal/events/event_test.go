package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeJSON(data []byte, target any) error {
	return json.Unmarshal(data, target)
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("auction.closed", "auction1", "auction", map[string]string{"winner_id": "bob"})
	require.NoError(t, err)

	require.NotEmpty(t, event.EventID)
	require.Equal(t, 1, event.Version)
	require.Equal(t, "marketplace", event.Source)
	require.False(t, event.Timestamp.IsZero())
	require.JSONEq(t, `{"winner_id":"bob"}`, string(event.Data))

	event.WithMetadata("seller_id", "alice")
	require.Equal(t, "alice", event.Metadata["seller_id"])
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent("bad", "id", "thing", make(chan int))
	require.Error(t, err)
}
