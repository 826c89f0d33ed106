package events

import (
	"encoding/json"
	"fmt"
	"time"

	"marketplace/utils"
)

// Topics for marketplace domain events
const (
	TopicBidPlaced           = "marketplace.bid.placed"
	TopicAuctionClosed       = "marketplace.auction.closed"
	TopicReviewSubmitted     = "marketplace.review.submitted"
	TopicReviewApproved      = "marketplace.review.approved"
	TopicReviewRejected      = "marketplace.review.rejected"
	TopicNotificationCreated = "marketplace.notification.created"
)

const source = "marketplace"

// Event is the envelope for every published domain event
type Event struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	AggregateID   string            `json:"aggregate_id"`
	AggregateType string            `json:"aggregate_type"`
	Version       int               `json:"version"`
	Timestamp     time.Time         `json:"timestamp"`
	Source        string            `json:"source"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEvent builds an event with a generated id and the current timestamp
func NewEvent(eventType, aggregateID, aggregateType string, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return &Event{
		EventID:       utils.GenerateID(),
		EventType:     eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Version:       1,
		Timestamp:     time.Now().UTC(),
		Source:        source,
		Data:          payload,
	}, nil
}

// WithMetadata adds a key-value pair to the event metadata
func (e *Event) WithMetadata(key, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// Marshal serializes the event to JSON
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalData decodes the event payload into target
func (e *Event) UnmarshalData(target any) error {
	return json.Unmarshal(e.Data, target)
}
