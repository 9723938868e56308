package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/petal-labs/reel/synthesia"
)

// Errors returned while handling a delivery.
var (
	ErrInvalidSignature = errors.New("webhook: invalid signature")
	ErrInvalidPayload   = errors.New("webhook: invalid payload")
	ErrUnexpectedEvent  = errors.New("webhook: unexpected event type")
)

// EventType is the kind of event delivered.
type EventType = synthesia.WebhookEvent

// VideoPayload is the data of video.completed and video.failed events.
type VideoPayload = synthesia.Video

// Event is an inbound webhook delivery.
type Event struct {
	Event     EventType       `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	WebhookID string          `json:"webhook_id"`
}

// ParseEvent decodes a delivery body. It does not check the signature.
func ParseEvent(payload []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if e.Event == "" {
		return nil, fmt.Errorf("%w: missing event", ErrInvalidPayload)
	}
	return &e, nil
}

// IsVideoEvent reports whether the event carries a video.
func (e *Event) IsVideoEvent() bool {
	return e.Event == synthesia.EventVideoCompleted || e.Event == synthesia.EventVideoFailed
}

// Video decodes the data of a video event.
func (e *Event) Video() (*VideoPayload, error) {
	if !e.IsVideoEvent() {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedEvent, e.Event)
	}
	var v VideoPayload
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return nil, fmt.Errorf("%w: video data: %v", ErrInvalidPayload, err)
	}
	return &v, nil
}

// VerifyAndParse checks the signature of payload and decodes it.
func VerifyAndParse(payload []byte, signature, secret string) (*Event, error) {
	if !VerifySignature(payload, signature, secret) {
		return nil, ErrInvalidSignature
	}
	return ParseEvent(payload)
}
