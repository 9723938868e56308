package synthesia

// WebhookEvent names an event a webhook can subscribe to.
type WebhookEvent string

// Webhook events.
const (
	EventVideoCompleted WebhookEvent = "video.completed"
	EventVideoFailed    WebhookEvent = "video.failed"
)

// Webhook is a registered callback endpoint.
type Webhook struct {
	ID            string         `json:"id"`
	URL           string         `json:"url"`
	Events        []WebhookEvent `json:"events"`
	Status        string         `json:"status,omitempty"`
	Secret        string         `json:"secret,omitempty"`
	CreatedAt     int64          `json:"createdAt,omitempty"`
	LastUpdatedAt int64          `json:"lastUpdatedAt,omitempty"`
}

// CreateWebhookRequest registers a webhook.
type CreateWebhookRequest struct {
	URL    string         `json:"url" validate:"required,url"`
	Events []WebhookEvent `json:"events" validate:"required,min=1,dive,oneof=video.completed video.failed"`
}

// WebhookList is the list of registered webhooks.
type WebhookList struct {
	Webhooks []Webhook `json:"webhooks"`
}
