package synthesia

import (
	"context"
	"net/http"
	"net/url"

	"github.com/petal-labs/reel/core"
)

const webhooksPath = "/webhooks"

// Webhooks groups the webhook endpoints. Obtain it with Client.Webhooks.
type Webhooks struct {
	client *Client
}

// Create registers a webhook. The returned Webhook carries the signing secret.
func (w *Webhooks) Create(ctx context.Context, req *CreateWebhookRequest) core.Result[*Webhook] {
	if err := validateRequest(req); err != nil {
		return core.Err[*Webhook](err)
	}
	return Do[*Webhook](ctx, w.client, "webhooks.create", Request{
		Method: http.MethodPost,
		Path:   webhooksPath,
		Body:   req,
	})
}

// List returns the registered webhooks.
func (w *Webhooks) List(ctx context.Context) core.Result[*WebhookList] {
	return Do[*WebhookList](ctx, w.client, "webhooks.list", Request{
		Method: http.MethodGet,
		Path:   webhooksPath,
	})
}

// Get returns a webhook by ID.
func (w *Webhooks) Get(ctx context.Context, id string) core.Result[*Webhook] {
	if err := requireID("webhookId", id); err != nil {
		return core.Err[*Webhook](err)
	}
	return Do[*Webhook](ctx, w.client, "webhooks.get", Request{
		Method: http.MethodGet,
		Path:   webhooksPath + "/" + url.PathEscape(id),
	})
}

// Delete removes a webhook.
func (w *Webhooks) Delete(ctx context.Context, id string) core.Result[DeleteResult] {
	if err := requireID("webhookId", id); err != nil {
		return core.Err[DeleteResult](err)
	}
	res := Do[DeleteResult](ctx, w.client, "webhooks.delete", Request{
		Method: http.MethodDelete,
		Path:   webhooksPath + "/" + url.PathEscape(id),
	})
	return withDeletedID(res, id)
}
