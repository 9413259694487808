package model

// WebhookEvent is the payment provider's notification body:
// {"type": "...", "data": {"object": {"metadata": {"orderId": "..."}}}}.
// Everything but the correlation metadata is left to the provider.
type WebhookEvent struct {
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	Object WebhookEventObject `json:"object"`
}

type WebhookEventObject struct {
	Metadata map[string]string `json:"metadata"`
}
