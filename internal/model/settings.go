package model

// Settings are the admin-editable runtime options.
type Settings struct {
	NotifyWebhookURL string `json:"notify_webhook_url"`
}
