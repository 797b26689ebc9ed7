package entity

// NotificationAttempt records the outcome of the single best-effort delivery
// attempt made for a newly created booking. It is returned to the caller and
// never persisted. Attempted stays false when the booking already existed.
type NotificationAttempt struct {
	Attempted  bool   `json:"attempted"`
	Provider   string `json:"provider,omitempty"`
	MessageID  string `json:"message_id,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
	Error      string `json:"error,omitempty"`
}
