package models

// Notification is a text message pushed to a kitchen manager.
type Notification struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
