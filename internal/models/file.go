package models

import "time"

// StoredFile is the server-side representation of an uploaded document.
// Content holds the raw text for text-like files and the base64 encoding
// for images and PDFs. Immutable once created.
type StoredFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	MIMEType   string    `json:"mime_type"`
	IsImage    bool      `json:"is_image"`
	Hashtags   []string  `json:"hashtags"`
	UploadedAt time.Time `json:"uploaded_at"`
}
