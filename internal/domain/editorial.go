package domain

import "time"

// DefaultAdPosition is the slot an ad lands in when none is given.
const DefaultAdPosition = "homepage"

// Ad is a promotional banner managed from the admin panel.
type Ad struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Link        string    `json:"link"`
	Active      bool      `json:"active"`
	Position    string    `json:"position"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// ContentType says how a SiteContent value is rendered.
type ContentType string

const (
	ContentText ContentType = "text"
	ContentHTML ContentType = "html"
	// ContentJSON values hold a JSON document that the public API returns decoded.
	ContentJSON ContentType = "json"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentText, ContentHTML, ContentJSON:
		return true
	}
	return false
}

// SiteContent is one editable text block, addressed by page, section and key.
type SiteContent struct {
	ID        int64       `json:"id"`
	Page      string      `json:"page"`
	Section   string      `json:"section"`
	Key       string      `json:"key"`
	Content   string      `json:"content"`
	Type      ContentType `json:"type"`
	CreatedAt time.Time   `json:"createdAt,omitzero"`
	UpdatedAt time.Time   `json:"updatedAt,omitzero"`
}
