package live

import (
	"strings"
	"time"
	"unicode/utf8"

	"travelguide/internal/microservices/http-api/models"
)

// DefaultSnippetMaxLength caps the stored text snippet, in characters.
const DefaultSnippetMaxLength = 50

// Event describes something a user did that others may want to hear about.
type Event struct {
	Type                 models.NotificationType
	ActorID              string
	ActorName            string
	ActorProfileImageURL string
	// RecipientID is empty for broadcast events, which go to every user
	// except the actor.
	RecipientID string
	Payload     EventPayload
}

// Broadcast reports whether the event has no single recipient.
func (e Event) Broadcast() bool {
	return e.RecipientID == ""
}

// SelfTargeted reports whether the actor is the recipient.
func (e Event) SelfTargeted() bool {
	return e.RecipientID != "" && e.RecipientID == e.ActorID
}

// reaches reports whether a connection owned by userID should see the event.
func (e Event) reaches(userID string) bool {
	if userID == e.ActorID {
		return false
	}
	if e.Broadcast() {
		return true
	}
	return userID == e.RecipientID
}

// EventPayload references the entities involved. Text and Entity travel in
// full on the live push; only the identifying fields and a snippet of Text
// are persisted.
type EventPayload struct {
	LocationID    int64  `json:"location_id,omitempty"`
	LocationName  string `json:"location_name,omitempty"`
	LocationImage string `json:"location_image,omitempty"`
	ReviewID      int64  `json:"review_id,omitempty"`
	CommentID     int64  `json:"comment_id,omitempty"`
	Text          string `json:"text,omitempty"`
	Entity        any    `json:"entity,omitempty"`
}

// Compact reduces the payload to its durable form.
func (p EventPayload) Compact(maxLen int) models.NotificationPayload {
	return models.NotificationPayload{
		LocationID:    p.LocationID,
		LocationName:  p.LocationName,
		LocationImage: p.LocationImage,
		ReviewID:      p.ReviewID,
		CommentID:     p.CommentID,
		Snippet:       Snippet(p.Text, maxLen),
	}
}

// Snippet trims text to at most maxLen characters (runes, not bytes).
// A non-positive maxLen falls back to DefaultSnippetMaxLength.
func Snippet(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultSnippetMaxLength
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxLen]))
}

// LiveNotification is the data of a "notification" envelope.
type LiveNotification struct {
	ID                   string                  `json:"id"`
	ActorID              string                  `json:"actor_id"`
	ActorName            string                  `json:"actor_name"`
	ActorProfileImageURL string                  `json:"actor_profile_image_url,omitempty"`
	Type                 models.NotificationType `json:"type"`
	Payload              EventPayload            `json:"payload"`
	RecipientID          string                  `json:"recipient_id,omitempty"`
	IsRead               bool                    `json:"is_read"`
	CreatedAt            time.Time               `json:"created_at"`
}
