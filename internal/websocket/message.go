package websocket

import "github.com/isdelr/postboard-be/internal/models"

// Message is the wire shape of a post change notification. Create and update
// carry the post; delete carries only the post ID.
type Message struct {
	Action string       `json:"action"`
	Post   *models.Post `json:"post,omitempty"`
	PostID string       `json:"postId,omitempty"`
}
