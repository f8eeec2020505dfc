package models

import "github.com/machele-codez/socialape-api/internal/store"

// Comment represents a comment on a scream. Comments are immutable once
// created; there is no edit path.
type Comment struct {
	ID         string `json:"commentId"`
	ScreamID   string `json:"screamId"`
	UserHandle string `json:"userHandle"`
	UserImage  string `json:"userImage"`
	Body       string `json:"body"`
	CreatedAt  string `json:"createdAt"`
}

// CommentFromSnapshot decodes a comment document.
func CommentFromSnapshot(snap store.Snapshot) Comment {
	return Comment{
		ID:         snap.ID,
		ScreamID:   store.AsString(snap.Data["screamId"]),
		UserHandle: store.AsString(snap.Data["userHandle"]),
		UserImage:  store.AsString(snap.Data["userImage"]),
		Body:       store.AsString(snap.Data["body"]),
		CreatedAt:  store.AsString(snap.Data["createdAt"]),
	}
}

// Doc encodes the comment as a store document, without its id.
func (c Comment) Doc() store.Document {
	return store.Document{
		"screamId":   c.ScreamID,
		"userHandle": c.UserHandle,
		"userImage":  c.UserImage,
		"body":       c.Body,
		"createdAt":  c.CreatedAt,
	}
}

// CreateCommentRequest defines the request body for commenting on a scream
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=500"`
}
