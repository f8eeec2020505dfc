package models

import "github.com/machele-codez/socialape-api/internal/store"

// Scream represents a user-authored post with denormalized aggregates.
// LikeCount and CommentCount are maintained incrementally by the handlers
// that write likes/comments; the reconcile operation recomputes them.
type Scream struct {
	ID           string `json:"screamId"`
	UserHandle   string `json:"userHandle"`
	Body         string `json:"body"`
	UserImage    string `json:"userImage"`
	LikeCount    int64  `json:"likeCount"`
	CommentCount int64  `json:"commentCount"`
	CreatedAt    string `json:"createdAt"`
}

// ScreamFromSnapshot decodes a scream document.
func ScreamFromSnapshot(snap store.Snapshot) Scream {
	return Scream{
		ID:           snap.ID,
		UserHandle:   store.AsString(snap.Data["userHandle"]),
		Body:         store.AsString(snap.Data["body"]),
		UserImage:    store.AsString(snap.Data["userImage"]),
		LikeCount:    store.AsInt(snap.Data["likeCount"]),
		CommentCount: store.AsInt(snap.Data["commentCount"]),
		CreatedAt:    store.AsString(snap.Data["createdAt"]),
	}
}

// Doc encodes the scream as a store document, without its id.
func (s Scream) Doc() store.Document {
	return store.Document{
		"userHandle":   s.UserHandle,
		"body":         s.Body,
		"userImage":    s.UserImage,
		"likeCount":    s.LikeCount,
		"commentCount": s.CommentCount,
		"createdAt":    s.CreatedAt,
	}
}

// CreateScreamRequest defines the request body for creating a new scream
type CreateScreamRequest struct {
	Body string `json:"body" validate:"required,min=1,max=500"`
}
