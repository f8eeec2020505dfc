package models

import "github.com/machele-codez/socialape-api/internal/store"

// Like represents a like on a scream. At most one like may exist per
// (screamId, userHandle) pair, enforced by a pre-check before insert.
type Like struct {
	ID         string `json:"likeId"`
	ScreamID   string `json:"screamId"`
	UserHandle string `json:"userHandle"`
}

// LikeFromSnapshot decodes a like document.
func LikeFromSnapshot(snap store.Snapshot) Like {
	return Like{
		ID:         snap.ID,
		ScreamID:   store.AsString(snap.Data["screamId"]),
		UserHandle: store.AsString(snap.Data["userHandle"]),
	}
}

// Doc encodes the like as a store document, without its id.
func (l Like) Doc() store.Document {
	return store.Document{
		"screamId":   l.ScreamID,
		"userHandle": l.UserHandle,
	}
}
