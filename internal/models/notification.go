package models

import "github.com/machele-codez/socialape-api/internal/store"

// Notification represents a user notification. Its id equals the id of the
// like or comment that triggered it, which makes notification writes
// idempotent under trigger re-delivery.
type Notification struct {
	ID        string `json:"notificationId"`
	Recipient string `json:"recipient"`
	Sender    string `json:"sender"`
	ScreamID  string `json:"screamId"`
	Type      string `json:"type"` // like, comment
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

// NotificationFromSnapshot decodes a notification document.
func NotificationFromSnapshot(snap store.Snapshot) Notification {
	return Notification{
		ID:        snap.ID,
		Recipient: store.AsString(snap.Data["recipient"]),
		Sender:    store.AsString(snap.Data["sender"]),
		ScreamID:  store.AsString(snap.Data["screamId"]),
		Type:      store.AsString(snap.Data["type"]),
		Read:      store.AsBool(snap.Data["read"]),
		CreatedAt: store.AsString(snap.Data["createdAt"]),
	}
}

// Doc encodes the notification as a store document, without its id.
func (n Notification) Doc() store.Document {
	return store.Document{
		"recipient": n.Recipient,
		"sender":    n.Sender,
		"screamId":  n.ScreamID,
		"type":      n.Type,
		"read":      n.Read,
		"createdAt": n.CreatedAt,
	}
}
