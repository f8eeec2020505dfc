package models

import "github.com/machele-codez/socialape-api/internal/store"

// User represents a registered user. The handle is the human-chosen unique
// key referenced by screams, comments, likes and notifications; UserID is
// the immutable id assigned by the identity provider and is only used to
// resolve a verified token to a handle.
type User struct {
	Handle    string `json:"handle"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	ImageURL  string `json:"imageURL"`
	Bio       string `json:"bio,omitempty"`
	Website   string `json:"website,omitempty"`
	Location  string `json:"location,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// UserFromSnapshot decodes a user document. The snapshot id is the handle.
func UserFromSnapshot(snap store.Snapshot) User {
	return User{
		Handle:    store.AsString(snap.Data["handle"]),
		UserID:    store.AsString(snap.Data["userId"]),
		Email:     store.AsString(snap.Data["email"]),
		ImageURL:  store.AsString(snap.Data["imageURL"]),
		Bio:       store.AsString(snap.Data["bio"]),
		Website:   store.AsString(snap.Data["website"]),
		Location:  store.AsString(snap.Data["location"]),
		CreatedAt: store.AsString(snap.Data["createdAt"]),
	}
}

// Doc encodes the user as a store document. Users are keyed by handle.
func (u User) Doc() store.Document {
	return store.Document{
		"handle":    u.Handle,
		"userId":    u.UserID,
		"email":     u.Email,
		"imageURL":  u.ImageURL,
		"bio":       u.Bio,
		"website":   u.Website,
		"location":  u.Location,
		"createdAt": u.CreatedAt,
	}
}

// SignupRequest defines the request body for user signup
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Handle          string `json:"handle" validate:"required,min=2,max=30"`
}

// UpdateUserDetailsRequest defines the request body for adding profile details
type UpdateUserDetailsRequest struct {
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=200"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
	ImageURL string `json:"imageURL,omitempty" validate:"omitempty,url"`
}
