package models

// Collection names shared by repositories and the consistency engine.
const (
	ColScreams       = "screams"
	ColComments      = "comments"
	ColLikes         = "likes"
	ColUsers         = "users"
	ColNotifications = "notifications"
)

// Notification types.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)
