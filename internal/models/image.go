package models

import "time"

// Image is the persisted metadata row for a stored blob. A well-formed
// image belongs to exactly one ad or exactly one user, never both.
// Rows are immutable once created; replacing an owner's image creates a
// new row and deletes the old one.
type Image struct {
	ID               int64
	FilePath         string
	FileSize         int64
	ContentType      string
	OriginalFileName string
	AdID             *int64
	UserID           *int64
	CreatedAt        time.Time
}
