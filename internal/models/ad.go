package models

import "time"

type Ad struct {
	ID             int64
	Title          string
	Price          int64
	Description    string
	AuthorID       int64
	PrimaryImageID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Comment struct {
	ID        int64
	AdID      int64
	AuthorID  int64
	Text      string
	CreatedAt time.Time
}
