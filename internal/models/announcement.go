package models

import "time"

// Announcement is store announcement entity
type Announcement struct {
	ID        uint64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
