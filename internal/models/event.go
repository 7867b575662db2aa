package models

import "time"

// push event types
const (
	EventOrderCreated        = "order-created"
	EventOrderStatusChanged  = "order-status-changed"
	EventNewAnnouncement     = "new-announcement"
	EventUpdatedAnnouncement = "updated-announcement"
	EventDeletedAnnouncement = "deleted-announcement"
)

// Event is push message envelope delivered over live socket connections
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}
