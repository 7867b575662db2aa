package service

import (
	"context"
	"time"

	"github.com/ogrusev/bookmart/internal/models"
	"go.uber.org/zap"
)

// AnnouncementRepository is interface for interacting with announcement data
type AnnouncementRepository interface {
	CreateAnnouncement(ctx context.Context, a *models.Announcement) (*models.Announcement, error)
	UpdateAnnouncement(ctx context.Context, a *models.Announcement) (*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id uint64) (*models.Announcement, error)
	GetAnnouncements(ctx context.Context) ([]models.Announcement, error)
}

// AnnouncementService persists announcement mutations and pushes them to
// every connected client
type AnnouncementService struct {
	repo        AnnouncementRepository
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewAnnouncementService creates new AnnouncementService instance
func NewAnnouncementService(repo AnnouncementRepository, broadcaster Broadcaster, logger *zap.Logger) *AnnouncementService {
	return &AnnouncementService{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

type announcementPayload struct {
	ID      uint64 `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// Create persists the announcement and notifies all connections
func (as *AnnouncementService) Create(ctx context.Context, a *models.Announcement) (*models.Announcement, error) {
	created, err := as.repo.CreateAnnouncement(ctx, a)
	if err != nil {
		return nil, err
	}

	as.notify(ctx, models.EventNewAnnouncement, created)

	return created, nil
}

// Update persists the change and notifies all connections
func (as *AnnouncementService) Update(ctx context.Context, a *models.Announcement) (*models.Announcement, error) {
	updated, err := as.repo.UpdateAnnouncement(ctx, a)
	if err != nil {
		return nil, err
	}

	as.notify(ctx, models.EventUpdatedAnnouncement, updated)

	return updated, nil
}

// Delete removes the announcement and notifies all connections
func (as *AnnouncementService) Delete(ctx context.Context, id uint64) error {
	deleted, err := as.repo.DeleteAnnouncement(ctx, id)
	if err != nil {
		return err
	}

	as.notify(ctx, models.EventDeletedAnnouncement, deleted)

	return nil
}

// List returns all announcements
func (as *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	return as.repo.GetAnnouncements(ctx)
}

func (as *AnnouncementService) notify(ctx context.Context, eventType string, a *models.Announcement) {
	as.broadcaster.SendToAll(ctx, models.Event{
		Type: eventType,
		Data: announcementPayload{
			ID:      a.ID,
			Title:   a.Title,
			Content: a.Content,
		},
		Timestamp: time.Now(),
	})
}
