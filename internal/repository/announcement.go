package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/ogrusev/bookmart/internal/models"
	"github.com/ogrusev/bookmart/internal/repository/postgres"
)

const (
	insertAnnouncementQuery = `
						INSERT INTO announcements (title, content)
						VALUES ($1, $2)
						RETURNING id, created_at, updated_at
`
	updateAnnouncementQuery = `
						UPDATE announcements
						SET title = $1, content = $2, updated_at = NOW()
						WHERE id = $3
						RETURNING created_at, updated_at
`
	deleteAnnouncementQuery = `
						DELETE FROM announcements
						WHERE id = $1
						RETURNING title, content
`
	selectAnnouncementsQuery = `
						SELECT id, title, content, created_at, updated_at FROM announcements
						ORDER BY created_at DESC
`
)

// AnnouncementRepository implements AnnouncementRepository interface
type AnnouncementRepository struct {
	db *postgres.DB
}

// NewAnnouncementRepository creates new AnnouncementRepository instance
func NewAnnouncementRepository(db *postgres.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// CreateAnnouncement inserts new announcement
func (ar *AnnouncementRepository) CreateAnnouncement(ctx context.Context, a *models.Announcement) (*models.Announcement, error) {
	err := ar.db.QueryRow(ctx, insertAnnouncementQuery, a.Title, a.Content).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// UpdateAnnouncement updates title and content of an existing announcement
func (ar *AnnouncementRepository) UpdateAnnouncement(ctx context.Context, a *models.Announcement) (*models.Announcement, error) {
	err := ar.db.QueryRow(ctx, updateAnnouncementQuery, a.Title, a.Content, a.ID).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return a, nil
}

// DeleteAnnouncement removes the announcement and returns its last content
func (ar *AnnouncementRepository) DeleteAnnouncement(ctx context.Context, id uint64) (*models.Announcement, error) {
	a := models.Announcement{ID: id}
	err := ar.db.QueryRow(ctx, deleteAnnouncementQuery, id).Scan(&a.Title, &a.Content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &a, nil
}

// GetAnnouncements returns all announcements, newest first
func (ar *AnnouncementRepository) GetAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	rows, err := ar.db.Query(ctx, selectAnnouncementsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := []models.Announcement{}

	for rows.Next() {
		a := models.Announcement{}
		err = rows.Scan(&a.ID, &a.Title, &a.Content, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return announcements, nil
}
