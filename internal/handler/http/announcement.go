package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ogrusev/bookmart/internal/models"
)

// AnnouncementService mutates announcements and pushes them to clients
type AnnouncementService interface {
	Create(ctx context.Context, a *models.Announcement) (*models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) (*models.Announcement, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]models.Announcement, error)
}

// AnnouncementHandler represents HTTP handler for announcement requests
type AnnouncementHandler struct {
	svc AnnouncementService
}

// NewAnnouncementHandler creates new AnnouncementHandler instance
func NewAnnouncementHandler(svc AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc}
}

type announcementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type announcementResponse struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newAnnouncementResponse(a *models.Announcement) announcementResponse {
	return announcementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateAnnouncement creates a new store announcement
// 201 — объявление создано;
// 400 — неверный формат запроса;
// 500 — внутренняя ошибка сервера.
func (ah *AnnouncementHandler) CreateAnnouncement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req announcementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		created, err := ah.svc.Create(r.Context(), &models.Announcement{
			Title:   req.Title,
			Content: req.Content,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, newAnnouncementResponse(created))
	}
}

// UpdateAnnouncement updates an existing announcement
// 200 — объявление обновлено;
// 400 — неверный формат запроса;
// 404 — объявление не найдено;
// 500 — внутренняя ошибка сервера.
func (ah *AnnouncementHandler) UpdateAnnouncement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req announcementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		updated, err := ah.svc.Update(r.Context(), &models.Announcement{
			ID:      id,
			Title:   req.Title,
			Content: req.Content,
		})
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "announcement not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, newAnnouncementResponse(updated))
	}
}

// DeleteAnnouncement removes an announcement
// 204 — объявление удалено;
// 400 — неверный формат запроса;
// 404 — объявление не найдено;
// 500 — внутренняя ошибка сервера.
func (ah *AnnouncementHandler) DeleteAnnouncement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		if err := ah.svc.Delete(r.Context(), id); err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "announcement not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ListAnnouncements returns all announcements
// 200 — успешная обработка запроса;
// 204 — нет данных для ответа;
// 500 — внутренняя ошибка сервера.
func (ah *AnnouncementHandler) ListAnnouncements() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		announcements, err := ah.svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(announcements) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]announcementResponse, 0, len(announcements))
		for i := range announcements {
			resp = append(resp, newAnnouncementResponse(&announcements[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
