package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gayathriimasha/smart-campus-mis/internal/models"
)

// AnnouncementRepository exposes persistence helpers for announcements.
type AnnouncementRepository interface {
	ListWithSender(ctx context.Context) ([]models.Announcement, error)
	CreateBatch(ctx context.Context, items []models.Announcement) (int64, error)
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository constructs the repository implementation.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) ListWithSender(ctx context.Context) ([]models.Announcement, error) {
	var items []models.Announcement
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *announcementRepository) CreateBatch(ctx context.Context, items []models.Announcement) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Omit("Sender").Create(&items)
	return result.RowsAffected, result.Error
}
