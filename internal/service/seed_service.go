package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gayathriimasha/smart-campus-mis/internal/models"
	"github.com/gayathriimasha/smart-campus-mis/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
	// ErrSeedInvalid indicates an item that cannot be stored.
	ErrSeedInvalid = errors.New("invalid seed item")
)

// SeedService loads demo users and announcements, including backdated ones, so
// reports have history to aggregate.
type SeedService interface {
	SeedUsers(ctx context.Context, token string, users []models.User) (int64, error)
	SeedAnnouncements(ctx context.Context, token string, items []models.Announcement) (int64, error)
}

type seedService struct {
	userRepo         repository.UserRepository
	announcementRepo repository.AnnouncementRepository
	enabled          bool
	token            string
	logger           zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(userRepo repository.UserRepository, announcementRepo repository.AnnouncementRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		userRepo:         userRepo,
		announcementRepo: announcementRepo,
		enabled:          enabled,
		token:            token,
		logger:           logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedUsers(ctx context.Context, token string, users []models.User) (int64, error) {
	if err := s.authorize(token); err != nil {
		return 0, err
	}
	for i := range users {
		users[i].Name = strings.TrimSpace(users[i].Name)
		users[i].Email = strings.ToLower(strings.TrimSpace(users[i].Email))
		users[i].Role = strings.ToLower(strings.TrimSpace(users[i].Role))
		if users[i].Email == "" || users[i].Role == "" {
			return 0, fmt.Errorf("%w: user %d requires email and role", ErrSeedInvalid, i)
		}
	}

	affected, err := s.userRepo.UpsertBatch(ctx, users)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("affected", affected).Msg("users seeded")
	return affected, nil
}

func (s *seedService) SeedAnnouncements(ctx context.Context, token string, items []models.Announcement) (int64, error) {
	if err := s.authorize(token); err != nil {
		return 0, err
	}
	for i := range items {
		items[i].Message = strings.TrimSpace(items[i].Message)
		if items[i].Message == "" {
			return 0, fmt.Errorf("%w: announcement %d requires a message", ErrSeedInvalid, i)
		}
	}

	affected, err := s.announcementRepo.CreateBatch(ctx, items)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("affected", affected).Msg("announcements seeded")
	return affected, nil
}

func (s *seedService) authorize(token string) error {
	if !s.enabled {
		return ErrSeedDisabled
	}
	expected := strings.TrimSpace(s.token)
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) != 1 {
		return ErrSeedUnauthorized
	}
	return nil
}
