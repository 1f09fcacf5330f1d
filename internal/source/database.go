package source

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/gayathriimasha/smart-campus-mis/internal/auth"
	"github.com/gayathriimasha/smart-campus-mis/internal/models"
	"github.com/gayathriimasha/smart-campus-mis/internal/report"
	"github.com/gayathriimasha/smart-campus-mis/internal/repository"
)

// Database serves records from the campus database after verifying the credential.
type Database struct {
	users         repository.UserRepository
	announcements repository.AnnouncementRepository
	verifier      *auth.Verifier
	policy        *bluemonday.Policy
	logger        zerolog.Logger
}

// NewDatabase constructs a database backed record source.
func NewDatabase(users repository.UserRepository, announcements repository.AnnouncementRepository, verifier *auth.Verifier, logger zerolog.Logger) *Database {
	return &Database{
		users:         users,
		announcements: announcements,
		verifier:      verifier,
		policy:        bluemonday.StrictPolicy(),
		logger:        logger.With().Str("component", "database_source").Logger(),
	}
}

func (d *Database) Fetch(ctx context.Context, resource Resource, credential string) (report.Records, error) {
	if strings.TrimSpace(credential) == "" {
		return report.Records{}, ErrMissingCredential
	}
	if _, err := d.verifier.Verify(credential); err != nil {
		if errors.Is(err, auth.ErrMissingToken) {
			return report.Records{}, ErrMissingCredential
		}
		return report.Records{}, ErrInvalidCredential
	}

	switch resource {
	case ResourceUsers:
		users, err := d.users.List(ctx)
		if err != nil {
			d.logger.Error().Err(err).Str("resource", string(resource)).Msg("failed to load users")
			return report.Records{}, &FetchError{Resource: resource, Err: err}
		}
		return report.Records{Kind: report.KindRegistrations, Registrations: registrationsFromUsers(users)}, nil
	case ResourceAnnouncements:
		items, err := d.announcements.ListWithSender(ctx)
		if err != nil {
			d.logger.Error().Err(err).Str("resource", string(resource)).Msg("failed to load announcements")
			return report.Records{}, &FetchError{Resource: resource, Err: err}
		}
		return report.Records{Kind: report.KindAnnouncements, Activities: d.activitiesFromAnnouncements(items)}, nil
	default:
		return report.Records{}, ErrUnknownResource
	}
}

func registrationsFromUsers(users []models.User) []report.RegistrationRecord {
	records := make([]report.RegistrationRecord, 0, len(users))
	for _, user := range users {
		records = append(records, report.RegistrationRecord{
			ID:        int(user.ID),
			Name:      user.Name,
			Role:      report.Role(strings.ToLower(strings.TrimSpace(user.Role))),
			CreatedAt: user.CreatedAt,
		})
	}
	return records
}

func (d *Database) activitiesFromAnnouncements(items []models.Announcement) []report.ActivityRecord {
	records := make([]report.ActivityRecord, 0, len(items))
	for _, item := range items {
		record := report.ActivityRecord{
			ID:        int(item.ID),
			Message:   d.plainText(item.Message),
			ActorName: item.SenderName(),
			CreatedAt: item.CreatedAt,
		}
		if item.SenderID != nil {
			record.ActorID = int(*item.SenderID)
		}
		records = append(records, record)
	}
	return records
}

func (d *Database) plainText(value string) string {
	return strings.TrimSpace(html.UnescapeString(d.policy.Sanitize(value)))
}
