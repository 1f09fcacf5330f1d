package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gayathriimasha/smart-campus-mis/internal/auth"
	"github.com/gayathriimasha/smart-campus-mis/internal/models"
	"github.com/gayathriimasha/smart-campus-mis/internal/report"
)

type userRepoStub struct {
	users []models.User
	err   error
	calls int
}

func (s *userRepoStub) List(context.Context) ([]models.User, error) {
	s.calls++
	return s.users, s.err
}

func (s *userRepoStub) UpsertBatch(context.Context, []models.User) (int64, error) {
	return 0, nil
}

type announcementRepoStub struct {
	items []models.Announcement
	err   error
}

func (s *announcementRepoStub) ListWithSender(context.Context) ([]models.Announcement, error) {
	return s.items, s.err
}

func (s *announcementRepoStub) CreateBatch(context.Context, []models.Announcement) (int64, error) {
	return 0, nil
}

func signedToken(t *testing.T, verifier *auth.Verifier) string {
	t.Helper()
	token, err := verifier.Sign(1, "admin")
	require.NoError(t, err)
	return token
}

func TestDatabaseFetchUsers(t *testing.T) {
	verifier := auth.NewVerifier("secret")
	created := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	users := &userRepoStub{users: []models.User{{ID: 3, Name: "Ann", Role: " Student ", CreatedAt: created}}}
	src := NewDatabase(users, &announcementRepoStub{}, verifier, zerolog.Nop())

	records, err := src.Fetch(context.Background(), ResourceUsers, signedToken(t, verifier))
	require.NoError(t, err)
	require.Equal(t, report.KindRegistrations, records.Kind)
	require.Equal(t, []report.RegistrationRecord{{ID: 3, Name: "Ann", Role: report.RoleStudent, CreatedAt: created}}, records.Registrations)
}

func TestDatabaseFetchAnnouncementsStripsMarkup(t *testing.T) {
	verifier := auth.NewVerifier("secret")
	senderID := uint(9)
	items := []models.Announcement{
		{ID: 1, Message: "<p>Fees &amp; <b>dates</b></p><script>x()</script>", SenderID: &senderID, Sender: &models.User{ID: 9, Name: "Alice"}},
		{ID: 2, Message: "No sender"},
	}
	src := NewDatabase(&userRepoStub{}, &announcementRepoStub{items: items}, verifier, zerolog.Nop())

	records, err := src.Fetch(context.Background(), ResourceAnnouncements, signedToken(t, verifier))
	require.NoError(t, err)
	require.Len(t, records.Activities, 2)
	require.Equal(t, "Fees & dates", records.Activities[0].Message)
	require.Equal(t, 9, records.Activities[0].ActorID)
	require.Equal(t, "Alice", records.Activities[0].Actor())
	require.Equal(t, report.UnknownActor, records.Activities[1].Actor())
}

func TestDatabaseFetchCredentialErrors(t *testing.T) {
	verifier := auth.NewVerifier("secret")
	users := &userRepoStub{}
	src := NewDatabase(users, &announcementRepoStub{}, verifier, zerolog.Nop())

	_, err := src.Fetch(context.Background(), ResourceUsers, "")
	require.ErrorIs(t, err, ErrMissingCredential)
	require.True(t, IsAuthError(err))

	_, err = src.Fetch(context.Background(), ResourceUsers, "not-a-token")
	require.ErrorIs(t, err, ErrInvalidCredential)
	require.True(t, IsAuthError(err))
	require.Zero(t, users.calls)
}

func TestDatabaseFetchWrapsRepositoryFailure(t *testing.T) {
	verifier := auth.NewVerifier("secret")
	cause := errors.New("connection reset")
	src := NewDatabase(&userRepoStub{err: cause}, &announcementRepoStub{}, verifier, zerolog.Nop())

	_, err := src.Fetch(context.Background(), ResourceUsers, signedToken(t, verifier))
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.ErrorIs(t, err, cause)
	require.False(t, IsAuthError(err))

	_, err = src.Fetch(context.Background(), Resource("grades"), signedToken(t, verifier))
	require.ErrorIs(t, err, ErrUnknownResource)
}

func TestResourceForKind(t *testing.T) {
	resource, err := ResourceFor(report.KindAnnouncements)
	require.NoError(t, err)
	require.Equal(t, ResourceAnnouncements, resource)
	require.Equal(t, report.KindRegistrations, ResourceUsers.Kind())

	_, err = ResourceFor(report.KindNone)
	require.ErrorIs(t, err, ErrUnknownResource)
}
