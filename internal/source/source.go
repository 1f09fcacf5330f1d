package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/gayathriimasha/smart-campus-mis/internal/report"
)

// Resource names a record collection.
type Resource string

const (
	// ResourceUsers backs the registrations report.
	ResourceUsers Resource = "users"
	// ResourceAnnouncements backs the announcements report.
	ResourceAnnouncements Resource = "announcements"
)

// ResourceFor returns the resource backing a report kind.
func ResourceFor(kind report.Kind) (Resource, error) {
	switch kind {
	case report.KindRegistrations:
		return ResourceUsers, nil
	case report.KindAnnouncements:
		return ResourceAnnouncements, nil
	default:
		return "", ErrUnknownResource
	}
}

// Kind returns the report kind served by the resource.
func (r Resource) Kind() report.Kind {
	switch r {
	case ResourceUsers:
		return report.KindRegistrations
	case ResourceAnnouncements:
		return report.KindAnnouncements
	default:
		return report.KindNone
	}
}

var (
	// ErrMissingCredential indicates the caller supplied no credential.
	ErrMissingCredential = errors.New("credential missing")
	// ErrInvalidCredential indicates the credential was rejected.
	ErrInvalidCredential = errors.New("credential invalid")
	// ErrUnknownResource indicates a resource name the source cannot serve.
	ErrUnknownResource = errors.New("unknown resource")
)

// FetchError wraps transport and decoding failures.
type FetchError struct {
	Resource Resource
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Resource, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is a missing or invalid credential.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrInvalidCredential)
}

// Fetcher retrieves raw records for a resource on behalf of a credential.
type Fetcher interface {
	Fetch(ctx context.Context, resource Resource, credential string) (report.Records, error)
}
