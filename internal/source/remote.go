package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gayathriimasha/smart-campus-mis/internal/report"
)

// Remote fetches records from an upstream campus API using the caller's bearer credential.
type Remote struct {
	baseURL string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewRemote constructs an upstream record source.
func NewRemote(baseURL string, timeout time.Duration, logger zerolog.Logger) *Remote {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout: timeout,
		logger:  logger.With().Str("component", "remote_source").Logger(),
	}
}

type remoteUser struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type remoteAnnouncement struct {
	ID         int     `json:"id"`
	Message    string  `json:"message"`
	SenderID   int     `json:"sender_id"`
	SenderName *string `json:"sender_name"`
	CreatedAt  string  `json:"created_at"`
}

func (r *Remote) Fetch(ctx context.Context, resource Resource, credential string) (report.Records, error) {
	if resource != ResourceUsers && resource != ResourceAnnouncements {
		return report.Records{}, ErrUnknownResource
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return report.Records{}, ErrMissingCredential
	}
	if err := ctx.Err(); err != nil {
		return report.Records{}, &FetchError{Resource: resource, Err: err}
	}

	body, err := r.get(resource, credential, r.requestTimeout(ctx))
	if err != nil {
		return report.Records{}, err
	}

	switch resource {
	case ResourceUsers:
		var items []remoteUser
		if err := decodeList(body, &items); err != nil {
			return report.Records{}, &FetchError{Resource: resource, Err: err}
		}
		return report.Records{Kind: report.KindRegistrations, Registrations: r.registrations(items)}, nil
	default:
		var items []remoteAnnouncement
		if err := decodeList(body, &items); err != nil {
			return report.Records{}, &FetchError{Resource: resource, Err: err}
		}
		return report.Records{Kind: report.KindAnnouncements, Activities: r.activities(items)}, nil
	}
}

// requestTimeout caps the configured timeout by the context deadline. The fiber
// Agent does not observe ctx, so cancellation without a deadline only takes
// effect before the request starts.
func (r *Remote) requestTimeout(ctx context.Context) time.Duration {
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}

func (r *Remote) get(resource Resource, credential string, timeout time.Duration) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", r.baseURL, resource)
	agent := fiber.Get(url)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+credential)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.Timeout(timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		r.logger.Warn().Err(err).Str("resource", string(resource)).Msg("upstream request failed")
		return nil, &FetchError{Resource: resource, Err: err}
	}

	switch {
	case status == fiber.StatusUnauthorized || status == fiber.StatusForbidden:
		return nil, ErrInvalidCredential
	case status < 200 || status >= 300:
		r.logger.Warn().Int("status", status).Str("resource", string(resource)).Msg("upstream returned error status")
		return nil, &FetchError{Resource: resource, Status: status, Err: errors.New("unexpected upstream status")}
	}
	return body, nil
}

// decodeList accepts a bare JSON array or an envelope with a "data" array.
func decodeList(body []byte, target interface{}) error {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(body, target)
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return err
	}
	if len(envelope.Data) == 0 {
		return errors.New("response has no data array")
	}
	return json.Unmarshal(envelope.Data, target)
}

func (r *Remote) registrations(items []remoteUser) []report.RegistrationRecord {
	records := make([]report.RegistrationRecord, 0, len(items))
	for _, item := range items {
		createdAt, ok := report.ParseTimestamp(item.CreatedAt)
		if !ok {
			r.logger.Debug().Int("id", item.ID).Str("created_at", item.CreatedAt).Msg("malformed user timestamp")
		}
		records = append(records, report.RegistrationRecord{
			ID:        item.ID,
			Name:      item.Name,
			Role:      report.Role(strings.ToLower(strings.TrimSpace(item.Role))),
			CreatedAt: createdAt,
		})
	}
	return records
}

func (r *Remote) activities(items []remoteAnnouncement) []report.ActivityRecord {
	records := make([]report.ActivityRecord, 0, len(items))
	for _, item := range items {
		createdAt, ok := report.ParseTimestamp(item.CreatedAt)
		if !ok {
			r.logger.Debug().Int("id", item.ID).Str("created_at", item.CreatedAt).Msg("malformed announcement timestamp")
		}
		actor := ""
		if item.SenderName != nil {
			actor = *item.SenderName
		}
		records = append(records, report.ActivityRecord{
			ID:        item.ID,
			Message:   item.Message,
			ActorID:   item.SenderID,
			ActorName: actor,
			CreatedAt: createdAt,
		})
	}
	return records
}
