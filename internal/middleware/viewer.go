package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gayathriimasha/smart-campus-mis/internal/auth"
)

// ViewerHeader names the client-chosen identity that keys report sessions.
const ViewerHeader = "X-Viewer-ID"

// maxViewerLength bounds header-supplied identities used as session keys.
const maxViewerLength = 128

// Viewer resolves who the request acts for and which credential it carries.
// It never rejects a request: a missing credential is reported by the record
// source as a notice, not as a transport error.
func Viewer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := strings.TrimSpace(c.Get(ViewerHeader))
		if viewer == "" || len(viewer) > maxViewerLength {
			viewer = c.IP()
		}
		c.Locals("viewer_id", viewer)

		if credential := auth.BearerToken(c.Get(fiber.HeaderAuthorization)); credential != "" {
			c.Locals("credential", credential)
		}

		return c.Next()
	}
}

// GetViewer returns the viewer identity resolved for the request.
func GetViewer(c *fiber.Ctx) string {
	if viewer, ok := c.Locals("viewer_id").(string); ok && viewer != "" {
		return viewer
	}
	return c.IP()
}

// GetCredential returns the bearer credential, or "" when none was sent.
func GetCredential(c *fiber.Ctx) string {
	if credential, ok := c.Locals("credential").(string); ok {
		return credential
	}
	return auth.BearerToken(c.Get(fiber.HeaderAuthorization))
}
