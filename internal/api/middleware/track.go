package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TrackIDHeader = "X-Track-Id"
	TrackIDKey    = "x_track_id"
)

// TrackID tags each request with an id, reusing the caller's when present.
func TrackID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(TrackIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Locals(TrackIDKey, id)
		c.Set(TrackIDHeader, id)

		return c.Next()
	}
}

func GetTrackID(c *fiber.Ctx) string {
	id, _ := c.Locals(TrackIDKey).(string)
	return id
}
