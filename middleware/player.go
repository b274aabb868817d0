package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"matchmate/models"
	"matchmate/squad"
	"matchmate/store"
	"matchmate/utils"
)

// PlayerHeader carries the caller's player id. It is not authenticated;
// clients send the id they stored when the profile was created.
const PlayerHeader = "X-Player-ID"

// Locals keys set by RequirePlayer.
const (
	LocalPlayer   = "player"
	LocalPlayerID = "playerID"
)

// RequirePlayer resolves the calling profile from the X-Player-ID header.
func RequirePlayer(repo store.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(PlayerHeader)
		if raw == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Player id required", nil)
		}
		id, ok := utils.ParseUint(raw)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid player id", nil)
		}

		user, err := repo.GetUser(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, squad.ErrProfileNotFound) {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Player not found", nil)
			}
			utils.LogError("player_lookup_failed", err, map[string]interface{}{"player_id": id})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve player", nil)
		}

		c.Locals(LocalPlayer, user)
		c.Locals(LocalPlayerID, user.PlayerID)
		return c.Next()
	}
}

// CurrentPlayer returns the profile stored by RequirePlayer.
func CurrentPlayer(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(LocalPlayer).(*models.User)
	return u
}
