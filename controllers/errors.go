package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"matchmate/services"
	"matchmate/squad"
	"matchmate/utils"
)

type errorStatus struct {
	err     error
	status  int
	message string
}

var errorStatuses = []errorStatus{
	{squad.ErrTeamFull, fiber.StatusConflict, "Team is full"},
	{squad.ErrAlreadyJoined, fiber.StatusConflict, "Player already joined this match"},
	{squad.ErrAlreadyInMatch, fiber.StatusConflict, "Player is already in this match"},
	{squad.ErrAlreadyInvited, fiber.StatusConflict, "Player already has a pending invitation"},
	{squad.ErrConflict, fiber.StatusConflict, "Match was updated concurrently, please retry"},
	{squad.ErrMatchCancelled, fiber.StatusConflict, "Match has been cancelled"},
	{squad.ErrNotCancellable, fiber.StatusConflict, "Only open matches can be cancelled"},
	{squad.ErrNotInMatch, fiber.StatusBadRequest, "Player is not in this match"},
	{squad.ErrNoInvitation, fiber.StatusBadRequest, "No pending invitation for this match"},
	{services.ErrInvalidTeam, fiber.StatusBadRequest, "Team must be 1 or 2"},
	{services.ErrInvalidLocation, fiber.StatusBadRequest, "Unknown city or district"},
	{services.ErrInvalidPosition, fiber.StatusBadRequest, "Unknown position"},
	{services.ErrBlankName, fiber.StatusBadRequest, "Name and surname must not be blank"},
	{squad.ErrProfileNotFound, fiber.StatusNotFound, "Profile not found"},
	{squad.ErrMatchNotFound, fiber.StatusNotFound, "Match not found"},
	{squad.ErrForbidden, fiber.StatusForbidden, "Only the match creator can do this"},
}

// StatusFor maps a service error to its HTTP status and user message.
// Unknown errors are 500.
func StatusFor(err error) (int, string) {
	for _, es := range errorStatuses {
		if errors.Is(err, es.err) {
			return es.status, es.message
		}
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

// respondError writes the error response for err, logging unexpected ones.
func respondError(c *fiber.Ctx, operation string, err error) error {
	status, message := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		utils.LogError(operation+"_failed", err, map[string]interface{}{
			"path":   c.Path(),
			"method": c.Method(),
		})
		return utils.ErrorResponse(c, status, message, nil)
	}
	return utils.ErrorResponse(c, status, message, err)
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	return utils.ErrorResponse(c, fiber.StatusBadRequest, message, err)
}

// parseBody decodes and validates a JSON body into dst. On failure it
// returns the message to show with the error.
func parseBody(c *fiber.Ctx, dst interface{}) (string, error) {
	if err := c.BodyParser(dst); err != nil {
		return "Invalid request body", err
	}
	if err := utils.ValidateStruct(dst); err != nil {
		return "Validation failed", err
	}
	return "", nil
}
