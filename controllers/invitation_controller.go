package controller

import (
	"github.com/gofiber/fiber/v2"

	"matchmate/middleware"
	"matchmate/utils"
)

// Invite records an invitation from the caller to another player.
func (mc *MatchController) Invite(c *fiber.Ctx) error {
	player := middleware.CurrentPlayer(c)

	var input struct {
		PlayerID uint `json:"playerId" validate:"required,gt=0"`
	}
	if msg, err := parseBody(c, &input); err != nil {
		return badRequest(c, msg, err)
	}

	if err := mc.Matches.Invite(c.UserContext(), c.Params("id"), player.PlayerID, input.PlayerID); err != nil {
		return respondError(c, "invite_player", err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(fiber.Map{
		"matchId":   c.Params("id"),
		"playerId":  input.PlayerID,
		"invitedBy": player.PlayerID,
	}))
}

// AcceptInvitation joins the chosen team using a pending invitation.
func (mc *MatchController) AcceptInvitation(c *fiber.Ctx) error {
	player := middleware.CurrentPlayer(c)

	var input teamInput
	if msg, err := parseBody(c, &input); err != nil {
		return badRequest(c, msg, err)
	}

	m, err := mc.Matches.AcceptInvitation(c.UserContext(), c.Params("id"), player.PlayerID, input.Team)
	if err != nil {
		return respondError(c, "accept_invitation", err)
	}
	return c.JSON(utils.SuccessResponse(NewMatchView(m)))
}

func (mc *MatchController) RejectInvitation(c *fiber.Ctx) error {
	player := middleware.CurrentPlayer(c)

	if err := mc.Matches.RejectInvitation(c.UserContext(), c.Params("id"), player.PlayerID); err != nil {
		return respondError(c, "reject_invitation", err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"matchId": c.Params("id")}))
}
