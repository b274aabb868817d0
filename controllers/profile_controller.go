package controller

import (
	"github.com/gofiber/fiber/v2"

	"matchmate/services"
	"matchmate/utils"
)

type ProfileController struct {
	Profiles *services.ProfileService
}

func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{Profiles: profiles}
}

// CreateProfile registers a player and returns the allocated player id.
func (pc *ProfileController) CreateProfile(c *fiber.Ctx) error {
	var input services.CreateProfileInput
	if msg, err := parseBody(c, &input); err != nil {
		return badRequest(c, msg, err)
	}

	user, err := pc.Profiles.CreateProfile(c.UserContext(), input)
	if err != nil {
		return respondError(c, "create_profile", err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(user))
}

func (pc *ProfileController) GetProfile(c *fiber.Ctx) error {
	id, ok := utils.ParseUint(c.Params("id"))
	if !ok {
		return badRequest(c, "Invalid player id", nil)
	}

	user, err := pc.Profiles.GetProfile(c.UserContext(), id)
	if err != nil {
		return respondError(c, "get_profile", err)
	}
	return c.JSON(utils.SuccessResponse(user))
}

// SetAvailability sets isAvailable from the body, or toggles it when the
// body omits the field.
func (pc *ProfileController) SetAvailability(c *fiber.Ctx) error {
	id, ok := utils.ParseUint(c.Params("id"))
	if !ok {
		return badRequest(c, "Invalid player id", nil)
	}

	var input struct {
		IsAvailable *bool `json:"isAvailable"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return badRequest(c, "Invalid request body", err)
		}
	}

	user, err := pc.Profiles.SetAvailability(c.UserContext(), id, input.IsAvailable)
	if err != nil {
		return respondError(c, "set_availability", err)
	}
	return c.JSON(utils.SuccessResponse(user))
}

// MyMatches lists the matches a player is in and the ones they are invited to.
func (pc *ProfileController) MyMatches(c *fiber.Ctx) error {
	id, ok := utils.ParseUint(c.Params("id"))
	if !ok {
		return badRequest(c, "Invalid player id", nil)
	}

	matches, err := pc.Profiles.MyMatches(c.UserContext(), id)
	if err != nil {
		return respondError(c, "my_matches", err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"joined":  NewMatchViews(matches.Joined),
		"pending": NewMatchViews(matches.Pending),
	}))
}

func (pc *ProfileController) AvailablePlayers(c *fiber.Ctx) error {
	players, err := pc.Profiles.AvailablePlayers(c.UserContext())
	if err != nil {
		return respondError(c, "available_players", err)
	}
	return c.JSON(utils.SuccessResponse(players))
}
