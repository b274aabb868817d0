package controller

import (
	"github.com/gofiber/fiber/v2"

	"matchmate/middleware"
	"matchmate/models"
	"matchmate/services"
	"matchmate/squad"
	"matchmate/utils"
)

type MatchController struct {
	Matches *services.MatchService
}

func NewMatchController(matches *services.MatchService) *MatchController {
	return &MatchController{Matches: matches}
}

// MatchView is a match with its roster split into the two teams.
type MatchView struct {
	*models.Match
	State      squad.State    `json:"state"`
	TeamA      []squad.Player `json:"teamA"`
	TeamB      []squad.Player `json:"teamB"`
	VacanciesA int            `json:"vacanciesA"`
	VacanciesB int            `json:"vacanciesB"`
}

func NewMatchView(m *models.Match) MatchView {
	return MatchView{
		Match:      m,
		State:      m.State(),
		TeamA:      squad.Team(m.Players, 1),
		TeamB:      squad.Team(m.Players, 2),
		VacanciesA: squad.Vacancies(m.Players, 1),
		VacanciesB: squad.Vacancies(m.Players, 2),
	}
}

func NewMatchViews(matches []models.Match) []MatchView {
	views := make([]MatchView, len(matches))
	for i := range matches {
		views[i] = NewMatchView(&matches[i])
	}
	return views
}

type teamInput struct {
	Team int `json:"team" validate:"required,oneof=1 2"`
}

func (mc *MatchController) CreateMatch(c *fiber.Ctx) error {
	player := middleware.CurrentPlayer(c)

	var input services.CreateMatchInput
	if msg, err := parseBody(c, &input); err != nil {
		return badRequest(c, msg, err)
	}

	m, err := mc.Matches.CreateMatch(c.UserContext(), player.PlayerID, input)
	if err != nil {
		return respondError(c, "create_match", err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(NewMatchView(m)))
}

// SearchMatches filters matches by name, kick-off window, city and district.
func (mc *MatchController) SearchMatches(c *fiber.Ctx) error {
	var q services.SearchQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query", err)
	}
	if err := utils.ValidateStruct(&q); err != nil {
		return badRequest(c, "Validation failed", err)
	}

	matches, err := mc.Matches.SearchMatches(c.UserContext(), q)
	if err != nil {
		return respondError(c, "search_matches", err)
	}
	return c.JSON(utils.SuccessResponse(NewMatchViews(matches)))
}

func (mc *MatchController) GetMatch(c *fiber.Ctx) error {
	m, err := mc.Matches.GetMatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "get_match", err)
	}
	return c.JSON(utils.SuccessResponse(NewMatchView(m)))
}

func (mc *MatchController) JoinTeam(c *fiber.Ctx) error {
	player := middleware.CurrentPlayer(c)

	var input teamInput
	if msg, err := parseBody(c, &input); err != nil {
		return badRequest(c, msg, err)
	}

	m, err := mc.Matches.JoinTeam(c.UserContext(), c.Params("id"), player.PlayerID, input.Team)
	if err != nil {
		return respondError(c, "join_team", err)
	}
	return c.JSON(utils.SuccessResponse(NewMatchView(m)))
}

func (mc *MatchController) LeaveMatch(c *fiber.Ctx) error {
	player := middleware.CurrentPlayer(c)

	m, err := mc.Matches.LeaveMatch(c.UserContext(), c.Params("id"), player.PlayerID)
	if err != nil {
		return respondError(c, "leave_match", err)
	}
	return c.JSON(utils.SuccessResponse(NewMatchView(m)))
}

func (mc *MatchController) CancelMatch(c *fiber.Ctx) error {
	player := middleware.CurrentPlayer(c)

	m, err := mc.Matches.CancelMatch(c.UserContext(), c.Params("id"), player.PlayerID)
	if err != nil {
		return respondError(c, "cancel_match", err)
	}
	return c.JSON(utils.SuccessResponse(NewMatchView(m)))
}

// Candidates lists players who can be invited to the match.
func (mc *MatchController) Candidates(c *fiber.Ctx) error {
	list, err := mc.Matches.Candidates(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "list_candidates", err)
	}
	return c.JSON(utils.SuccessResponse(list))
}
