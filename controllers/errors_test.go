package controller_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	controller "matchmate/controllers"
	"matchmate/services"
	"matchmate/squad"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{squad.ErrTeamFull, fiber.StatusConflict},
		{squad.ErrAlreadyJoined, fiber.StatusConflict},
		{squad.ErrAlreadyInMatch, fiber.StatusConflict},
		{squad.ErrAlreadyInvited, fiber.StatusConflict},
		{squad.ErrConflict, fiber.StatusConflict},
		{squad.ErrMatchCancelled, fiber.StatusConflict},
		{squad.ErrNotCancellable, fiber.StatusConflict},
		{squad.ErrNotInMatch, fiber.StatusBadRequest},
		{squad.ErrNoInvitation, fiber.StatusBadRequest},
		{services.ErrInvalidTeam, fiber.StatusBadRequest},
		{services.ErrBlankName, fiber.StatusBadRequest},
		{squad.ErrProfileNotFound, fiber.StatusNotFound},
		{squad.ErrMatchNotFound, fiber.StatusNotFound},
		{squad.ErrForbidden, fiber.StatusForbidden},
		{fmt.Errorf("record membership: %w", squad.ErrConflict), fiber.StatusConflict},
		{errors.New("disk on fire"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, msg := controller.StatusFor(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, msg)
		})
	}
}
