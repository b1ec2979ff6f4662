package handlers

import (
	"errors"

	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/pagination"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles member administration endpoints (admin only)
type UserHandler struct {
	userService  *services.UserService
	statsService *services.StatsService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, statsService *services.StatsService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		statsService: statsService,
	}
}

// ListUsers lists all members
// @Summary List members
// @Description List all registered members, passwords omitted (admin only)
// @Tags Manage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /manage/users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return response.ServiceUnavailable(c, "Store temporarily unavailable, retry later")
		}
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, "Members", fiber.Map{
		"users": users,
		"meta":  pagination.GetMeta(params, total),
	})
}

// GetStats returns library-wide counters
// @Summary Library stats
// @Description Library-wide counters (admin only)
// @Tags Manage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /manage/stats [get]
func (h *UserHandler) GetStats(c *fiber.Ctx) error {
	overview, err := h.statsService.GetOverview(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return response.ServiceUnavailable(c, "Store temporarily unavailable, retry later")
		}
		return response.InternalServerError(c, "Failed to collect stats")
	}

	return response.Success(c, "Library stats", fiber.Map{
		"stats": overview,
	})
}

// ListOverdue lists overdue loans
// @Summary Overdue loans
// @Description List active loans past their due date (admin only)
// @Tags Manage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /manage/overdue [get]
func (h *UserHandler) ListOverdue(c *fiber.Ctx) error {
	loans, err := h.statsService.ListOverdue(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return response.ServiceUnavailable(c, "Store temporarily unavailable, retry later")
		}
		return response.InternalServerError(c, "Failed to list overdue loans")
	}

	responses := make([]interface{}, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, loan.ToResponse())
	}

	return response.Success(c, "Overdue loans", fiber.Map{
		"loans": responses,
	})
}
