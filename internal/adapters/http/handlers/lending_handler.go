package handlers

import (
	"errors"

	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/pagination"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LendingHandler handles borrow/return endpoints
type LendingHandler struct {
	lendingService *services.LendingService
}

// NewLendingHandler creates a new lending handler
func NewLendingHandler(lendingService *services.LendingService) *LendingHandler {
	return &LendingHandler{
		lendingService: lendingService,
	}
}

// LendingRequest represents borrow/return request body
type LendingRequest struct {
	Username string `json:"username"`
	BookID   uint   `json:"bookId"`
}

// requireSelf enforces that the body username matches the
// authenticated identity. Members cannot act on another's behalf.
func requireSelf(c *fiber.Ctx, username string) bool {
	authed, _ := c.Locals("username").(string)
	return authed != "" && authed == username
}

// ListAvailable lists available books
// @Summary List available books
// @Description List books currently not on loan
// @Tags Lending
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /library [get]
func (h *LendingHandler) ListAvailable(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	books, total, err := h.lendingService.ListAvailable(c.Context(), params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return response.ServiceUnavailable(c, "Catalog temporarily unavailable")
		}
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Available books", fiber.Map{
		"books": books,
		"meta":  pagination.GetMeta(params, total),
	})
}

// Borrow handles borrowing a book
// @Summary Borrow a book
// @Description Borrow an available book for the fixed loan period
// @Tags Lending
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LendingRequest true "Borrow data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /borrow-book [post]
func (h *LendingHandler) Borrow(c *fiber.Ctx) error {
	var req LendingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.BookID == 0 {
		return response.BadRequest(c, "Username and bookId are required")
	}
	if !requireSelf(c, req.Username) {
		return response.Forbidden(c, "Unauthorized action")
	}

	loan, err := h.lendingService.Borrow(c.Context(), req.Username, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrBookUnavailable):
			return response.Conflict(c, "Book is not available")
		case errors.Is(err, domain.ErrAlreadyBorrowed):
			return response.Conflict(c, "You have already borrowed this book")
		case errors.Is(err, domain.ErrStoreUnavailable):
			return response.ServiceUnavailable(c, "Store temporarily unavailable, retry later")
		default:
			return response.InternalServerError(c, "Failed to borrow book")
		}
	}

	return response.Created(c, "Book borrowed successfully", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// Return handles returning a borrowed book
// @Summary Return a book
// @Description Return a borrowed book and compute the overdue fine
// @Tags Lending
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LendingRequest true "Return data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /return-book [post]
func (h *LendingHandler) Return(c *fiber.Ctx) error {
	var req LendingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.BookID == 0 {
		return response.BadRequest(c, "Username and bookId are required")
	}
	if !requireSelf(c, req.Username) {
		return response.Forbidden(c, "Unauthorized action")
	}

	record, err := h.lendingService.Return(c.Context(), req.Username, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "No record found for this borrowed book")
		case errors.Is(err, domain.ErrStoreUnavailable):
			return response.ServiceUnavailable(c, "Store temporarily unavailable, retry later")
		default:
			return response.InternalServerError(c, "Failed to return book")
		}
	}

	return response.Created(c, "Book returned successfully", fiber.Map{
		"fine":     record.Fine,
		"bookId":   record.BookID,
		"due_date": record.DueDate,
	})
}

// MyLoans lists the caller's active loans
// @Summary My active loans
// @Description List the authenticated member's active loans
// @Tags Lending
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /my-loans [get]
func (h *LendingHandler) MyLoans(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)
	if username == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	loans, err := h.lendingService.MyLoans(c.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return response.ServiceUnavailable(c, "Store temporarily unavailable, retry later")
		}
		return response.InternalServerError(c, "Failed to list loans")
	}

	responses := make([]interface{}, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, loan.ToResponse())
	}

	return response.Success(c, "Active loans", fiber.Map{
		"loans": responses,
	})
}

// MyReturns lists the caller's return history
// @Summary My return history
// @Description List the authenticated member's returns and fines charged
// @Tags Lending
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /my-returns [get]
func (h *LendingHandler) MyReturns(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)
	if username == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	records, err := h.lendingService.MyReturns(c.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return response.ServiceUnavailable(c, "Store temporarily unavailable, retry later")
		}
		return response.InternalServerError(c, "Failed to list returns")
	}

	return response.Success(c, "Return history", fiber.Map{
		"returns": records,
	})
}
