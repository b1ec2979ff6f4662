package handlers

import (
	"errors"
	"strconv"

	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles book administration endpoints (admin only)
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// BookRequest represents book create/update request body
type BookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	Type   string `json:"type"`
}

func (r *BookRequest) validate() string {
	if r.Title == "" {
		return "Title is required"
	}
	if r.Author == "" {
		return "Author is required"
	}
	if r.Genre == "" {
		return "Genre is required"
	}
	if r.Type == "" {
		return "Type is required"
	}
	return ""
}

func parseBookID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("bookId"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// AddBook adds a new book
// @Summary Add a book
// @Description Add a new book to the catalog (admin only)
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BookRequest true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /library [post]
func (h *CatalogHandler) AddBook(c *fiber.Ctx) error {
	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}

	book, err := h.catalogService.AddBook(c.Context(), &services.BookInput{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
		Type:   req.Type,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to add book")
	}

	return response.Created(c, "New book added", fiber.Map{
		"book": book,
	})
}

// UpdateBook updates book metadata
// @Summary Update a book
// @Description Update book metadata; availability is never touched here
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bookId path int true "Book ID"
// @Param body body BookRequest true "Book data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /library/{bookId} [put]
func (h *CatalogHandler) UpdateBook(c *fiber.Ctx) error {
	id, ok := parseBookID(c)
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}

	book, err := h.catalogService.UpdateBook(c.Context(), id, &services.BookInput{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
		Type:   req.Type,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to update book")
		}
	}

	return response.Success(c, "Book updated", fiber.Map{
		"book": book,
	})
}

// DeleteBook removes a book
// @Summary Delete a book
// @Description Remove a book from the catalog; rejected while on loan
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bookId path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /library/{bookId} [delete]
func (h *CatalogHandler) DeleteBook(c *fiber.Ctx) error {
	id, ok := parseBookID(c)
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.catalogService.DeleteBook(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrBookOnLoan):
			return response.Conflict(c, "Book is currently on loan")
		default:
			return response.InternalServerError(c, "Failed to delete book")
		}
	}

	return response.Success(c, "Book deleted", nil)
}
