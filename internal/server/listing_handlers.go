package server

import (
	"context"

	"marketplace/internal/service"
	"marketplace/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ListListings handles GET /listings
// @Summary Search listings
// @Description Page through listings, optionally filtered by a search term
// @Tags listings
// @Produce json
// @Param limit query int false "Page size (default 20, max 50)"
// @Param offset query int false "Rows to skip"
// @Param q query string false "Matches title, description, city or zip"
// @Param sort query string false "id, title, price, city or createdAt"
// @Param order query string false "asc or desc"
// @Success 200 {object} service.ListingPage
// @Failure 500 {object} models.ErrorResponse
// @Router /listings [get]
func (s *Server) ListListings(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	page, err := s.listingService.Search(ctx, service.ListingQueryParams{
		Limit:  c.Query("limit"),
		Offset: c.Query("offset"),
		Q:      c.Query("q"),
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(page)
}

// GetListing handles GET /listings/:id
// @Summary Get listing
// @Description Get a listing and its owner
// @Tags listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} models.Listing
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id} [get]
func (s *Server) GetListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	listing, err := s.listingService.GetListing(ctx, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(listing)
}

// CreateListing handles POST /listings
// @Summary Create listing
// @Tags listings
// @Accept json
// @Produce json
// @Param listing body validation.ListingInput true "Listing"
// @Success 201 {object} models.Listing
// @Failure 400 {object} models.ErrorResponse
// @Router /listings [post]
func (s *Server) CreateListing(c *fiber.Ctx) error {
	var in validation.ListingInput
	if err := s.parseBody(c, &in); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	listing, err := s.listingService.CreateListing(ctx, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

// UpdateListing handles PUT /listings/:id
// @Summary Replace listing
// @Tags listings
// @Accept json
// @Produce json
// @Param id path int true "Listing ID"
// @Param listing body validation.ListingInput true "Listing"
// @Success 200 {object} models.Listing
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id} [put]
func (s *Server) UpdateListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in validation.ListingInput
	if err := s.parseBody(c, &in); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	listing, err := s.listingService.UpdateListing(ctx, id, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(listing)
}

// DeleteListing handles DELETE /listings/:id
// @Summary Delete listing
// @Tags listings
// @Param id path int true "Listing ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id} [delete]
func (s *Server) DeleteListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	if _, err := s.listingService.DeleteListing(ctx, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
