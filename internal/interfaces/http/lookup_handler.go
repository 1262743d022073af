package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/xm-shop/crm-api/internal/application/dto"
	"github.com/xm-shop/crm-api/internal/application/lookup"
	"github.com/xm-shop/crm-api/internal/domain"
)

// LookupHandler serves the vehicle and parts lookups (protected).
type LookupHandler struct {
	uc *lookup.UseCase
}

func NewLookupHandler(uc *lookup.UseCase) *LookupHandler {
	return &LookupHandler{uc: uc}
}

func (h *LookupHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrBackendUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// DecodeVIN decodes a VIN through NHTSA VPIC.
// GET /api/lookup/vin/:vin
func (h *LookupHandler) DecodeVIN(c *fiber.Ctx) error {
	out, err := h.uc.DecodeVIN(c.Context(), c.Params("vin"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ListTrims lists CarQuery trims for a year and make.
// GET /api/lookup/vehicle/:year/:make
func (h *LookupHandler) ListTrims(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "year must be a number"})
	}
	out, err := h.uc.ListTrims(c.Context(), year, c.Params("make"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// MatchTrims lists a make's trims matching a model name.
// GET /api/lookup/parts/:make/:model
func (h *LookupHandler) MatchTrims(c *fiber.Ctx) error {
	out, err := h.uc.MatchTrims(c.Context(), c.Params("make"), c.Params("model"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// SearchParts runs the live retailer search pipeline.
// POST /api/lookup/parts
func (h *LookupHandler) SearchParts(c *fiber.Ctx) error {
	var in dto.PartsSearchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.SearchParts(c.Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
