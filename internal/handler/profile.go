package handler

import (
	"context"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tradeloop/marketplace-api/internal/auth"
	"github.com/tradeloop/marketplace-api/internal/middleware"
	"github.com/tradeloop/marketplace-api/internal/model"
	"github.com/tradeloop/marketplace-api/internal/repository"
)

// ProfileStore is the persistence surface the profile handlers need.
// *repository.ProfileRepo satisfies it.
type ProfileStore interface {
	GetByProfileID(ctx context.Context, profileID string) (*model.Profile, error)
	GetAll(ctx context.Context) ([]model.Profile, error)
	Create(ctx context.Context, p *model.Profile) error
	Update(ctx context.Context, p *model.Profile) error
	DeleteByProfileID(ctx context.Context, profileID string) (bool, error)
}

// ProfileHandler serves the business profile endpoints. Reads are public;
// every mutation requires the caller to own the profile.
type ProfileHandler struct {
	Store ProfileStore
}

func NewProfileHandler(store ProfileStore) *ProfileHandler {
	return &ProfileHandler{Store: store}
}

func validateProfile(p *model.Profile) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.ProfileID, validation.Required),
		validation.Field(&p.BusinessName, validation.Required),
		validation.Field(&p.Logo, validation.Required),
		validation.Field(&p.BusinessOverview, validation.Required),
		validation.Field(&p.BusinessType, validation.Required),
		validation.Field(&p.Origin, validation.Required),
		validation.Field(&p.Established, validation.Required),
	)
}

// GetAll lists every profile.
func (h *ProfileHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	profiles, err := h.Store.GetAll(ctx)
	if err != nil {
		c.Logger().Errorf("list profiles failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	return c.JSON(http.StatusOK, profiles)
}

// GetByID fetches one profile by its public identifier.
func (h *ProfileHandler) GetByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Store.GetByProfileID(ctx, c.Param("profileId"))
	if err != nil {
		c.Logger().Errorf("get profile failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
	}
	return c.JSON(http.StatusOK, p)
}

// Create inserts a new profile owned by the authenticated caller. The owner
// is taken from the token, never from the body.
func (h *ProfileHandler) Create(c echo.Context) error {
	principal := middleware.Principal(c)
	if principal == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var p model.Profile
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validateProfile(&p); err != nil {
		return validationFailed(c, err)
	}

	p.ID = uuid.NewString()
	p.UserID = principal.UserID

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Store.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "profile already exists"})
		}
		c.Logger().Errorf("create profile failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create profile failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// Update rewrites a profile. Only its owner may do so; identifiers and the
// owning user never change.
func (h *ProfileHandler) Update(c echo.Context) error {
	profileID := c.Param("profileId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	existing, err := h.Store.GetByProfileID(ctx, profileID)
	if err != nil {
		c.Logger().Errorf("get profile failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
	}
	if err := auth.RequireOwner(middleware.Principal(c), existing.UserID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to modify this profile"})
	}

	var p model.Profile
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p.ID = existing.ID
	p.ProfileID = existing.ProfileID
	p.UserID = existing.UserID

	// Update rewrites the whole row, so the body must be as complete as on
	// create.
	if err := validateProfile(&p); err != nil {
		return validationFailed(c, err)
	}

	if err := h.Store.Update(ctx, &p); err != nil {
		c.Logger().Errorf("update profile failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a profile. Only its owner may do so.
func (h *ProfileHandler) Delete(c echo.Context) error {
	profileID := c.Param("profileId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	existing, err := h.Store.GetByProfileID(ctx, profileID)
	if err != nil {
		c.Logger().Errorf("get profile failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
	}
	if err := auth.RequireOwner(middleware.Principal(c), existing.UserID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to delete this profile"})
	}

	if _, err := h.Store.DeleteByProfileID(ctx, profileID); err != nil {
		c.Logger().Errorf("delete profile failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete profile failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
