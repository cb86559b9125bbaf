// Package handler implements the HTTP layer. Handlers bind and validate
// request bodies, delegate to the auth service and repositories, and map the
// error taxonomy onto HTTP statuses.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/labstack/echo/v4"

	"github.com/tradeloop/marketplace-api/internal/auth"
	"github.com/tradeloop/marketplace-api/internal/middleware"
	"github.com/tradeloop/marketplace-api/internal/queue"
	"github.com/tradeloop/marketplace-api/internal/service"
)

const dbTimeout = 5 * time.Second

// Publish seams; swapped out in tests.
var (
	publishAccountCreated = service.PublishAccountCreated
	publishProductCreated = service.PublishProductCreated
)

// AuthHandler bundles dependencies for the signup/login/me/delete endpoints.
type AuthHandler struct {
	Auth  *auth.Service
	Codec *auth.Codec
}

func NewAuthHandler(svc *auth.Service, codec *auth.Codec) *AuthHandler {
	return &AuthHandler{Auth: svc, Codec: codec}
}

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r signupReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0)),
		validation.Field(&r.Name, validation.Required),
	)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0)),
	)
}

type userPart struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Signup creates an account and returns its public fields. The password and
// its hash never appear in the response.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return validationFailed(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Auth.Signup(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		c.Logger().Errorf("signup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	// best effort; a broker outage must not fail the signup
	_ = publishAccountCreated(ctx, queue.AccountCreatedEvent{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user":    userPart{ID: u.ID, Name: u.Name, Email: u.Email},
	})
}

// Login verifies credentials and mints a session token. An unknown email and
// a wrong password are reported apart (404 vs 401), matching the public API
// contract.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return validationFailed(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		default:
			c.Logger().Errorf("login failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}

	token, err := h.Codec.Issue(u.ID, u.Email, u.Name)
	if err != nil {
		c.Logger().Errorf("issue token failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   token,
		"user":    userPart{ID: u.ID, Name: u.Name, Email: u.Email},
	})
}

// Me echoes the authenticated principal back to the client.
func (h *AuthHandler) Me(c echo.Context) error {
	p := middleware.Principal(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": userPart{ID: p.UserID, Name: p.Name, Email: p.Email},
	})
}

// DeleteUser removes an account. An unknown account is 404; callers may only
// delete themselves.
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	userID := c.Param("userId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Auth.Lookup(ctx, userID)
	if err != nil {
		c.Logger().Errorf("lookup user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
	}

	if err := auth.RequireOwner(middleware.Principal(c), userID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to delete this user"})
	}

	deleted, err := h.Auth.Delete(ctx, userID)
	if err != nil {
		c.Logger().Errorf("delete user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !deleted {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

// validationFailed renders ozzo field errors as a per-field message map.
func validationFailed(c echo.Context, err error) error {
	var fields validation.Errors
	if errors.As(err, &fields) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}
