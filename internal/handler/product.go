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
	"github.com/tradeloop/marketplace-api/internal/queue"
	"github.com/tradeloop/marketplace-api/internal/repository"
)

// ProductStore is the persistence surface the product handlers need.
// *repository.ProductRepo satisfies it.
type ProductStore interface {
	GetByProductID(ctx context.Context, productID string) (*model.Product, error)
	GetAll(ctx context.Context) ([]model.Product, error)
	GetBySellerID(ctx context.Context, sellerID string) ([]model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	DeleteByProductID(ctx context.Context, productID string) (bool, error)
}

// ProductHandler serves the listing endpoints. Reads are public; mutations
// require the caller to be the listing's seller.
type ProductHandler struct {
	Store ProductStore
}

func NewProductHandler(store ProductStore) *ProductHandler {
	return &ProductHandler{Store: store}
}

func validateProduct(p *model.Product) error {
	// SellerID is not validated here; it is overwritten from the token.
	return validation.ValidateStruct(p,
		validation.Field(&p.ProductID, validation.Required),
		validation.Field(&p.ProductName, validation.Required),
		validation.Field(&p.Images, validation.Required),
		validation.Field(&p.Price, validation.Required),
		validation.Field(&p.Details, validation.Required),
		validation.Field(&p.Shipping, validation.Required),
	)
}

// GetAll lists every product. An optional sellerId query parameter narrows
// the result to one seller's listings.
func (h *ProductHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var (
		products []model.Product
		err      error
	)
	if sellerID := c.QueryParam("sellerId"); sellerID != "" {
		products, err = h.Store.GetBySellerID(ctx, sellerID)
	} else {
		products, err = h.Store.GetAll(ctx)
	}
	if err != nil {
		c.Logger().Errorf("list products failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if products == nil {
		products = []model.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

// GetByID fetches one product by its public identifier.
func (h *ProductHandler) GetByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Store.GetByProductID(ctx, c.Param("productId"))
	if err != nil {
		c.Logger().Errorf("get product failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	return c.JSON(http.StatusOK, p)
}

// Create inserts a new listing owned by the authenticated caller.
func (h *ProductHandler) Create(c echo.Context) error {
	principal := middleware.Principal(c)
	if principal == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var p model.Product
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validateProduct(&p); err != nil {
		return validationFailed(c, err)
	}

	p.ID = uuid.NewString()
	p.SellerID = principal.UserID

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Store.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "product already exists"})
		}
		c.Logger().Errorf("create product failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}

	event := queue.ProductCreatedEvent{
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		SellerID:    p.SellerID,
	}
	if p.Details != nil {
		event.Origin = p.Details.Origin
	}
	_ = publishProductCreated(ctx, event)

	return c.JSON(http.StatusCreated, p)
}

// Update rewrites a listing. Only its seller may do so; identifiers and the
// seller never change.
func (h *ProductHandler) Update(c echo.Context) error {
	productID := c.Param("productId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	existing, err := h.Store.GetByProductID(ctx, productID)
	if err != nil {
		c.Logger().Errorf("get product failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	if err := auth.RequireOwner(middleware.Principal(c), existing.SellerID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to modify this product"})
	}

	var p model.Product
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p.ID = existing.ID
	p.ProductID = existing.ProductID
	p.SellerID = existing.SellerID

	// Update rewrites the whole row, so the body must be as complete as on
	// create.
	if err := validateProduct(&p); err != nil {
		return validationFailed(c, err)
	}

	if err := h.Store.Update(ctx, &p); err != nil {
		c.Logger().Errorf("update product failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update product failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a listing. Only its seller may do so.
func (h *ProductHandler) Delete(c echo.Context) error {
	productID := c.Param("productId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	existing, err := h.Store.GetByProductID(ctx, productID)
	if err != nil {
		c.Logger().Errorf("get product failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	if err := auth.RequireOwner(middleware.Principal(c), existing.SellerID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to delete this product"})
	}

	if _, err := h.Store.DeleteByProductID(ctx, productID); err != nil {
		c.Logger().Errorf("delete product failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete product failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
