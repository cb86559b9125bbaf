package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeloop/marketplace-api/internal/auth"
	"github.com/tradeloop/marketplace-api/internal/middleware"
	"github.com/tradeloop/marketplace-api/internal/model"
	"github.com/tradeloop/marketplace-api/internal/repository"
)

type fakeProductStore struct {
	products map[string]*model.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[string]*model.Product{}}
}

func (s *fakeProductStore) GetByProductID(_ context.Context, id string) (*model.Product, error) {
	return s.products[id], nil
}

func (s *fakeProductStore) GetAll(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeProductStore) GetBySellerID(_ context.Context, sellerID string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range s.products {
		if p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeProductStore) Create(_ context.Context, p *model.Product) error {
	if s.products[p.ProductID] != nil {
		return repository.ErrDuplicateEntry
	}
	cp := *p
	s.products[p.ProductID] = &cp
	return nil
}

func (s *fakeProductStore) Update(_ context.Context, p *model.Product) error {
	cp := *p
	s.products[p.ProductID] = &cp
	return nil
}

func (s *fakeProductStore) DeleteByProductID(_ context.Context, id string) (bool, error) {
	if s.products[id] == nil {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

const productBody = `{
	"productId":"p1","productName":"Dried Figs","sellerId":"forged",
	"images":["figs.jpg"],
	"price":{"current":4.5,"range":{"min":4,"max":5}},
	"details":{"name":"Dried Figs","product":"Figs","origin":"Turkey"},
	"shipping":{"hsCode":"0804.20","incoterms":"FOB"}
}`

func seedProduct(s *fakeProductStore, productID, sellerID string) {
	s.products[productID] = &model.Product{
		ID:          "row-" + productID,
		ProductID:   productID,
		ProductName: "Dried Figs",
		SellerID:    sellerID,
	}
}

func TestProductGetByID(t *testing.T) {
	e := echo.New()
	store := newFakeProductStore()
	seedProduct(store, "p1", "u1")
	h := NewProductHandler(store)

	c, rec := doJSON(e, http.MethodGet, "/product/p1", "")
	c.SetParamNames("productId")
	c.SetParamValues("p1")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dried Figs")
}

func TestProductGetByIDNotFound(t *testing.T) {
	e := echo.New()
	h := NewProductHandler(newFakeProductStore())

	c, rec := doJSON(e, http.MethodGet, "/product/missing", "")
	c.SetParamNames("productId")
	c.SetParamValues("missing")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductGetAllFiltersBySeller(t *testing.T) {
	e := echo.New()
	store := newFakeProductStore()
	seedProduct(store, "p1", "u1")
	seedProduct(store, "p2", "u2")
	h := NewProductHandler(store)

	c, rec := doJSON(e, http.MethodGet, "/product?sellerId=u1", "")
	require.NoError(t, h.GetAll(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ProductID)
}

func TestProductCreateAssignsSellerFromToken(t *testing.T) {
	silencePublishers(t)
	e := echo.New()
	store := newFakeProductStore()
	h := NewProductHandler(store)

	c, rec := doJSON(e, http.MethodPost, "/product", productBody)
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u1"})

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	created := store.products["p1"]
	require.NotNil(t, created)
	assert.Equal(t, "u1", created.SellerID)
	assert.NotEmpty(t, created.ID)
}

func TestProductCreateValidation(t *testing.T) {
	silencePublishers(t)
	e := echo.New()
	h := NewProductHandler(newFakeProductStore())

	c, rec := doJSON(e, http.MethodPost, "/product",
		`{"productId":"p1","productName":"Dried Figs"}`)
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u1"})

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductCreateDuplicate(t *testing.T) {
	silencePublishers(t)
	e := echo.New()
	store := newFakeProductStore()
	seedProduct(store, "p1", "u1")
	h := NewProductHandler(store)

	c, rec := doJSON(e, http.MethodPost, "/product", productBody)
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u1"})

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProductUpdateKeepsSeller(t *testing.T) {
	e := echo.New()
	store := newFakeProductStore()
	seedProduct(store, "p1", "u1")
	h := NewProductHandler(store)

	c, rec := doJSON(e, http.MethodPut, "/product/p1", `{
		"productName":"Sun-Dried Figs","sellerId":"forged",
		"images":["figs.jpg"],
		"price":{"current":4.5,"range":{"min":4,"max":5}},
		"details":{"name":"Sun-Dried Figs","product":"Figs","origin":"Turkey"},
		"shipping":{"hsCode":"0804.20","incoterms":"FOB"}
	}`)
	c.SetParamNames("productId")
	c.SetParamValues("p1")
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u1"})

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	updated := store.products["p1"]
	assert.Equal(t, "Sun-Dried Figs", updated.ProductName)
	assert.Equal(t, "u1", updated.SellerID)
}

func TestProductUpdateValidation(t *testing.T) {
	e := echo.New()
	store := newFakeProductStore()
	seedProduct(store, "p1", "u1")
	h := NewProductHandler(store)

	// A full rewrite with an empty body must not blank the stored row.
	c, rec := doJSON(e, http.MethodPut, "/product/p1", `{}`)
	c.SetParamNames("productId")
	c.SetParamValues("p1")
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u1"})

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Dried Figs", store.products["p1"].ProductName)
}

func TestProductUpdateForbiddenForNonOwner(t *testing.T) {
	e := echo.New()
	store := newFakeProductStore()
	seedProduct(store, "p1", "u1")
	h := NewProductHandler(store)

	c, rec := doJSON(e, http.MethodPut, "/product/p1", `{"productName":"Hijacked"}`)
	c.SetParamNames("productId")
	c.SetParamValues("p1")
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u2"})

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Dried Figs", store.products["p1"].ProductName)
}

func TestProductDelete(t *testing.T) {
	e := echo.New()
	store := newFakeProductStore()
	seedProduct(store, "p1", "u1")
	h := NewProductHandler(store)

	c, rec := doJSON(e, http.MethodDelete, "/product/p1", "")
	c.SetParamNames("productId")
	c.SetParamValues("p1")
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u1"})

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, store.products["p1"])
}

func TestProductDeleteNotFound(t *testing.T) {
	e := echo.New()
	h := NewProductHandler(newFakeProductStore())

	c, rec := doJSON(e, http.MethodDelete, "/product/missing", "")
	c.SetParamNames("productId")
	c.SetParamValues("missing")
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u1"})

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
