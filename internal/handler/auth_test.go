package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradeloop/marketplace-api/internal/auth"
	"github.com/tradeloop/marketplace-api/internal/middleware"
	"github.com/tradeloop/marketplace-api/internal/model"
	"github.com/tradeloop/marketplace-api/internal/queue"
)

// fakeUserStore is an in-memory auth.UserStore keyed by email and id.
type fakeUserStore struct {
	byEmail map[string]*model.User
	byID    map[string]*model.User

	deleteFails bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: map[string]*model.User{},
		byID:    map[string]*model.User{},
	}
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return s.byEmail[email], nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	return s.byID[id], nil
}

func (s *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return s.byEmail[email] != nil, nil
}

func (s *fakeUserStore) ExistsByID(_ context.Context, id string) (bool, error) {
	return s.byID[id] != nil, nil
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	if s.byEmail[u.Email] != nil {
		return auth.ErrEmailExists
	}
	cp := *u
	s.byEmail[u.Email] = &cp
	s.byID[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) DeleteByID(_ context.Context, id string) (bool, error) {
	if s.deleteFails {
		return false, nil
	}
	u := s.byID[id]
	if u == nil {
		return false, nil
	}
	delete(s.byID, id)
	delete(s.byEmail, u.Email)
	return true, nil
}

func (s *fakeUserStore) add(t *testing.T, id, email, password, name string) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.Create(context.Background(), u))
	return u
}

func silencePublishers(t *testing.T) {
	t.Helper()
	prevAccount, prevProduct := publishAccountCreated, publishProductCreated
	publishAccountCreated = func(context.Context, queue.AccountCreatedEvent) error { return nil }
	publishProductCreated = func(context.Context, queue.ProductCreatedEvent) error { return nil }
	t.Cleanup(func() {
		publishAccountCreated = prevAccount
		publishProductCreated = prevProduct
	})
}

func newAuthHandler(store *fakeUserStore) *AuthHandler {
	svc := auth.NewService(store, bcrypt.MinCost)
	codec := auth.NewCodec("test-secret", time.Hour)
	return NewAuthHandler(svc, codec)
}

func doJSON(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSignup(t *testing.T) {
	silencePublishers(t)
	e := echo.New()
	store := newFakeUserStore()
	h := newAuthHandler(store)

	c, rec := doJSON(e, http.MethodPost, "/auth/signup",
		`{"email":"ana@acme.test","password":"s3cret","name":"Ana"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ana@acme.test", user["email"])
	assert.Equal(t, "Ana", user["name"])
	assert.NotEmpty(t, user["id"])
	assert.NotContains(t, rec.Body.String(), "password")

	stored := store.byEmail["ana@acme.test"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
}

func TestSignupDuplicateEmail(t *testing.T) {
	silencePublishers(t)
	e := echo.New()
	store := newFakeUserStore()
	store.add(t, "u1", "ana@acme.test", "s3cret", "Ana")
	h := newAuthHandler(store)

	c, rec := doJSON(e, http.MethodPost, "/auth/signup",
		`{"email":"ana@acme.test","password":"other","name":"Another"}`)
	require.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	silencePublishers(t)
	e := echo.New()
	h := newAuthHandler(newFakeUserStore())

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"s3cret","name":"Ana"}`},
		{"bad email", `{"email":"not-an-email","password":"s3cret","name":"Ana"}`},
		{"missing password", `{"email":"ana@acme.test","name":"Ana"}`},
		{"short password", `{"email":"ana@acme.test","password":"s3crt","name":"Ana"}`},
		{"missing name", `{"email":"ana@acme.test","password":"s3cret"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := doJSON(e, http.MethodPost, "/auth/signup", tc.body)
			require.NoError(t, h.Signup(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	e := echo.New()
	store := newFakeUserStore()
	store.add(t, "u1", "ana@acme.test", "s3cret", "Ana")
	h := newAuthHandler(store)

	c, rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"ana@acme.test","password":"s3cret"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	claims, err := h.Codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ana@acme.test", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
}

func TestLoginUnknownEmail(t *testing.T) {
	e := echo.New()
	h := newAuthHandler(newFakeUserStore())

	c, rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"ghost@acme.test","password":"s3cret"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	e := echo.New()
	store := newFakeUserStore()
	store.add(t, "u1", "ana@acme.test", "s3cret", "Ana")
	h := newAuthHandler(store)

	c, rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"ana@acme.test","password":"wrong-pass"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginValidation(t *testing.T) {
	e := echo.New()
	h := newAuthHandler(newFakeUserStore())

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"s3cret"}`},
		{"bad email", `{"email":"not-an-email","password":"s3cret"}`},
		{"missing password", `{"email":"ana@acme.test"}`},
		{"short password", `{"email":"ana@acme.test","password":"s3crt"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := doJSON(e, http.MethodPost, "/auth/login", tc.body)
			require.NoError(t, h.Login(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSignupThenLogin(t *testing.T) {
	silencePublishers(t)
	e := echo.New()
	store := newFakeUserStore()
	h := newAuthHandler(store)

	c, rec := doJSON(e, http.MethodPost, "/auth/signup",
		`{"email":"bo@acme.test","password":"s3cret","name":"Bo"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"bo@acme.test","password":"s3cret"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	claims, err := h.Codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "bo@acme.test", claims.Email)
	assert.Equal(t, store.byEmail["bo@acme.test"].ID, claims.UserID)
}

func TestMe(t *testing.T) {
	e := echo.New()
	h := newAuthHandler(newFakeUserStore())

	c, rec := doJSON(e, http.MethodGet, "/auth/me", "")
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u1", Email: "ana@acme.test", Name: "Ana"})
	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u1", user["id"])
}

func TestDeleteUserSelf(t *testing.T) {
	e := echo.New()
	store := newFakeUserStore()
	store.add(t, "u1", "ana@acme.test", "s3cret", "Ana")
	h := newAuthHandler(store)

	c, rec := doJSON(e, http.MethodDelete, "/auth/user/u1", "")
	c.SetParamNames("userId")
	c.SetParamValues("u1")
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u1"})

	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, store.byID["u1"])
}

func TestDeleteUserForbidden(t *testing.T) {
	e := echo.New()
	store := newFakeUserStore()
	store.add(t, "u1", "ana@acme.test", "s3cret", "Ana")
	h := newAuthHandler(store)

	c, rec := doJSON(e, http.MethodDelete, "/auth/user/u1", "")
	c.SetParamNames("userId")
	c.SetParamValues("u1")
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u2"})

	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotNil(t, store.byID["u1"])
}

func TestDeleteUserFailed(t *testing.T) {
	e := echo.New()
	store := newFakeUserStore()
	store.add(t, "u1", "ana@acme.test", "s3cret", "Ana")
	store.deleteFails = true
	h := newAuthHandler(store)

	c, rec := doJSON(e, http.MethodDelete, "/auth/user/u1", "")
	c.SetParamNames("userId")
	c.SetParamValues("u1")
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u1"})

	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDeleteUserNotFound(t *testing.T) {
	e := echo.New()
	h := newAuthHandler(newFakeUserStore())

	c, rec := doJSON(e, http.MethodDelete, "/auth/user/u1", "")
	c.SetParamNames("userId")
	c.SetParamValues("u1")
	middleware.SetPrincipal(c, &auth.Claims{UserID: "u1"})

	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
