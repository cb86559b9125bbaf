// Package router wires the HTTP surface: which paths exist, which are
// public, and which middleware guards them.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/tradeloop/marketplace-api/internal/auth"
	"github.com/tradeloop/marketplace-api/internal/config"
	"github.com/tradeloop/marketplace-api/internal/handler"
	"github.com/tradeloop/marketplace-api/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	Auth     *handler.AuthHandler
	Profiles *handler.ProfileHandler
	Products *handler.ProductHandler

	Codec *auth.Codec

	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// Register sets up the full route table.
//
// Reads on /profile and /product are public and response-cached. Mutations
// and /auth/me require a bearer token; ownership checks happen inside the
// handlers. Signup and login sit behind the rate limiter so credential
// stuffing cannot run unthrottled.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	limited := middleware.RateLimit(d.RateLimit, d.Redis)
	cached := middleware.ResponseCache(d.Cache, d.Redis)
	authed := middleware.JWTAuth(d.Codec)

	ag := e.Group("/auth")
	ag.POST("/signup", d.Auth.Signup, limited)
	ag.POST("/login", d.Auth.Login, limited)
	ag.GET("/me", d.Auth.Me, authed)
	ag.DELETE("/user/:userId", d.Auth.DeleteUser, authed)

	e.GET("/profile/all", d.Profiles.GetAll, cached)
	e.GET("/profile/:profileId", d.Profiles.GetByID, cached)
	e.POST("/profile", d.Profiles.Create, authed)
	e.PUT("/profile/:profileId", d.Profiles.Update, authed)
	e.DELETE("/profile/:profileId", d.Profiles.Delete, authed)

	e.GET("/product/all", d.Products.GetAll, cached)
	e.GET("/product/:productId", d.Products.GetByID, cached)
	e.POST("/product", d.Products.Create, authed)
	e.PUT("/product/:productId", d.Products.Update, authed)
	e.DELETE("/product/:productId", d.Products.Delete, authed)
}
