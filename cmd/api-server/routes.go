package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"travelguide/internal/microservices/http-api/handler"
	"travelguide/internal/microservices/http-api/middleware"
)

type handlers struct {
	auth          *handler.AuthHandler
	users         *handler.UserHandler
	locations     *handler.LocationHandler
	reviews       *handler.ReviewHandler
	comments      *handler.CommentHandler
	favorites     *handler.FavoriteHandler
	notifications *handler.NotificationHandler
	health        *handler.HealthHandler
}

func newRouter(h handlers, validator middleware.TokenValidator, limiter *middleware.RateLimiter, corsOrigins []string, logger logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(corsOrigins))

	r.GET("/health", h.health.Health)

	api := r.Group("/api")

	// Public routes, limited per client IP
	authGroup := api.Group("/auth", limiter.Middleware())
	h.auth.RegisterRoutes(authGroup)

	// Everything else needs a token, limited per user
	protected := api.Group("", middleware.AuthMiddleware(validator), limiter.Middleware())
	{
		h.users.RegisterRoutes(protected.Group("/users"))

		locations := protected.Group("/locations")
		reviews := protected.Group("/reviews")
		h.locations.RegisterRoutes(locations)
		h.reviews.RegisterRoutes(locations, reviews)
		h.comments.RegisterRoutes(reviews, protected.Group("/comments"))

		h.favorites.RegisterRoutes(protected.Group("/favorites"))
		h.notifications.RegisterRoutes(protected.Group("/notifications"))
	}

	return r
}
