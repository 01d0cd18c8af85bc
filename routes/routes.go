package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/memoria-app/be-memoria-platform/config"
	"github.com/memoria-app/be-memoria-platform/domain/auth"
	"github.com/memoria-app/be-memoria-platform/domain/health"
	"github.com/memoria-app/be-memoria-platform/domain/password"
	"github.com/memoria-app/be-memoria-platform/domain/post"
	"github.com/memoria-app/be-memoria-platform/domain/presence"
	"github.com/memoria-app/be-memoria-platform/domain/user"
	"github.com/memoria-app/be-memoria-platform/middleware"
)

// RegisterRoutes wires every endpoint onto the Echo instance.
func RegisterRoutes(e *echo.Echo) {
	resetLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		MaxRequests:   10,
		Window:        15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		DB:            config.DB.DB,
	})

	// Health probes
	e.GET("/health", health.HealthHandler)
	e.GET("/health/live", health.LivenessHandler)
	e.GET("/health/ready", health.ReadinessHandler)
	e.GET("/health/stats", health.StatsHandler)

	// Auth
	e.POST("/auth/signup", auth.SignupHandler)
	e.POST("/auth/login", auth.LoginHandler)
	e.POST("/auth/refresh", auth.RefreshTokenHandler)
	e.POST("/auth/logout", auth.LogoutHandler, middleware.JWTMiddleware)

	// Password reset
	e.POST("/reset-password", password.ForgotPasswordHandler, resetLimiter)
	e.PUT("/reset-password", password.ResetPasswordHandler)
	e.GET("/reset-password", password.LookupUsernameHandler)

	// Profiles
	e.GET("/search/profiles", user.SearchProfilesHandler, middleware.OptionalJWTMiddleware)
	e.GET("/users/username/:username", user.GetUserByUsernameHandler, middleware.JWTMiddleware)
	e.PUT("/users/me", user.UpdateMeHandler, middleware.JWTMiddleware)
	e.POST("/users/me/avatar", user.UploadAvatarHandler, middleware.JWTMiddleware)
	e.POST("/users/username/:username/follow", user.FollowToggleHandler, middleware.JWTMiddleware)

	// Posts
	e.GET("/posts/feed", post.FeedHandler, middleware.OptionalJWTMiddleware)
	e.GET("/posts/user/:username", post.UserPostsHandler, middleware.OptionalJWTMiddleware)
	e.GET("/posts/:id", post.GetPostHandler, middleware.OptionalJWTMiddleware)
	e.POST("/posts", post.CreatePostHandler, middleware.JWTMiddleware)
	e.DELETE("/posts/:id", post.DeletePostHandler, middleware.JWTMiddleware)

	// Likes, bookmarks, comments
	e.GET("/posts/:id/likes", post.LikeInfoHandler, middleware.OptionalJWTMiddleware)
	e.POST("/posts/:id/likes", post.LikeHandler, middleware.JWTMiddleware)
	e.DELETE("/posts/:id/likes", post.UnlikeHandler, middleware.JWTMiddleware)
	e.GET("/posts/:id/bookmark", post.BookmarkInfoHandler, middleware.JWTMiddleware)
	e.POST("/posts/:id/bookmark", post.BookmarkHandler, middleware.JWTMiddleware)
	e.DELETE("/posts/:id/bookmark", post.UnbookmarkHandler, middleware.JWTMiddleware)
	e.GET("/bookmarks", post.BookmarksHandler, middleware.JWTMiddleware)
	e.GET("/posts/:id/comments", post.CommentsHandler, middleware.OptionalJWTMiddleware)
	e.POST("/posts/:id/comments", post.CreateCommentHandler, middleware.JWTMiddleware)
	e.DELETE("/comments/:id", post.DeleteCommentHandler, middleware.JWTMiddleware)

	// Uploads
	e.POST("/uploads", post.UploadMediaHandler, middleware.JWTMiddleware)

	// Presence
	e.POST("/heartbeat", presence.HeartbeatHandler, middleware.JWTMiddleware)
}
