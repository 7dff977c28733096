package routes

import (
	authapi "review-platform/internal/api/auth"
	catalogapi "review-platform/internal/api/catalog"
	reviewsapi "review-platform/internal/api/reviews"
	usersapi "review-platform/internal/api/users"
	"review-platform/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")

	// Signup and token exchange are the only endpoints that accept
	// free-form input from anonymous callers.
	auth := v1.Group("/auth")
	auth.Use(middleware.SanitizeInput())
	auth.POST("/signup", authapi.Signup)
	auth.POST("/token", authapi.Token)

	// Public reads; a bearer token is honoured when present so admins and
	// authors are recognised on write checks.
	open := v1.Group("/")
	open.Use(middleware.MaybeAuthenticate())

	open.GET("/categories", catalogapi.ListCategories)
	open.POST("/categories", catalogapi.CreateCategory)
	open.DELETE("/categories/:slug", catalogapi.DeleteCategory)

	open.GET("/genres", catalogapi.ListGenres)
	open.POST("/genres", catalogapi.CreateGenre)
	open.DELETE("/genres/:slug", catalogapi.DeleteGenre)

	open.GET("/titles", catalogapi.ListTitles)
	open.POST("/titles", catalogapi.CreateTitle)
	open.GET("/titles/:title_id", catalogapi.GetTitle)
	open.PATCH("/titles/:title_id", catalogapi.PatchTitle)
	open.DELETE("/titles/:title_id", catalogapi.DeleteTitle)

	open.GET("/titles/:title_id/reviews", reviewsapi.ListReviews)
	open.GET("/titles/:title_id/reviews/:review_id", reviewsapi.GetReview)
	open.PATCH("/titles/:title_id/reviews/:review_id", reviewsapi.PatchReview)
	open.DELETE("/titles/:title_id/reviews/:review_id", reviewsapi.DeleteReview)

	open.GET("/titles/:title_id/reviews/:review_id/comments", reviewsapi.ListComments)
	open.GET("/titles/:title_id/reviews/:review_id/comments/:id", reviewsapi.GetComment)
	open.PATCH("/titles/:title_id/reviews/:review_id/comments/:id", reviewsapi.PatchComment)
	open.DELETE("/titles/:title_id/reviews/:review_id/comments/:id", reviewsapi.DeleteComment)

	// Creating a review or comment always requires a token.
	authed := v1.Group("/")
	authed.Use(middleware.Authenticate())

	authed.POST("/titles/:title_id/reviews", reviewsapi.CreateReview)
	authed.POST("/titles/:title_id/reviews/:review_id/comments", reviewsapi.CreateComment)

	authed.GET("/users", usersapi.ListUsers)
	authed.POST("/users", usersapi.CreateUser)
	authed.GET("/users/me", usersapi.GetMe)
	authed.PATCH("/users/me", usersapi.PatchMe)
	authed.GET("/users/:username", usersapi.GetUser)
	authed.PATCH("/users/:username", usersapi.PatchUser)
	authed.DELETE("/users/:username", usersapi.DeleteUser)
}
