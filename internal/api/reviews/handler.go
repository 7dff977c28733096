package reviews

import (
	"errors"
	"fmt"
	"net/http"

	"review-platform/database"
	"review-platform/internal/api/pagination"
	"review-platform/internal/app/http/middleware"
	"review-platform/internal/domain/access"
	"review-platform/internal/domain/catalog"
	"review-platform/internal/domain/reviews"
	"review-platform/internal/domain/users"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mustActor is used on create endpoints, which sit behind the required auth
// middleware.
func mustActor(c *gin.Context) (*users.User, bool) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return actor, true
}

// requireObjectAccess applies the owner/moderator/admin predicate to a write
// against an existing review or comment.
func requireObjectAccess(c *gin.Context, authorID uint) bool {
	actor := middleware.CurrentUser(c)
	if access.OwnerModeratorAdminOrReadOnly(c.Request.Method, actor, authorID) {
		return true
	}
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	} else {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to modify this object"})
	}
	return false
}

func parentTitle(c *gin.Context) (*catalog.Title, bool) {
	var title catalog.Title
	err := database.DB.First(&title, "id = ?", c.Param("title_id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Title not found"})
			return nil, false
		}
		zap.L().Error("failed to load title", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load title"})
		return nil, false
	}
	return &title, true
}

// findReview resolves :review_id within the parent title's reviews;
// a review that exists under another title is a 404 here.
func findReview(c *gin.Context, title *catalog.Title) (*reviews.Review, bool) {
	var review reviews.Review
	err := database.DB.Preload("Author").
		Where("id = ? AND title_id = ?", c.Param("review_id"), title.ID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return nil, false
		}
		zap.L().Error("failed to load review", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review"})
		return nil, false
	}
	return &review, true
}

// GET /v1/titles/:title_id/reviews
func ListReviews(c *gin.Context) {
	title, ok := parentTitle(c)
	if !ok {
		return
	}

	query := database.DB.Preload("Author").
		Where("title_id = ?", title.ID).
		Order("pub_date DESC")
	query = pagination.Apply(c, query)

	var list []reviews.Review
	if err := query.Find(&list).Error; err != nil {
		zap.L().Error("failed to list reviews", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reviews"})
		return
	}

	out := make([]ReviewDTO, 0, len(list))
	for _, r := range list {
		out = append(out, toReviewDTO(r))
	}
	c.JSON(http.StatusOK, out)
}

// GET /v1/titles/:title_id/reviews/:review_id
func GetReview(c *gin.Context) {
	title, ok := parentTitle(c)
	if !ok {
		return
	}
	review, ok := findReview(c, title)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toReviewDTO(*review))
}

// POST /v1/titles/:title_id/reviews
func CreateReview(c *gin.Context) {
	title, ok := parentTitle(c)
	if !ok {
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var input struct {
		Text  string `json:"text" binding:"required"`
		Score *int   `json:"score" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !reviews.ValidScore(*input.Score) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("score must be between %d and %d", reviews.MinScore, reviews.MaxScore),
		})
		return
	}

	// Fast-path duplicate check; the composite unique index settles races.
	var exists int64
	database.DB.Model(&reviews.Review{}).
		Where("author_id = ? AND title_id = ?", actor.ID, title.ID).
		Count(&exists)
	if exists > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review already exists"})
		return
	}

	review := reviews.Review{
		Text:     input.Text,
		TitleID:  title.ID,
		AuthorID: actor.ID,
		Score:    *input.Score,
	}
	if err := database.DB.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Review already exists"})
			return
		}
		zap.L().Error("failed to create review", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	review.Author = *actor
	c.JSON(http.StatusCreated, toReviewDTO(review))
}

// PATCH /v1/titles/:title_id/reviews/:review_id
func PatchReview(c *gin.Context) {
	title, ok := parentTitle(c)
	if !ok {
		return
	}
	review, ok := findReview(c, title)
	if !ok {
		return
	}
	if !requireObjectAccess(c, review.AuthorID) {
		return
	}

	var patch struct {
		Text  *string `json:"text"`
		Score *int    `json:"score"`
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if patch.Score != nil {
		if !reviews.ValidScore(*patch.Score) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("score must be between %d and %d", reviews.MinScore, reviews.MaxScore),
			})
			return
		}
		review.Score = *patch.Score
	}

	if err := database.DB.Save(review).Error; err != nil {
		zap.L().Error("failed to update review", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}
	c.JSON(http.StatusOK, toReviewDTO(*review))
}

// DELETE /v1/titles/:title_id/reviews/:review_id
func DeleteReview(c *gin.Context) {
	title, ok := parentTitle(c)
	if !ok {
		return
	}
	review, ok := findReview(c, title)
	if !ok {
		return
	}
	if !requireObjectAccess(c, review.AuthorID) {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", review.ID).
			Delete(&reviews.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(review).Error
	})
	if err != nil {
		zap.L().Error("failed to delete review", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /v1/titles/:title_id/reviews/:review_id/comments
func ListComments(c *gin.Context) {
	title, ok := parentTitle(c)
	if !ok {
		return
	}
	review, ok := findReview(c, title)
	if !ok {
		return
	}

	query := database.DB.Preload("Author").
		Where("review_id = ?", review.ID).
		Order("pub_date ASC")
	query = pagination.Apply(c, query)

	var list []reviews.Comment
	if err := query.Find(&list).Error; err != nil {
		zap.L().Error("failed to list comments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comments"})
		return
	}

	out := make([]CommentDTO, 0, len(list))
	for _, cm := range list {
		out = append(out, toCommentDTO(cm))
	}
	c.JSON(http.StatusOK, out)
}

// GET /v1/titles/:title_id/reviews/:review_id/comments/:id
func GetComment(c *gin.Context) {
	comment, ok := findComment(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCommentDTO(*comment))
}

// POST /v1/titles/:title_id/reviews/:review_id/comments
func CreateComment(c *gin.Context) {
	title, ok := parentTitle(c)
	if !ok {
		return
	}
	review, ok := findReview(c, title)
	if !ok {
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := reviews.Comment{
		Text:     input.Text,
		ReviewID: review.ID,
		AuthorID: actor.ID,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		zap.L().Error("failed to create comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	comment.Author = *actor
	c.JSON(http.StatusCreated, toCommentDTO(comment))
}

// PATCH /v1/titles/:title_id/reviews/:review_id/comments/:id
func PatchComment(c *gin.Context) {
	comment, ok := findComment(c)
	if !ok {
		return
	}
	if !requireObjectAccess(c, comment.AuthorID) {
		return
	}

	var patch struct {
		Text *string `json:"text"`
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Text != nil {
		comment.Text = *patch.Text
	}

	if err := database.DB.Save(comment).Error; err != nil {
		zap.L().Error("failed to update comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}
	c.JSON(http.StatusOK, toCommentDTO(*comment))
}

// DELETE /v1/titles/:title_id/reviews/:review_id/comments/:id
func DeleteComment(c *gin.Context) {
	comment, ok := findComment(c)
	if !ok {
		return
	}
	if !requireObjectAccess(c, comment.AuthorID) {
		return
	}

	if err := database.DB.Delete(comment).Error; err != nil {
		zap.L().Error("failed to delete comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	c.Status(http.StatusNoContent)
}

func findComment(c *gin.Context) (*reviews.Comment, bool) {
	title, ok := parentTitle(c)
	if !ok {
		return nil, false
	}
	review, ok := findReview(c, title)
	if !ok {
		return nil, false
	}

	var comment reviews.Comment
	err := database.DB.Preload("Author").
		Where("id = ? AND review_id = ?", c.Param("id"), review.ID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return nil, false
		}
		zap.L().Error("failed to load comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comment"})
		return nil, false
	}
	return &comment, true
}
