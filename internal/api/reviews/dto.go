package reviews

import (
	"time"

	"review-platform/internal/domain/reviews"
)

type ReviewDTO struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type CommentDTO struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func toReviewDTO(r reviews.Review) ReviewDTO {
	return ReviewDTO{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.Username,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

func toCommentDTO(cm reviews.Comment) CommentDTO {
	return CommentDTO{
		ID:      cm.ID,
		Text:    cm.Text,
		Author:  cm.Author.Username,
		PubDate: cm.PubDate,
	}
}
