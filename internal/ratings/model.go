package ratings

import (
	"time"

	"github.com/MrKrzychu46/Blog-Backend/internal/posts"
)

const (
	MinValue = 1
	MaxValue = 5
)

// Rating is one user's score for one post. (user_id, post_id) is unique.
type Rating struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"size:36;not null;index;uniqueIndex:idx_rating_user_post"`
	PostID    string `gorm:"size:36;not null;index;uniqueIndex:idx_rating_user_post"`
	Value     int    `gorm:"not null;check:value >= 1 AND value <= 5"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats is the aggregate for a post; never persisted.
type Stats struct {
	AverageRating float64 `json:"averageRating"`
	VotesCount    int64   `json:"votesCount"`
}

type Summary struct {
	Stats
	MyRating int `json:"myRating"`
}

// RatedPost is a post enriched with its aggregate for list endpoints.
type RatedPost struct {
	posts.Post
	Stats
}
