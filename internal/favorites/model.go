package favorites

import "time"

// Favorite bookmarks a post for a user. (user_id, post_id) is unique.
type Favorite struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"size:36;not null;index;uniqueIndex:idx_favorite_user_post"`
	PostID    string    `gorm:"size:36;not null;index;uniqueIndex:idx_favorite_user_post"`
	CreatedAt time.Time `gorm:"index"`
}
