package favorites

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create inserts the pair and reports false, without error, if it already existed.
func (s *Store) Create(ctx context.Context, userID, postID string) (bool, error) {
	err := s.db.WithContext(ctx).Create(&Favorite{UserID: userID, PostID: postID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create favorite: %w", err)
	}
	return true, nil
}

// PostIDs lists the user's favorite post ids, most recently favorited first.
func (s *Store) PostIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return ids, nil
}

func (s *Store) Delete(ctx context.Context, userID, postID string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&Favorite{}).Error
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (s *Store) DeleteByPosts(ctx context.Context, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("post_id IN ?", postIDs).Delete(&Favorite{}).Error; err != nil {
		return fmt.Errorf("delete favorites by post: %w", err)
	}
	return nil
}

func (s *Store) DeleteByUser(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Favorite{}).Error; err != nil {
		return fmt.Errorf("delete favorites by user: %w", err)
	}
	return nil
}
