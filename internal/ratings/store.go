package ratings

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Upsert creates the (user, post) rating or overwrites its value in a single
// statement backed by the unique index.
func (s *Store) Upsert(ctx context.Context, userID, postID string, value int) error {
	r := Rating{UserID: userID, PostID: postID, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&r).Error
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// ValueFor returns the user's rating of the post, 0 when there is none.
func (s *Store) ValueFor(ctx context.Context, userID, postID string) (int, error) {
	var r Rating
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find rating: %w", err)
	}
	return r.Value, nil
}

type statsRow struct {
	PostID  string
	Average float64
	Votes   int64
}

// Stats groups all ratings of the given posts in one query. Posts without
// ratings are absent from the map.
func (s *Store) Stats(ctx context.Context, postIDs []string) (map[string]Stats, error) {
	out := make(map[string]Stats, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	var rows []statsRow
	err := s.db.WithContext(ctx).Model(&Rating{}).
		Select("post_id, AVG(CAST(value AS FLOAT)) AS average, COUNT(*) AS votes").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	for _, r := range rows {
		out[r.PostID] = Stats{AverageRating: r.Average, VotesCount: r.Votes}
	}
	return out, nil
}

func (s *Store) DeleteByPosts(ctx context.Context, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("post_id IN ?", postIDs).Delete(&Rating{}).Error; err != nil {
		return fmt.Errorf("delete ratings by post: %w", err)
	}
	return nil
}

func (s *Store) DeleteByUser(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Rating{}).Error; err != nil {
		return fmt.Errorf("delete ratings by user: %w", err)
	}
	return nil
}
