package posts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/MrKrzychu46/Blog-Backend/internal/apperr"
)

var (
	ErrPostNotFound = fmt.Errorf("post %w", apperr.ErrNotFound)
	ErrEmptyTitle   = fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
	ErrEmptyText    = fmt.Errorf("%w: text is required", apperr.ErrInvalidInput)
	ErrNoImage      = fmt.Errorf("%w: image is required", apperr.ErrInvalidInput)
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create trims and validates p before inserting it.
func (s *Store) Create(ctx context.Context, p *Post) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Text = strings.TrimSpace(p.Text)
	switch {
	case p.Title == "":
		return ErrEmptyTitle
	case p.Text == "":
		return ErrEmptyText
	case p.Image == "":
		return ErrNoImage
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*Post, error) {
	var p Post
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &p, nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Post{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count post: %w", err)
	}
	return n > 0, nil
}

// List returns posts newest first; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Post, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var list []Post
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return list, nil
}

func (s *Store) ListByAuthor(ctx context.Context, authorID string) ([]Post, error) {
	var list []Post
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return list, nil
}

// FindByIDs fetches a batch of posts. The result order is unspecified and
// missing ids are simply absent.
func (s *Store) FindByIDs(ctx context.Context, ids []string) ([]Post, error) {
	if len(ids) == 0 {
		return []Post{}, nil
	}
	var list []Post
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	return list, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&Post{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (s *Store) DeleteByAuthor(ctx context.Context, authorID string) error {
	if err := s.db.WithContext(ctx).Where("author_id = ?", authorID).Delete(&Post{}).Error; err != nil {
		return fmt.Errorf("delete posts by author: %w", err)
	}
	return nil
}

// ParseCount validates the N of a top-N listing: a positive integer no
// greater than max.
func ParseCount(raw string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: post count must be a positive integer", apperr.ErrInvalidInput)
	}
	if n > max {
		return 0, fmt.Errorf("%w: post count must not exceed %d", apperr.ErrInvalidInput, max)
	}
	return n, nil
}
