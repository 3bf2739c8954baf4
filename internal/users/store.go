package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/MrKrzychu46/Blog-Backend/internal/apperr"
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("email already registered: %w", apperr.ErrConflict)
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, u *User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("find user: %w", err)
	}
	return n > 0, nil
}

// FindByEmail expects an already normalised email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindByVerificationHash returns the user holding hash whose token is still
// valid at now.
func (s *Store) FindByVerificationHash(ctx context.Context, hash string, now time.Time) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).
		Where("verification_token_hash = ? AND verification_expires_at > ?", hash, now).
		First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) Update(ctx context.Context, id string, fields map[string]interface{}) (*User, error) {
	res := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *Store) SetVerification(ctx context.Context, id string, hash string, expiresAt time.Time) error {
	_, err := s.Update(ctx, id, map[string]interface{}{
		"verification_token_hash": hash,
		"verification_expires_at": expiresAt,
	})
	return err
}

// MarkVerified flips the flag and clears the one-time token.
func (s *Store) MarkVerified(ctx context.Context, id string) error {
	_, err := s.Update(ctx, id, map[string]interface{}{
		"verified":                true,
		"verification_token_hash": nil,
		"verification_expires_at": nil,
	})
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("find user: %w", err)
}
