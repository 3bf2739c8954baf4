// Package account removes users and posts together with everything that
// references them.
package account

import (
	"context"
	"fmt"
	"log"

	"github.com/MrKrzychu46/Blog-Backend/internal/apperr"
	"github.com/MrKrzychu46/Blog-Backend/internal/auth"
	"github.com/MrKrzychu46/Blog-Backend/internal/config"
	"github.com/MrKrzychu46/Blog-Backend/internal/favorites"
	"github.com/MrKrzychu46/Blog-Backend/internal/media"
	"github.com/MrKrzychu46/Blog-Backend/internal/posts"
	"github.com/MrKrzychu46/Blog-Backend/internal/ratings"
	"github.com/MrKrzychu46/Blog-Backend/internal/users"
)

var (
	ErrWrongPassword = fmt.Errorf("%w: wrong password", apperr.ErrInvalidCredential)
	ErrNotAuthor     = fmt.Errorf("%w: only the author can delete this post", apperr.ErrForbidden)
)

type Stores struct {
	Users     *users.Store
	Posts     *posts.Store
	Ratings   *ratings.Store
	Favorites *favorites.Store
}

type Manager struct {
	Stores
	hasher auth.Hasher
	media  *media.Store
	policy string
}

func NewManager(stores Stores, hasher auth.Hasher, files *media.Store, deletePolicy string) *Manager {
	if deletePolicy == "" {
		deletePolicy = config.PolicyAnyCaller
	}
	return &Manager{Stores: stores, hasher: hasher, media: files, policy: deletePolicy}
}

// DeleteAccount removes the user and everything they own. Cross references
// to the user's posts go first so an interrupted run never leaves ratings or
// favorites pointing at a live post of a deleted author. Database failures
// abort; file removal failures are only logged.
func (m *Manager) DeleteAccount(ctx context.Context, userID, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", apperr.ErrInvalidInput)
	}
	u, err := m.Users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !m.hasher.Compare(password, u.PasswordHash) {
		return ErrWrongPassword
	}

	owned, err := m.Posts.ListByAuthor(ctx, userID)
	if err != nil {
		return err
	}
	ids := posts.IDs(owned)

	if err := m.Ratings.DeleteByPosts(ctx, ids); err != nil {
		return fmt.Errorf("delete account %s: %w", userID, err)
	}
	if err := m.Favorites.DeleteByPosts(ctx, ids); err != nil {
		return fmt.Errorf("delete account %s: %w", userID, err)
	}

	for _, p := range owned {
		m.removeFile(media.KindPosts, p.Image)
	}
	if m.media.IsInternal(u.AvatarURL) {
		m.removeFile(media.KindAvatars, u.AvatarURL)
	}

	if err := m.Ratings.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete account %s: %w", userID, err)
	}
	if err := m.Favorites.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete account %s: %w", userID, err)
	}
	if err := m.Posts.DeleteByAuthor(ctx, userID); err != nil {
		return fmt.Errorf("delete account %s: %w", userID, err)
	}
	if err := m.Users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete account %s: %w", userID, err)
	}

	log.Printf("account %s deleted with %d posts", userID, len(owned))
	return nil
}

// DeletePost removes one post, its ratings and favorites, then its image.
// Under the owner policy only the author may delete.
func (m *Manager) DeletePost(ctx context.Context, callerID, postID string) error {
	p, err := m.Posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if m.policy == config.PolicyOwnerOnly && p.AuthorID != callerID {
		return ErrNotAuthor
	}

	ids := []string{p.ID}
	if err := m.Ratings.DeleteByPosts(ctx, ids); err != nil {
		return fmt.Errorf("delete post %s: %w", p.ID, err)
	}
	if err := m.Favorites.DeleteByPosts(ctx, ids); err != nil {
		return fmt.Errorf("delete post %s: %w", p.ID, err)
	}
	if err := m.Posts.Delete(ctx, p.ID); err != nil {
		return err
	}

	m.removeFile(media.KindPosts, p.Image)
	return nil
}

func (m *Manager) removeFile(kind media.Kind, ref string) {
	if ref == "" || !m.media.IsInternal(ref) {
		return
	}
	if err := m.media.Remove(kind, ref); err != nil {
		log.Printf("remove %s file %s: %v", kind, ref, err)
	}
}
