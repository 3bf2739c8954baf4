package favorites

import (
	"context"
	"fmt"

	"github.com/MrKrzychu46/Blog-Backend/internal/apperr"
	"github.com/MrKrzychu46/Blog-Backend/internal/posts"
)

var ErrMissingPostID = fmt.Errorf("%w: postId is required", apperr.ErrInvalidInput)

// PostSource is the part of the content store the index needs.
type PostSource interface {
	Exists(ctx context.Context, id string) (bool, error)
	FindByIDs(ctx context.Context, ids []string) ([]posts.Post, error)
}

type Index struct {
	store *Store
	posts PostSource
}

func NewIndex(store *Store, posts PostSource) *Index {
	return &Index{store: store, posts: posts}
}

// ListMine resolves the caller's favorites to posts, most recently favorited
// first. Favorites of deleted posts are dropped silently.
func (i *Index) ListMine(ctx context.Context, callerID string) ([]posts.Post, error) {
	ids, err := i.store.PostIDs(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []posts.Post{}, nil
	}

	found, err := i.posts.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]posts.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	ordered := make([]posts.Post, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// Add favorites postID for the caller. created is false when the pair
// already existed, which is not an error.
func (i *Index) Add(ctx context.Context, callerID, postID string) (created bool, err error) {
	if postID == "" {
		return false, ErrMissingPostID
	}
	ok, err := i.posts.Exists(ctx, postID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, posts.ErrPostNotFound
	}
	return i.store.Create(ctx, callerID, postID)
}

// Remove succeeds whether or not the favorite existed.
func (i *Index) Remove(ctx context.Context, callerID, postID string) error {
	if postID == "" {
		return ErrMissingPostID
	}
	return i.store.Delete(ctx, callerID, postID)
}
