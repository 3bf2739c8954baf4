package favorites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MrKrzychu46/Blog-Backend/internal/apperr"
	"github.com/MrKrzychu46/Blog-Backend/internal/database/databasetest"
	"github.com/MrKrzychu46/Blog-Backend/internal/posts"
)

type fixture struct {
	db    *gorm.DB
	index *Index
	store *Store
	posts *posts.Store
}

func newFixture(t *testing.T) *fixture {
	db := databasetest.Open(t, &posts.Post{}, &Favorite{})
	ps := posts.NewStore(db)
	fs := NewStore(db)
	return &fixture{db: db, index: NewIndex(fs, ps), store: fs, posts: ps}
}

func (f *fixture) post(t *testing.T, title string) posts.Post {
	t.Helper()
	p := posts.Post{Title: title, Text: "text", Image: "http://x/uploads/posts/p.png", AuthorID: "author"}
	require.NoError(t, f.posts.Create(context.Background(), &p))
	return p
}

func titles(list []posts.Post) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Title
	}
	return out
}

func TestIndex_ListMineEmpty(t *testing.T) {
	f := newFixture(t)

	list, err := f.index.ListMine(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestIndex_AddIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, "one")

	created, err := f.index.Add(ctx, "u", p.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.index.Add(ctx, "u", p.ID)
	require.NoError(t, err)
	assert.False(t, created)

	var n int64
	require.NoError(t, f.db.Model(&Favorite{}).Where("user_id = ? AND post_id = ?", "u", p.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestIndex_AddErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.index.Add(ctx, "u", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = f.index.Add(ctx, "u", "does-not-exist")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestIndex_ListMineOrderAndDeletedPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.post(t, "first")
	second := f.post(t, "second")
	third := f.post(t, "third")

	for _, p := range []posts.Post{first, second, third} {
		_, err := f.index.Add(ctx, "u", p.ID)
		require.NoError(t, err)
	}
	_, err := f.index.Add(ctx, "other", first.ID)
	require.NoError(t, err)

	list, err := f.index.ListMine(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, titles(list))

	// the favorite row survives but its post is gone
	require.NoError(t, f.posts.Delete(ctx, second.ID))

	list, err = f.index.ListMine(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "first"}, titles(list))
}

func TestIndex_Remove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, "one")

	_, err := f.index.Add(ctx, "u", p.ID)
	require.NoError(t, err)

	require.NoError(t, f.index.Remove(ctx, "u", p.ID))
	require.NoError(t, f.index.Remove(ctx, "u", p.ID), "removing twice still succeeds")
	require.NoError(t, f.index.Remove(ctx, "u", "never-existed"))
	assert.ErrorIs(t, f.index.Remove(ctx, "u", ""), apperr.ErrInvalidInput)

	list, err := f.index.ListMine(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_CascadeDeletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.post(t, "a")
	b := f.post(t, "b")

	for _, pair := range [][2]string{{"u1", a.ID}, {"u1", b.ID}, {"u2", a.ID}} {
		_, err := f.store.Create(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	require.NoError(t, f.store.DeleteByPosts(ctx, []string{a.ID}))
	ids, err := f.store.PostIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, ids)

	require.NoError(t, f.store.DeleteByUser(ctx, "u1"))
	ids, err = f.store.PostIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
