package posts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKrzychu46/Blog-Backend/internal/apperr"
	"github.com/MrKrzychu46/Blog-Backend/internal/database/databasetest"
)

func newStore(t *testing.T) *Store {
	return NewStore(databasetest.Open(t, &Post{}))
}

func TestStore_CreateValidates(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		post Post
		want error
	}{
		{"blank title", Post{Title: "  ", Text: "t", Image: "i", AuthorID: "a"}, ErrEmptyTitle},
		{"blank text", Post{Title: "t", Text: "\n", Image: "i", AuthorID: "a"}, ErrEmptyText},
		{"no image", Post{Title: "t", Text: "t", AuthorID: "a"}, ErrNoImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Create(ctx, &tt.post)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}

	p := &Post{Title: "  Hello ", Text: " World ", Image: "http://x/uploads/posts/a.png", AuthorID: "a"}
	require.NoError(t, s.Create(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, "World", p.Text)
}

func TestStore_Queries(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var created []Post
	for i, author := range []string{"alice", "bob", "alice"} {
		p := Post{Title: "p", Text: "t", Image: "img", AuthorID: author, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.Create(ctx, &p))
		created = append(created, p)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{created[2].ID, created[1].ID, created[0].ID}, IDs(all))

	top, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{created[2].ID, created[1].ID}, IDs(top))

	mine, err := s.ListByAuthor(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{created[2].ID, created[0].ID}, IDs(mine))

	batch, err := s.FindByIDs(ctx, []string{created[0].ID, "missing", created[1].ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{created[0].ID, created[1].ID}, IDs(batch))

	ok, err := s.Exists(ctx, created[1].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.DeleteByAuthor(ctx, "alice"))
	_, err = s.FindByID(ctx, created[0].ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, s.Delete(ctx, created[1].ID))
	ok, err = s.Exists(ctx, created[1].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"15", 15, false},
		{" 3 ", 3, false},
		{"16", 0, true},
		{"0", 0, true},
		{"-2", 0, true},
		{"abc", 0, true},
		{"2.5", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCount(tt.raw, 15)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
