package media

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKrzychu46/Blog-Backend/internal/media/mediatest"
)

func TestStore_SaveAndRemove(t *testing.T) {
	root := t.TempDir()
	s, err := NewStore(root, "http://localhost:3100/")
	require.NoError(t, err)

	url, err := s.Save(mediatest.FileHeader(t, "image", "My Holiday Photo.PNG", "image/png", []byte("png-bytes")), KindPosts)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:3100/uploads/posts/"))
	assert.True(t, strings.HasSuffix(url, "-my-holiday-photo.png"))
	assert.True(t, s.IsInternal(url))

	name := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(root, "posts", name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Remove(KindPosts, url))
	_, err = os.Stat(filepath.Join(root, "posts", name))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, s.Remove(KindPosts, url), "second removal reports the missing file")
}

func TestStore_SaveRejects(t *testing.T) {
	s, err := NewStore(t.TempDir(), "http://localhost:3100")
	require.NoError(t, err)

	_, err = s.Save(mediatest.FileHeader(t, "image", "doc.pdf", "application/pdf", []byte("%PDF")), KindPosts)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	big := bytes.Repeat([]byte{1}, MaxAvatarSize+1)
	_, err = s.Save(mediatest.FileHeader(t, "avatar", "me.jpg", "image/jpeg", big), KindAvatars)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestStore_IsInternal(t *testing.T) {
	s := &Store{BaseURL: "https://api.example.com"}

	assert.True(t, s.IsInternal("https://api.example.com/uploads/avatars/1-a.png"))
	assert.False(t, s.IsInternal("https://api.dicebear.com/7.x/thumbs/svg?seed=male"))
	assert.False(t, s.IsInternal(""))
}

func TestStore_RemoveRejectsEmptyName(t *testing.T) {
	s := &Store{Root: t.TempDir(), BaseURL: "http://localhost:3100"}
	assert.Error(t, s.Remove(KindPosts, "http://localhost:3100/"))
}
