package media

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/MrKrzychu46/Blog-Backend/internal/apperr"
)

type Kind string

const (
	KindPosts   Kind = "posts"
	KindAvatars Kind = "avatars"
)

const (
	MaxPostImageSize = 4 << 20
	MaxAvatarSize    = 2 << 20
)

var (
	ErrUnsupportedType = fmt.Errorf("%w: only jpeg, png and webp images are accepted", apperr.ErrInvalidInput)
	ErrTooLarge        = fmt.Errorf("%w: file too large", apperr.ErrInvalidInput)
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Store keeps uploads on local disk under Root/<kind>/ and serves them at
// BaseURL/uploads/<kind>/<file>.
type Store struct {
	Root    string
	BaseURL string
}

func NewStore(root, baseURL string) (*Store, error) {
	for _, k := range []Kind{KindPosts, KindAvatars} {
		if err := os.MkdirAll(filepath.Join(root, string(k)), 0o755); err != nil {
			return nil, fmt.Errorf("create uploads dir: %w", err)
		}
	}
	return &Store{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func maxSize(k Kind) int64 {
	if k == KindAvatars {
		return MaxAvatarSize
	}
	return MaxPostImageSize
}

// Save validates and stores an uploaded file, returning its public URL.
func (s *Store) Save(fh *multipart.FileHeader, kind Kind) (string, error) {
	if !allowedTypes[fh.Header.Get("Content-Type")] {
		return "", ErrUnsupportedType
	}
	if fh.Size > maxSize(kind) {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fileName(fh.Filename)
	dst, err := os.Create(filepath.Join(s.Root, string(kind), name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	return s.URL(kind, name), nil
}

func (s *Store) URL(kind Kind, name string) string {
	return fmt.Sprintf("%s/uploads/%s/%s", s.BaseURL, kind, name)
}

// IsInternal reports whether ref points at this store. External URLs such
// as the default avatars are never deleted.
func (s *Store) IsInternal(ref string) bool {
	return strings.HasPrefix(ref, s.BaseURL+"/uploads/")
}

// Remove deletes the file behind ref, derived from the URL's last path segment.
func (s *Store) Remove(kind Kind, ref string) error {
	u, err := url.Parse(ref)
	if err != nil {
		return fmt.Errorf("parse media url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == ".." {
		return fmt.Errorf("media url %q has no file name", ref)
	}
	if err := os.Remove(filepath.Join(s.Root, string(kind), name)); err != nil {
		return fmt.Errorf("remove media: %w", err)
	}
	return nil
}

// fileName builds "<unix ms>-<random>-<slug>.<ext>" from the client's name.
func fileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := slug.Make(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))

	var rnd [6]byte
	_, _ = rand.Read(rnd[:])

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(rnd[:]))
	if base != "" {
		name += "-" + base
	}
	return name + ext
}
