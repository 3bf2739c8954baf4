package users

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/MrKrzychu46/Blog-Backend/internal/apperr"
	"github.com/MrKrzychu46/Blog-Backend/internal/auth"
	"github.com/MrKrzychu46/Blog-Backend/internal/mail"
	"github.com/MrKrzychu46/Blog-Backend/internal/media"
)

var (
	ErrMissingFields = fmt.Errorf("%w: email, password, firstName, lastName and gender are required", apperr.ErrInvalidInput)
	ErrInvalidGender = fmt.Errorf("%w: gender must be male, female or other", apperr.ErrInvalidInput)
	ErrBadCredential = fmt.Errorf("%w: wrong email or password", apperr.ErrInvalidCredential)
	ErrWrongPassword = fmt.Errorf("%w: wrong password", apperr.ErrInvalidCredential)
	ErrNotVerified   = fmt.Errorf("%w: confirm your email address first", apperr.ErrNotVerified)
	ErrBadToken      = fmt.Errorf("%w: verification link is invalid or expired", apperr.ErrInvalidToken)
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Gender    string
}

// ProfileUpdate fields left empty are not changed.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Gender    string
}

type Service struct {
	store     *Store
	hasher    auth.Hasher
	issuer    *auth.Issuer
	mailer    mail.Dispatcher
	media     *media.Store
	baseURL   string
	verifyTTL time.Duration
	now       func() time.Time
}

func NewService(store *Store, hasher auth.Hasher, issuer *auth.Issuer, mailer mail.Dispatcher, files *media.Store, baseURL string, verifyTTL time.Duration) *Service {
	return &Service{
		store:     store,
		hasher:    hasher,
		issuer:    issuer,
		mailer:    mailer,
		media:     files,
		baseURL:   strings.TrimRight(baseURL, "/"),
		verifyTTL: verifyTTL,
		now:       time.Now,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and mails its activation link.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := NormalizeEmail(in.Email)
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if email == "" || in.Password == "" || first == "" || last == "" || in.Gender == "" {
		return nil, ErrMissingFields
	}
	gender := Gender(in.Gender)
	if !gender.Valid() {
		return nil, ErrInvalidGender
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	raw, digest, err := newVerificationToken()
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(s.verifyTTL)

	u := &User{
		Email:                 email,
		PasswordHash:          hash,
		FirstName:             first,
		LastName:              last,
		Gender:                gender,
		AvatarURL:             defaultAvatar(gender),
		VerificationTokenHash: &digest,
		VerificationExpiresAt: &expires,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	s.sendVerification(ctx, u, raw)
	return u, nil
}

// Authenticate checks the credential and returns a signed token. Unknown
// emails and wrong passwords are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	u, err := s.store.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return "", ErrBadCredential
	}
	if err != nil {
		return "", err
	}
	if !s.hasher.Compare(password, u.PasswordHash) {
		return "", ErrBadCredential
	}
	if !u.Verified {
		return "", ErrNotVerified
	}

	token, err := s.issuer.GenerateToken(auth.Identity{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    string(u.Gender),
		AvatarURL: u.AvatarURL,
	})
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// VerifyAccount consumes a raw activation token. Wrong and expired tokens
// fail the same way.
func (s *Service) VerifyAccount(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrBadToken
	}
	u, err := s.store.FindByVerificationHash(ctx, hashToken(raw), s.now())
	if errors.Is(err, ErrUserNotFound) {
		return ErrBadToken
	}
	if err != nil {
		return err
	}
	return s.store.MarkVerified(ctx, u.ID)
}

// ResendVerification issues a fresh link for an unverified account. Unknown
// and already verified emails succeed silently.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", apperr.ErrInvalidInput)
	}
	u, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if u.Verified {
		return nil
	}

	raw, digest, err := newVerificationToken()
	if err != nil {
		return err
	}
	if err := s.store.SetVerification(ctx, u.ID, digest, s.now().Add(s.verifyTTL)); err != nil {
		return err
	}
	s.sendVerification(ctx, u, raw)
	return nil
}

func (s *Service) GetMe(ctx context.Context, id string) (Profile, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	return u.Profile(), nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (Profile, error) {
	fields := map[string]interface{}{}
	if v := strings.TrimSpace(in.FirstName); v != "" {
		fields["first_name"] = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		fields["last_name"] = v
	}
	if in.Gender != "" {
		g := Gender(in.Gender)
		if !g.Valid() {
			return Profile{}, ErrInvalidGender
		}
		fields["gender"] = g
	}

	if len(fields) == 0 {
		return s.GetMe(ctx, id)
	}
	u, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return Profile{}, err
	}
	return u.Profile(), nil
}

func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: oldPassword and newPassword are required", apperr.ErrInvalidInput)
	}
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(oldPassword, u.PasswordHash) {
		return ErrWrongPassword
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.store.Update(ctx, id, map[string]interface{}{"password_hash": hash})
	return err
}

// UpdateAvatar stores the upload and points the profile at it. The previous
// avatar is removed when it was hosted here.
func (s *Service) UpdateAvatar(ctx context.Context, id string, fh *multipart.FileHeader) (Profile, error) {
	if fh == nil {
		return Profile{}, fmt.Errorf("%w: avatar file is required", apperr.ErrInvalidInput)
	}
	prev, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	avatarURL, err := s.media.Save(fh, media.KindAvatars)
	if err != nil {
		return Profile{}, err
	}
	u, err := s.store.Update(ctx, id, map[string]interface{}{"avatar_url": avatarURL})
	if err != nil {
		if rmErr := s.media.Remove(media.KindAvatars, avatarURL); rmErr != nil {
			log.Printf("remove orphaned avatar %s: %v", avatarURL, rmErr)
		}
		return Profile{}, err
	}

	if prev.AvatarURL != "" && s.media.IsInternal(prev.AvatarURL) {
		if err := s.media.Remove(media.KindAvatars, prev.AvatarURL); err != nil {
			log.Printf("remove previous avatar of user %s: %v", id, err)
		}
	}
	return u.Profile(), nil
}

func (s *Service) sendVerification(ctx context.Context, u *User, raw string) {
	link := s.baseURL + "/api/user/verify?token=" + url.QueryEscape(raw)
	body, err := mail.VerificationHTML(u.DisplayName(), link, humanize(s.verifyTTL))
	if err != nil {
		log.Printf("render verification mail for %s: %v", u.Email, err)
		return
	}
	if err := s.mailer.Send(ctx, u.Email, mail.VerificationSubject, body); err != nil {
		log.Printf("send verification mail to %s: %v", u.Email, err)
	}
}

// newVerificationToken returns the raw token to mail and the digest to store.
func newVerificationToken() (raw, digest string, err error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", "", fmt.Errorf("generate verification token: %w", err)
	}
	raw = hex.EncodeToString(b[:])
	return raw, hashToken(raw), nil
}

// humanize renders a ttl as "1 hour" or "30 minutes".
func humanize(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return plural(int(d/time.Hour), "hour")
	}
	m := int(d.Round(time.Minute) / time.Minute)
	if m < 1 {
		m = 1
	}
	return plural(m, "minute")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
