// Package auth registers users and checks their credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"csflix/internal/domain/entity"
	"csflix/internal/repository"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
// It does not say which of the two failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

// User-facing registration messages.
const (
	MsgUsernameInvalid   = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgUsernameTaken     = "A user with that username already exists."
	MsgPasswordMismatch  = "The two password fields didn't match."
	MsgPasswordTooShort  = "This password is too short. It must contain at least %d characters."
	MsgPasswordCommon    = "This password is too common."
	MsgPasswordNumeric   = "This password is entirely numeric."
	MsgPasswordSimilar   = "The password is too similar to the username."
	maxUsernameLength    = 150
	bcryptMaxInputLength = 72
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// PasswordPolicy is the set of rules a new password must satisfy.
type PasswordPolicy struct {
	MinLength     int
	WeakPasswords []string // lower-case
}

// Service handles registration and login.
type Service struct {
	users  repository.UserRepository
	policy atomic.Pointer[PasswordPolicy]
	cost   int
	now    func() time.Time
}

// NewService creates an auth service using bcrypt.DefaultCost.
func NewService(users repository.UserRepository, policy PasswordPolicy) *Service {
	s := &Service{users: users, cost: bcrypt.DefaultCost, now: time.Now}
	s.SetPolicy(policy)
	return s
}

// SetPolicy replaces the password policy. Safe for concurrent use.
func (s *Service) SetPolicy(p PasswordPolicy) {
	s.policy.Store(&p)
}

// Policy returns the password policy in effect.
func (s *Service) Policy() PasswordPolicy {
	return *s.policy.Load()
}

// Register validates the form and creates the user.
// Field problems are returned as joined *entity.ValidationError values for
// the fields "username", "password1" and "password2".
func (s *Service) Register(ctx context.Context, username, password1, password2 string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if err := s.validateRegistration(username, password1, password2); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password1), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, &entity.ValidationError{Field: "username", Message: MsgUsernameTaken}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Service) validateRegistration(username, password1, password2 string) error {
	var errs []error
	fieldErr := func(field, msg string) {
		errs = append(errs, &entity.ValidationError{Field: field, Message: msg})
	}

	switch {
	case username == "":
		fieldErr("username", entity.MsgRequired)
	case utf8.RuneCountInString(username) > maxUsernameLength || !usernamePattern.MatchString(username):
		fieldErr("username", MsgUsernameInvalid)
	}

	switch {
	case password1 == "":
		fieldErr("password1", entity.MsgRequired)
	case password2 == "":
		fieldErr("password2", entity.MsgRequired)
	case password1 != password2:
		fieldErr("password2", MsgPasswordMismatch)
	default:
		for _, msg := range s.checkPassword(username, password1) {
			fieldErr("password2", msg)
		}
	}
	return errors.Join(errs...)
}

// checkPassword returns every policy message password violates.
func (s *Service) checkPassword(username, password string) []string {
	p := s.Policy()
	var msgs []string
	if utf8.RuneCountInString(password) < p.MinLength {
		msgs = append(msgs, fmt.Sprintf(MsgPasswordTooShort, p.MinLength))
	}
	if len(password) > bcryptMaxInputLength {
		msgs = append(msgs, fmt.Sprintf("This password is too long. It must contain at most %d bytes.", bcryptMaxInputLength))
	}
	lower := strings.ToLower(password)
	if slices.Contains(p.WeakPasswords, lower) {
		msgs = append(msgs, MsgPasswordCommon)
	}
	if strings.Trim(password, "0123456789") == "" {
		msgs = append(msgs, MsgPasswordNumeric)
	}
	if username != "" && (strings.Contains(lower, strings.ToLower(username)) || strings.EqualFold(password, username)) {
		msgs = append(msgs, MsgPasswordSimilar)
	}
	return msgs
}

// Authenticate returns the user when username and password match.
// Returns ErrInvalidCredentials otherwise.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		// same bcrypt cost as a known user
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("csflix-dummy-password"), bcrypt.DefaultCost)
