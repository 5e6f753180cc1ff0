package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"csflix/internal/domain/entity"
	"csflix/internal/repository"
)

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	nextID int64
	getErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*entity.User{}}
}

func (r *stubUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return repository.ErrDuplicateUsername
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, name string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[name]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func newTestService(repo repository.UserRepository) *Service {
	s := NewService(repo, PasswordPolicy{MinLength: 8, WeakPasswords: []string{"password1"}})
	s.cost = bcrypt.MinCost
	return s
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		p1, p2     string
		wantFields map[string][]string
	}{
		{name: "ok", username: "alice", p1: "s3cret-movie", p2: "s3cret-movie"},
		{
			name:     "all empty",
			username: " ",
			wantFields: map[string][]string{
				"username":  {entity.MsgRequired},
				"password1": {entity.MsgRequired},
			},
		},
		{
			name: "bad username", username: "alice smith", p1: "s3cret-movie", p2: "s3cret-movie",
			wantFields: map[string][]string{"username": {MsgUsernameInvalid}},
		},
		{
			name: "mismatch", username: "bob", p1: "s3cret-movie", p2: "s3cret-movi",
			wantFields: map[string][]string{"password2": {MsgPasswordMismatch}},
		},
		{
			name: "short and numeric", username: "bob", p1: "1234", p2: "1234",
			wantFields: map[string][]string{"password2": {"This password is too short. It must contain at least 8 characters.", MsgPasswordNumeric}},
		},
		{
			name: "common", username: "bob", p1: "Password1", p2: "Password1",
			wantFields: map[string][]string{"password2": {MsgPasswordCommon}},
		},
		{
			name: "similar to username", username: "moviebuff", p1: "moviebuff99", p2: "moviebuff99",
			wantFields: map[string][]string{"password2": {MsgPasswordSimilar}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(newStubUserRepo())

			user, err := s.Register(context.Background(), tt.username, tt.p1, tt.p2)

			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.NotZero(t, user.ID)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.p1)))
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrValidationFailed)
			assert.Equal(t, tt.wantFields, entity.FieldMessages(err))
		})
	}
}

func TestService_Register_Duplicate(t *testing.T) {
	s := newTestService(newStubUserRepo())
	_, err := s.Register(context.Background(), "alice", "s3cret-movie", "s3cret-movie")
	require.NoError(t, err)

	_, err = s.Register(context.Background(), "alice", "other-s3cret", "other-s3cret")

	assert.Equal(t, map[string][]string{"username": {MsgUsernameTaken}}, entity.FieldMessages(err))
}

func TestService_SetPolicy(t *testing.T) {
	s := newTestService(newStubUserRepo())
	s.SetPolicy(PasswordPolicy{MinLength: 20})

	_, err := s.Register(context.Background(), "carol", "s3cret-movie", "s3cret-movie")

	msgs := entity.FieldMessages(err)["password2"]
	require.Len(t, msgs, 1)
	assert.True(t, strings.Contains(msgs[0], "at least 20"))
}

func TestService_Authenticate(t *testing.T) {
	repo := newStubUserRepo()
	s := newTestService(repo)
	_, err := s.Register(context.Background(), "alice", "s3cret-movie", "s3cret-movie")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "ok", username: "alice", password: "s3cret-movie"},
		{name: "ok with padding", username: " alice ", password: "s3cret-movie"},
		{name: "wrong password", username: "alice", password: "nope-nope", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "mallory", password: "s3cret-movie", wantErr: ErrInvalidCredentials},
		{name: "empty", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := s.Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", user.Username)
		})
	}
}

func TestService_Authenticate_RepoError(t *testing.T) {
	repo := newStubUserRepo()
	repo.getErr = errors.New("db down")
	s := newTestService(repo)

	_, err := s.Authenticate(context.Background(), "alice", "whatever")

	assert.ErrorContains(t, err, "db down")
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
