package service

import (
	"context"
	"testing"
	"time"

	"retailpos/internal/model"
	"retailpos/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	users   map[uint]*model.User
	tokens  map[string]*model.RefreshToken
	nextID  uint
	tokenID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), tokens: make(map[string]*model.RefreshToken), nextID: 1}
}

func (m *mockUserRepo) add(u model.User) { m.users[u.ID] = &u }

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = m.nextID
	m.nextID++
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	m.tokenID++
	token.ID = m.tokenID
	clone := *token
	m.tokens[token.Token] = &clone
	return nil
}

func (m *mockUserRepo) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (m *mockUserRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func (m *mockUserRepo) DeleteExpiredRefreshTokens(ctx context.Context) error { return nil }

const testSecret = "test-secret"

func newUserFixture(t *testing.T) (UserService, *mockUserRepo) {
	repo := newMockUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.add(model.User{
		ID:       1,
		Username: "admin",
		Email:    "admin@example.com",
		Password: string(hash),
		Role:     model.RoleAdmin,
		IsActive: true,
	})
	return NewUserService(repo, TokenConfig{Secret: testSecret}), repo
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, repo := newUserFixture(t)

	pair, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	parsed, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, 1, claims["sub"])
	assert.Equal(t, model.RoleAdmin, claims["role"])

	_, ok = repo.tokens[pair.RefreshToken]
	assert.True(t, ok)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "s3cret!"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, repo := newUserFixture(t)
	repo.users[1].IsActive = false

	_, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "s3cret!"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, repo := newUserFixture(t)

	pair, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "s3cret!"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old token is consumed; replaying it must fail.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, ok := repo.tokens[rotated.RefreshToken]
	assert.True(t, ok)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	svc, repo := newUserFixture(t)

	repo.tokens["stale"] = &model.RefreshToken{
		ID:        99,
		UserID:    1,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err := svc.Refresh(context.Background(), "stale")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, ok := repo.tokens["stale"]
	assert.False(t, ok, "expired token should be purged")
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "admin", Email: "other@example.com", Password: "pass123", Role: model.RoleCashier,
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)

	_, err = svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "other", Email: "admin@example.com", Password: "pass123", Role: model.RoleCashier,
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "x", Email: "x@example.com", Password: "pass123", Role: "superuser",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLogoutWithoutTokenIsNoop(t *testing.T) {
	svc, _ := newUserFixture(t)
	assert.NoError(t, svc.Logout(context.Background(), ""))
}
