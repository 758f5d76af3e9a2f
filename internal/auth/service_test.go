package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"busbooking/internal/shared/config"
	"busbooking/internal/shared/middleware"
	"busbooking/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateUser(ctx context.Context, user *users.User) error {
	args := m.Called(ctx, user)
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockRepository) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*users.User)
	return u, args.Error(1)
}

func (m *mockRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*users.User)
	return u, args.Error(1)
}

func (m *mockRepository) UpdateUserPassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	return m.Called(ctx, userID, hashedPassword).Error(0)
}

func (m *mockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		Secret:           "test-secret",
		JWTExpiresIn:     15 * time.Minute,
		RefreshExpiresIn: 24 * time.Hour,
	}}
}

func storedUser(t *testing.T, password string) *users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &users.User{ID: uuid.New(), FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Password: string(hash), Role: users.RoleUser}
}

func TestRegister_AlwaysCreatesUserRole(t *testing.T) {
	repo := &mockRepository{}
	repo.On("EmailExists", mock.Anything, "jane@example.com").Return(false, nil)
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *users.User) bool {
		return u.Role == users.RoleUser && u.Password != "secret123"
	})).Return(nil)

	resp, err := NewService(repo, testConfig()).Register(context.Background(), &RegisterRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, "USER", resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockRepository{}
	repo.On("EmailExists", mock.Anything, "jane@example.com").Return(true, nil)

	_, err := NewService(repo, testConfig()).Register(context.Background(), &RegisterRequest{Email: "jane@example.com", Password: "secret123"})

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	user := storedUser(t, "secret123")
	repo := &mockRepository{}
	repo.On("GetUserByEmail", mock.Anything, "jane@example.com").Return(user, nil)
	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, ErrUserNotFound)
	svc := NewService(repo, testConfig())

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, user.ID.String(), claims.UserID)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	user := storedUser(t, "secret123")
	repo := &mockRepository{}
	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)
	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	svc := NewService(repo, testConfig())

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestValidateToken_Expired(t *testing.T) {
	user := storedUser(t, "secret123")
	s := NewService(&mockRepository{}, testConfig()).(*service)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }

	pair, err := s.generateTokenPair(user)
	require.NoError(t, err)

	_, err = s.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssuedAccessTokenPassesMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	user := storedUser(t, "secret123")
	repo := &mockRepository{}
	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)
	resp, err := NewService(repo, cfg).Login(context.Background(), &LoginRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)

	var seen *middleware.UserContext
	r := gin.New()
	r.GET("/whoami", middleware.JWTAuthWithConfig(cfg), func(c *gin.Context) {
		seen, _ = middleware.GetUserContext(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.UserID)
	assert.Equal(t, "USER", seen.Role)
	assert.True(t, seen.ExpiresAt.After(time.Now()))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+resp.RefreshToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
