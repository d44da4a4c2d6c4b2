package services_test

import (
	"log"
	"os"
	"testing"
	"time"

	"taskapi/internal/models"
	"taskapi/internal/repositories"
	"taskapi/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	// Successful registration
	mockRepo.On("GetByUsername", "testuser").Return(nil, repositories.ErrUserNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = 1
	}).Return(nil).Once()

	user, err := authService.Register("testuser", "password123")
	assert.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "testuser", user.Username)
	// The stored credential is a bcrypt digest, never the raw password
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", "testuser").Return(&models.User{ID: 1, Username: "testuser"}, nil).Once()
	_, err = authService.Register("testuser", "password123")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)

	// Password too short: no repository call is made at all
	_, err = authService.Register("shortpw", "12345")
	var validationErr *services.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "at least 6 characters")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterHashesAreSalted(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	mockRepo.On("GetByUsername", mock.Anything).Return(nil, repositories.ErrUserNotFound).Twice()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Twice()

	first, err := authService.Register("alice", "password123")
	assert.NoError(t, err)
	second, err := authService.Register("bob", "password123")
	assert.NoError(t, err)

	// Same password, different digests
	assert.NotEqual(t, first.PasswordHash, second.PasswordHash)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           42,
		Username:     "testuser",
		PasswordHash: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	token, loggedIn, err := authService.Login("testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, uint(42), loggedIn.ID)

	// The token carries the user id and verifies against the secret
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.EqualValues(t, 42, claims["user_id"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	_, _, err = authService.Login("testuser", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown username yields the same error as a wrong password
	mockRepo.On("GetByUsername", "nonexistentuser").Return(nil, repositories.ErrUserNotFound).Once()
	_, _, err = authService.Login("nonexistentuser", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Valid token issued by the service itself
	token, err := authService.IssueToken(7)
	assert.NoError(t, err)
	userID, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), userID)

	// Malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token signed with a different secret
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	forgedString, _ := forged.SignedString([]byte("other_secret"))
	_, err = authService.ValidateToken(forgedString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Expired token
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token without a user_id claim
	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	anonymousString, _ := anonymous.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(anonymousString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
