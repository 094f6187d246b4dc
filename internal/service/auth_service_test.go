package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"keeper/internal/auth"
	apperrors "keeper/internal/errors"
	"keeper/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*model.User, error) {
	args := m.Called(ctx, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "alice",
			email:    "a@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmailOrUsername", mock.Anything, "a@x.com", "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "duplicate email",
			username: "alice2",
			email:    "a@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmailOrUsername", mock.Anything, "a@x.com", "alice2").Return(&model.User{Email: "a@x.com"}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:     "duplicate username",
			username: "alice",
			email:    "other@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmailOrUsername", mock.Anything, "other@x.com", "alice").Return(&model.User{Username: "alice"}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:     "lost race against concurrent registration",
			username: "bob",
			email:    "b@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmailOrUsername", mock.Anything, "b@x.com", "bob").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			tokens := auth.NewTokenService("test-secret", 0)
			svc := NewAuthService(mockRepo, tokens)

			token, user, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.username, user.Username)
				assert.Equal(t, tt.email, user.Email)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))

				// The issued token resolves to the new user's identity.
				subject, err := tokens.Verify(token)
				assert.NoError(t, err)
				assert.Equal(t, user.ID, subject)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterUsernameBounds(t *testing.T) {
	t.Run("whitespace-padded short username is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)

		svc := NewAuthService(mockRepo, auth.NewTokenService("test-secret", 0))
		_, _, err := svc.Register(context.Background(), "  a  ", "a@x.com", "secret1")

		assert.ErrorIs(t, err, apperrors.ErrInvalidUsername)
		mockRepo.AssertNotCalled(t, "FindByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("username over 30 characters after trimming is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)

		svc := NewAuthService(mockRepo, auth.NewTokenService("test-secret", 0))
		_, _, err := svc.Register(context.Background(), strings.Repeat("x", 31), "a@x.com", "secret1")

		assert.ErrorIs(t, err, apperrors.ErrInvalidUsername)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("padding does not count toward the limit", func(t *testing.T) {
		longest := strings.Repeat("x", 30)
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmailOrUsername", mock.Anything, "a@x.com", longest).Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewAuthService(mockRepo, auth.NewTokenService("test-secret", 0))
		_, user, err := svc.Register(context.Background(), "  "+longest+"  ", "a@x.com", "secret1")

		assert.NoError(t, err)
		assert.Equal(t, longest, user.Username)
	})
}

func TestAuthService_RegisterNormalizesInput(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmailOrUsername", mock.Anything, "a@x.com", "alice").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	svc := NewAuthService(mockRepo, auth.NewTokenService("test-secret", 0))

	_, user, err := svc.Register(context.Background(), "  alice  ", " A@X.com ", "secret1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcryptCost)
	existing := &model.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: string(hashed),
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "a@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(existing, nil)
			},
			expectedError: nil,
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(existing, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, auth.NewTokenService("test-secret", 0))
			token, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				// Same error value, and so the same message, for both an
				// unknown email and a wrong password.
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, existing.Email, user.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_VerifyToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", 0)
	userID := uuid.New()
	token, err := tokens.Generate(userID)
	assert.NoError(t, err)

	t.Run("valid token resolves to user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Username: "alice"}, nil)

		svc := NewAuthService(mockRepo, tokens)
		user, err := svc.VerifyToken(context.Background(), token)
		assert.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("token for a deleted user is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewAuthService(mockRepo, tokens)
		_, err := svc.VerifyToken(context.Background(), token)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), tokens)
		_, err := svc.VerifyToken(context.Background(), "garbage")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("token signed with a different key is rejected", func(t *testing.T) {
		other, err := auth.NewTokenService("other-secret", 0).Generate(userID)
		assert.NoError(t, err)

		svc := NewAuthService(new(MockUserRepository), tokens)
		_, err = svc.VerifyToken(context.Background(), other)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}
