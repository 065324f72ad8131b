package controller

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gartstein/companyemployees/internal/company/auth"
	dbm "github.com/gartstein/companyemployees/internal/company/db/models"
	e "github.com/gartstein/companyemployees/internal/company/errors"
	"github.com/gartstein/companyemployees/internal/company/events"
	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockUserRepository implements the UserRepository interface for testing
type MockUserRepository struct {
	createUser         func(context.Context, *dbm.User, []string) error
	getUserByUserName  func(context.Context, string) (*dbm.User, error)
	updateRefreshToken func(context.Context, *dbm.User, string, time.Time) error
}

func (m *MockUserRepository) CreateUser(ctx context.Context, u *dbm.User, roles []string) error {
	return m.createUser(ctx, u, roles)
}

func (m *MockUserRepository) GetUserByUserName(ctx context.Context, name string) (*dbm.User, error) {
	return m.getUserByUserName(ctx, name)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, u *dbm.User, token string, expiry time.Time) error {
	if m.updateRefreshToken != nil {
		return m.updateRefreshToken(ctx, u, token, expiry)
	}
	u.RefreshToken = token
	u.RefreshTokenExpiryTime = expiry
	return nil
}

func newTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(auth.Config{
		Secret:   "controller-test-secret",
		Issuer:   "CompanyEmployeesAPI",
		Audience: "https://localhost:5001",
		Expires:  time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return tm
}

func registration() *models.UserForRegistrationDto {
	return &models.UserForRegistrationDto{
		FirstName: "John",
		LastName:  "Doe",
		UserName:  "JDoe",
		Password:  "Password1000",
		Email:     "jdoe@example.com",
		Roles:     []string{"Manager"},
	}
}

func TestAuthenticationService_RegisterUser(t *testing.T) {
	tests := []struct {
		name          string
		input         func() *models.UserForRegistrationDto
		createErr     error
		expectedError error
		wantFields    []string
	}{
		{
			name:  "registered",
			input: registration,
		},
		{
			name: "weak password",
			input: func() *models.UserForRegistrationDto {
				dto := registration()
				dto.Password = "short"
				return dto
			},
			expectedError: e.ErrValidation,
			wantFields:    []string{"password"},
		},
		{
			name: "password longer than bcrypt accepts",
			input: func() *models.UserForRegistrationDto {
				dto := registration()
				dto.Password = strings.Repeat("Password10", 8) + "!"
				return dto
			},
			expectedError: e.ErrValidation,
			wantFields:    []string{"password"},
		},
		{
			name: "invalid email and weak password together",
			input: func() *models.UserForRegistrationDto {
				dto := registration()
				dto.Email = "not-an-email"
				dto.Password = "longbutnodigits"
				return dto
			},
			expectedError: e.ErrValidation,
			wantFields:    []string{"email", "password"},
		},
		{
			name:          "duplicate email",
			input:         registration,
			createErr:     e.ErrDuplicate,
			expectedError: e.ErrDuplicate,
		},
		{
			name:          "unknown role",
			input:         registration,
			createErr:     e.ErrInvalidInput,
			expectedError: e.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored *dbm.User
			users := &MockUserRepository{
				createUser: func(_ context.Context, u *dbm.User, roles []string) error {
					if tt.createErr != nil {
						return tt.createErr
					}
					if len(roles) != 1 || roles[0] != "Manager" {
						return errors.New("roles not passed through")
					}
					stored = u
					return nil
				},
			}
			mockProducer := &MockProducer{}
			if tt.expectedError == nil {
				mockProducer.expect(1)
			}
			service := NewAuthenticationService(users, newTokenManager(t), mockProducer, zaptest.NewLogger(t))

			err := service.RegisterUser(context.Background(), tt.input())
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				var verr *e.ValidationError
				if errors.As(err, &verr) {
					for _, f := range tt.wantFields {
						if _, ok := verr.Fields[f]; !ok {
							t.Errorf("expected %s to be reported, got %v", f, verr.Fields)
						}
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored.PasswordHash == "" || stored.PasswordHash == "Password1000" {
				t.Error("password must be stored hashed")
			}
			if !auth.CheckPassword(stored.PasswordHash, "Password1000") {
				t.Error("stored hash does not match password")
			}
			if produced := mockProducer.wait(t); produced[0].Type != events.UserRegistered {
				t.Errorf("expected registration event, got %v", produced[0].Type)
			}
		})
	}
}

func TestAuthenticationService_ValidateUser(t *testing.T) {
	hash, err := auth.HashPassword("Password1000")
	if err != nil {
		t.Fatal(err)
	}
	user := &dbm.User{ID: uuid.New(), UserName: "JDoe", PasswordHash: hash}

	users := &MockUserRepository{
		getUserByUserName: func(_ context.Context, name string) (*dbm.User, error) {
			if name == "JDoe" {
				return user, nil
			}
			return nil, e.ErrNotFound
		},
	}

	core, recorded := observer.New(zap.WarnLevel)
	service := NewAuthenticationService(users, newTokenManager(t), &MockProducer{}, zap.New(core))

	got, err := service.ValidateUser(context.Background(), &models.UserForAuthenticationDto{UserName: "JDoe", Password: "Password1000"})
	if err != nil || got.ID != user.ID {
		t.Fatalf("expected valid user, got %v, %v", got, err)
	}

	_, err = service.ValidateUser(context.Background(), &models.UserForAuthenticationDto{UserName: "JDoe", Password: "wrong"})
	if !errors.Is(err, e.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	_, err = service.ValidateUser(context.Background(), &models.UserForAuthenticationDto{UserName: "nobody", Password: "Password1000"})
	if !errors.Is(err, e.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if n := recorded.FilterMessage("Authentication failed. Wrong user name or password.").Len(); n != 2 {
		t.Errorf("expected 2 warnings, got %d", n)
	}
}

func TestAuthenticationService_TokenLifecycle(t *testing.T) {
	tm := newTokenManager(t)
	user := &dbm.User{
		ID:       uuid.New(),
		UserName: "JDoe",
		Roles:    []dbm.Role{{Name: dbm.RoleManager}},
	}
	users := &MockUserRepository{
		getUserByUserName: func(_ context.Context, _ string) (*dbm.User, error) {
			return user, nil
		},
	}
	service := NewAuthenticationService(users, tm, &MockProducer{}, zaptest.NewLogger(t))

	first, err := service.CreateToken(context.Background(), user, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := tm.ValidateToken(first.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if !claims.HasAnyRole(dbm.RoleManager) {
		t.Errorf("expected Manager role in token, got %v", claims.Roles)
	}
	expiry := user.RefreshTokenExpiryTime
	if time.Until(expiry) < 6*24*time.Hour {
		t.Errorf("expected refresh expiry about a week out, got %v", expiry)
	}

	second, err := service.RefreshToken(context.Background(), first)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token must rotate")
	}
	if !user.RefreshTokenExpiryTime.Equal(expiry) {
		t.Error("refresh must keep the stored expiry")
	}

	// The first refresh token has been rotated away.
	if _, err := service.RefreshToken(context.Background(), first); !errors.Is(err, e.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for stale refresh token, got %v", err)
	}

	user.RefreshTokenExpiryTime = time.Now().Add(-time.Minute)
	if _, err := service.RefreshToken(context.Background(), second); !errors.Is(err, e.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for expired refresh token, got %v", err)
	}

	if _, err := service.RefreshToken(context.Background(), &models.TokenDto{AccessToken: "garbage", RefreshToken: "x"}); !errors.Is(err, e.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for malformed token, got %v", err)
	}
}
