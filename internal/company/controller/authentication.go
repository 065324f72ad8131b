package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gartstein/companyemployees/internal/company/auth"
	dbm "github.com/gartstein/companyemployees/internal/company/db/models"
	e "github.com/gartstein/companyemployees/internal/company/errors"
	"github.com/gartstein/companyemployees/internal/company/events"
	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *dbm.User, roleNames []string) error
	GetUserByUserName(ctx context.Context, userName string) (*dbm.User, error)
	UpdateRefreshToken(ctx context.Context, user *dbm.User, token string, expiry time.Time) error
}

// TokenIssuer signs and reads access tokens.
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, userName string, roles []string) (string, error)
	ParseExpiredToken(token string) (*auth.Claims, error)
	RefreshTTL() time.Duration
}

type AuthenticationService struct {
	users    UserRepository
	tokens   TokenIssuer
	policy   auth.PasswordPolicy
	producer EventProducer
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthenticationService(users UserRepository, tokens TokenIssuer, producer EventProducer, logger *zap.Logger) *AuthenticationService {
	return &AuthenticationService{
		users:    users,
		tokens:   tokens,
		policy:   auth.DefaultPasswordPolicy,
		producer: producer,
		logger:   logger.Named("authentication_service"),
		now:      time.Now,
	}
}

// RegisterUser creates an account with the requested roles.
func (s *AuthenticationService) RegisterUser(ctx context.Context, dto *models.UserForRegistrationDto) error {
	if dto == nil {
		return fmt.Errorf("%w: user object is null", e.ErrInvalidInput)
	}

	verr := e.NewValidationError()
	if err := models.Validate(dto); err != nil {
		if !mergeValidation(verr, "", err) {
			return err
		}
	}
	for _, problem := range s.policy.Check(dto.Password) {
		verr.Add("password", problem)
	}
	if !verr.Empty() {
		return verr
	}

	hash, err := auth.HashPassword(dto.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &dbm.User{
		ID:           uuid.New(),
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		UserName:     dto.UserName,
		Email:        dto.Email,
		PhoneNumber:  dto.PhoneNumber,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user, dto.Roles); err != nil {
		if errors.Is(err, e.ErrDuplicate) || errors.Is(err, e.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.Strings("roles", dto.Roles),
	)
	go s.producer.Produce(events.NewEvent(events.UserRegistered, user.ID, uuid.Nil))
	return nil
}

// ValidateUser checks the credentials and returns the matching user.
func (s *AuthenticationService) ValidateUser(ctx context.Context, dto *models.UserForAuthenticationDto) (*dbm.User, error) {
	if dto == nil {
		return nil, fmt.Errorf("%w: user object is null", e.ErrInvalidInput)
	}
	if err := models.Validate(dto); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUserName(ctx, dto.UserName)
	if err != nil && !errors.Is(err, e.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, dto.Password) {
		s.logger.Warn("Authentication failed. Wrong user name or password.",
			zap.String("user_name", dto.UserName),
		)
		return nil, fmt.Errorf("%w: wrong user name or password", e.ErrUnauthorized)
	}
	return user, nil
}

// CreateToken issues an access token and a fresh refresh token. When
// extendExpiry is false the stored refresh token expiry is kept.
func (s *AuthenticationService) CreateToken(ctx context.Context, user *dbm.User, extendExpiry bool) (*models.TokenDto, error) {
	access, err := s.tokens.GenerateToken(user.ID, user.UserName, user.RoleNames())
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiry := user.RefreshTokenExpiryTime
	if extendExpiry {
		expiry = s.now().Add(s.tokens.RefreshTTL())
	}
	if err := s.users.UpdateRefreshToken(ctx, user, refresh, expiry); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenDto{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshToken exchanges a possibly expired access token and its refresh
// token for a new pair.
func (s *AuthenticationService) RefreshToken(ctx context.Context, dto *models.TokenDto) (*models.TokenDto, error) {
	if dto == nil || dto.AccessToken == "" || dto.RefreshToken == "" {
		return nil, fmt.Errorf("%w: invalid client request", e.ErrInvalidInput)
	}

	claims, err := s.tokens.ParseExpiredToken(dto.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid client request: %v", e.ErrInvalidInput, err)
	}

	user, err := s.users.GetUserByUserName(ctx, claims.UserName)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid client request", e.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.RefreshToken != dto.RefreshToken || !user.RefreshTokenExpiryTime.After(s.now()) {
		return nil, fmt.Errorf("%w: invalid client request", e.ErrInvalidInput)
	}

	return s.CreateToken(ctx, user, false)
}
