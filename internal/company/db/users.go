package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gartstein/companyemployees/internal/company/db/models"
	e "github.com/gartstein/companyemployees/internal/company/errors"
)

// CreateUser stores the user and links it to the named roles. Unknown role
// names fail the whole insert.
func (r *Repository) CreateUser(ctx context.Context, user *models.User, roleNames []string) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.ensureUnique(ctx, user); err != nil {
			return err
		}

		roles, err := tx.rolesByName(ctx, roleNames)
		if err != nil {
			return err
		}
		user.Roles = roles
		return tx.db.WithContext(ctx).Create(user).Error
	})
}

func (r *Repository) ensureUnique(ctx context.Context, user *models.User) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(user_name) = ?", strings.ToLower(user.UserName)).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: username '%s' is already taken", e.ErrDuplicate, user.UserName)
	}

	err = r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(email) = ?", strings.ToLower(user.Email)).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: email '%s' is already taken", e.ErrDuplicate, user.Email)
	}
	return nil
}

func (r *Repository) rolesByName(ctx context.Context, names []string) ([]models.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		normalized = append(normalized, strings.ToUpper(strings.TrimSpace(n)))
	}

	var roles []models.Role
	if err := r.db.WithContext(ctx).Where("normalized_name IN ?", normalized).Find(&roles).Error; err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(roles))
	for _, role := range roles {
		found[role.NormalizedName] = true
	}
	for i, n := range normalized {
		if !found[n] {
			return nil, fmt.Errorf("%w: role '%s' does not exist", e.ErrInvalidInput, names[i])
		}
	}
	return roles, nil
}

// GetUserByUserName loads a user with its roles.
func (r *Repository) GetUserByUserName(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).
		Preload("Roles").
		First(&user, "LOWER(user_name) = ?", strings.ToLower(userName))
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &user, nil
}

// UpdateRefreshToken stores a new refresh token and its expiry for the user.
func (r *Repository) UpdateRefreshToken(ctx context.Context, user *models.User, token string, expiry time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"refresh_token":             token,
			"refresh_token_expiry_time": expiry,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	user.RefreshToken = token
	user.RefreshTokenExpiryTime = expiry
	return nil
}
