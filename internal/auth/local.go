package auth

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ecc24clmk/clmk-site/internal/db/models"
)

// LocalProvider handles local database authentication and the accounts
// managed from the back office.
type LocalProvider struct {
	db *gorm.DB
}

const (
	whereEmail = "email = ?"
)

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user against the local database.
func (p *LocalProvider) Authenticate(email, password string) (*models.User, error) {
	var user models.User

	err := p.db.Where(whereEmail, normalizeEmail(email)).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return &user, nil
}

// UserInput holds the fields of the user form. An empty Password keeps the
// current one on update. A nil Permissions keeps the direct grants, an empty
// one revokes them.
type UserInput struct {
	Name        string
	Email       string
	Password    string
	Roles       []models.Role
	Permissions []models.Permission
}

// CreateUser creates a new local user.
func (p *LocalProvider) CreateUser(in UserInput) (*models.User, error) {
	email := normalizeEmail(in.Email)

	if err := p.emailFree(email, 0); err != nil {
		return nil, err
	}

	user := models.User{
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Password:    models.HashPassword(in.Password),
		Roles:       in.Roles,
		Permissions: in.Permissions,
	}

	if err := p.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// UpdateUser updates an existing local user and syncs its roles and grants.
func (p *LocalProvider) UpdateUser(userID uint64, in UserInput) (*models.User, error) {
	user, err := p.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	if err = p.emailFree(email, userID); err != nil {
		return nil, err
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		user.Name = strings.TrimSpace(in.Name)
		user.Email = email

		if in.Password != "" {
			user.Password = models.HashPassword(in.Password)
		}

		if errTx := tx.Omit(clause.Associations).Save(user).Error; errTx != nil {
			return errTx
		}

		if errTx := tx.Model(user).Association("Roles").Replace(in.Roles); errTx != nil {
			return errTx
		}

		switch {
		case in.Permissions == nil:
			return nil
		case len(in.Permissions) == 0:
			return tx.Model(user).Association("Permissions").Clear()
		default:
			return tx.Model(user).Association("Permissions").Replace(in.Permissions)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return p.GetUserByID(userID)
}

// DeleteUser deletes targetID on behalf of actorID. Deleting oneself is refused.
func (p *LocalProvider) DeleteUser(actorID, targetID uint64) error {
	if actorID == targetID {
		return ErrSelfDelete
	}

	user, err := p.GetUserByID(targetID)
	if err != nil {
		return err
	}

	if err = p.db.Select(clause.Associations).Delete(user).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user with its roles and direct permissions.
func (p *LocalProvider) GetUserByID(userID uint64) (*models.User, error) {
	var user models.User

	err := p.db.Preload("Roles").Preload("Permissions").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// ListUsers lists all users by name with their roles.
func (p *LocalProvider) ListUsers() ([]models.User, error) {
	var users []models.User

	if err := p.db.Preload("Roles").Order("name, id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// CountUsers returns the number of accounts.
func (p *LocalProvider) CountUsers() (int64, error) {
	var n int64
	if err := p.db.Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return n, nil
}

func (p *LocalProvider) emailFree(email string, exceptID uint64) error {
	var existing models.User

	err := p.db.Where(whereEmail, email).First(&existing).Error
	if err == nil && existing.ID != exceptID {
		return ErrUserEmailExists
	}

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
