package auth

import (
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/db/models"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// IsAdmin reports whether the user holds the admin role.
func (s *Service) IsAdmin(userID uint64) (bool, error) {
	var count int64

	err := s.db.Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND roles.name = ?", userID, models.RoleAdmin).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check admin role: %w", err)
	}

	return count > 0, nil
}

// HasPermission checks if a user has a specific permission.
// The admin role holds every permission. Otherwise the permission must be
// granted by one of the user's roles or directly to the user.
func (s *Service) HasPermission(userID uint64, permission string) (bool, error) {
	admin, err := s.IsAdmin(userID)
	if err != nil || admin {
		return admin, err
	}

	var count int64

	// Check permissions from the user's roles
	err = s.db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ? AND permissions.name = ?", userID, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role permission: %w", err)
	}

	if count > 0 {
		return true, nil
	}

	// Check permissions granted directly
	err = s.db.Table("permissions").
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ? AND permissions.name = ?", userID, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check direct permission: %w", err)
	}

	return count > 0, nil
}

// GetUserPermissions retrieves all permissions of a user, sorted.
func (s *Service) GetUserPermissions(userID uint64) ([]string, error) {
	admin, err := s.IsAdmin(userID)
	if err != nil {
		return nil, err
	}

	if admin {
		var all []string
		if err = s.db.Model(&models.Permission{}).Order("name").Pluck("name", &all).Error; err != nil {
			return nil, fmt.Errorf("failed to list permissions: %w", err)
		}

		return all, nil
	}

	var rolePermissions []string

	err = s.db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Pluck("permissions.name", &rolePermissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}

	var directPermissions []string

	err = s.db.Table("permissions").
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Pluck("permissions.name", &directPermissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get direct permissions: %w", err)
	}

	// Merge and deduplicate permissions
	permMap := make(map[string]bool)
	for _, perm := range append(rolePermissions, directPermissions...) {
		permMap[perm] = true
	}

	result := make([]string, 0, len(permMap))
	for perm := range permMap {
		result = append(result, perm)
	}

	sort.Strings(result)

	return result, nil
}

// ListRoles returns every role ordered by name.
func (s *Service) ListRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}

// ListPermissions returns every permission ordered by name.
func (s *Service) ListPermissions() ([]models.Permission, error) {
	var perms []models.Permission
	if err := s.db.Order("name").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	return perms, nil
}

// RolesByName loads the named roles. Unknown names yield ErrUnknownRole.
func (s *Service) RolesByName(names []string) ([]models.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var roles []models.Role
	if err := s.db.Where("name IN ?", names).Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	if len(roles) != len(dedupe(names)) {
		return nil, ErrUnknownRole
	}

	return roles, nil
}

// PermissionsByName loads the named permissions. Unknown names yield ErrUnknownPermission.
func (s *Service) PermissionsByName(names []string) ([]models.Permission, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var perms []models.Permission
	if err := s.db.Where("name IN ?", names).Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}

	if len(perms) != len(dedupe(names)) {
		return nil, ErrUnknownPermission
	}

	return perms, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))

	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}
