package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/db/models"
)

// Seed creates the missing permissions and the built-in admin and editor
// roles. The editor role is realigned with EditorPermissions on every call.
// Seed is idempotent.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		perms := make(map[string]models.Permission, len(Descriptions))

		for _, name := range AllPermissions() {
			p := models.Permission{}
			if err := tx.Where(models.WhereNameIs, name).
				Attrs(models.Permission{Description: Descriptions[name]}).
				FirstOrCreate(&p, models.Permission{Name: name}).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", name, err)
			}

			perms[name] = p
		}

		admin := models.Role{}
		if err := tx.Where(models.WhereNameIs, models.RoleAdmin).
			Attrs(models.Role{Description: "Full access to the back office", IsSystem: true}).
			FirstOrCreate(&admin, models.Role{Name: models.RoleAdmin}).Error; err != nil {
			return fmt.Errorf("seed admin role: %w", err)
		}

		editor := models.Role{}
		if err := tx.Where(models.WhereNameIs, models.RoleEditor).
			Attrs(models.Role{Description: "Manages services, news and the gallery", IsSystem: true}).
			FirstOrCreate(&editor, models.Role{Name: models.RoleEditor}).Error; err != nil {
			return fmt.Errorf("seed editor role: %w", err)
		}

		granted := make([]models.Permission, 0, len(EditorPermissions))
		for _, name := range EditorPermissions {
			granted = append(granted, perms[name])
		}

		if err := tx.Model(&editor).Association("Permissions").Replace(granted); err != nil {
			return fmt.Errorf("seed editor permissions: %w", err)
		}

		return nil
	})
}
