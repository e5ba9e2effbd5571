package auth

import "sort"

// Permission constants define the available permissions in the system.
// Each one grants the management of one content family of the back office.
const (
	// PermManageServices allows managing the services section.
	PermManageServices = "manage_services"
	// PermManageNews allows managing news items.
	PermManageNews = "manage_news"
	// PermManageTeam allows managing team members.
	PermManageTeam = "manage_team"
	// PermManageHero allows managing the homepage carousel.
	PermManageHero = "manage_hero"
	// PermManageBible allows managing bible verses.
	PermManageBible = "manage_bible"
	// PermManageGallery allows managing the gallery.
	PermManageGallery = "manage_gallery"
	// PermManageUsers allows managing back office accounts.
	PermManageUsers = "manage_users"
	// PermManageSettings allows editing the site settings.
	PermManageSettings = "manage_settings"
)

// Content families of the back office.
const (
	FamilyServices = "services"
	FamilyNews     = "news"
	FamilyTeam     = "team"
	FamilyHero     = "hero"
	FamilyBible    = "bible"
	FamilyGallery  = "gallery"
	FamilyUsers    = "users"
	FamilySettings = "settings"
)

// Families maps every family to the permission guarding it.
var Families = map[string]string{ //nolint:gochecknoglobals
	FamilyServices: PermManageServices,
	FamilyNews:     PermManageNews,
	FamilyTeam:     PermManageTeam,
	FamilyHero:     PermManageHero,
	FamilyBible:    PermManageBible,
	FamilyGallery:  PermManageGallery,
	FamilyUsers:    PermManageUsers,
	FamilySettings: PermManageSettings,
}

// Descriptions documents each permission, used when seeding.
var Descriptions = map[string]string{ //nolint:gochecknoglobals
	PermManageServices: "Create, edit and delete services",
	PermManageNews:     "Create, edit and delete news items",
	PermManageTeam:     "Create, edit and delete team members",
	PermManageHero:     "Create, edit and delete homepage slides",
	PermManageBible:    "Create, edit and delete bible verses",
	PermManageGallery:  "Create, edit and delete gallery images",
	PermManageUsers:    "Create, edit and delete back office accounts",
	PermManageSettings: "Edit the site settings",
}

// EditorPermissions are granted to the built-in editor role.
var EditorPermissions = []string{PermManageServices, PermManageNews, PermManageGallery} //nolint:gochecknoglobals

// PermissionFor returns the permission of family.
func PermissionFor(family string) (string, bool) {
	p, ok := Families[family]
	return p, ok
}

// FamiliesOf tells for every family whether perms grant access to it.
func FamiliesOf(perms []string) map[string]bool {
	held := make(map[string]bool, len(perms))
	for _, p := range perms {
		held[p] = true
	}

	families := make(map[string]bool, len(Families))
	for family, perm := range Families {
		families[family] = held[perm]
	}

	return families
}

// AllPermissions returns every permission name, sorted.
func AllPermissions() []string {
	out := make([]string, 0, len(Descriptions))
	for p := range Descriptions {
		out = append(out, p)
	}

	sort.Strings(out)

	return out
}
