// Package navigation provides utilities for managing navigation state, breadcrumbs
// and the back office menu.
package navigation

import (
	"github.com/ecc24clmk/clmk-site/internal/auth"
)

// Sections of the back office.
const (
	SectionDashboard = "dashboard"
	SectionContent   = "content"
	SectionAdmin     = "admin"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// MenuItem is one entry of the back office sidebar.
type MenuItem struct {
	Title   string
	URL     string
	Section string
	Page    string // family name, matched against Context.ActivePage
}

// menu lists the family pages in sidebar order.
var menu = []MenuItem{ //nolint:gochecknoglobals
	{"Hero slides", "/admin/hero-slides", SectionContent, auth.FamilyHero},
	{"Bible verses", "/admin/bible-verses", SectionContent, auth.FamilyBible},
	{"Team", "/admin/team", SectionContent, auth.FamilyTeam},
	{"News", "/admin/news", SectionContent, auth.FamilyNews},
	{"Services", "/admin/services", SectionContent, auth.FamilyServices},
	{"Gallery", "/admin/gallery", SectionContent, auth.FamilyGallery},
	{"Users", "/admin/users", SectionAdmin, auth.FamilyUsers},
	{"Settings", "/admin/settings", SectionAdmin, auth.FamilySettings},
}

// Menu returns the entries whose family is set in families. Families the
// user cannot manage are not listed.
func Menu(families map[string]bool) []MenuItem {
	out := make([]MenuItem, 0, len(menu))

	for _, item := range menu {
		if families[item.Page] {
			out = append(out, item)
		}
	}

	return out
}

// Admin returns a context for a back office page with the dashboard as
// first breadcrumb.
func Admin(pageTitle, section, page string) *Context {
	return NewContext(pageTitle, section, page).
		AddBreadcrumb("Dashboard", "/admin/dashboard", false)
}
