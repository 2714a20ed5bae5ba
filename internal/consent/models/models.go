package models

import (
	"strings"

	id "consentry/pkg/domain"
)

// FunctionalCategory is the reserved category slug whose groups are mandatory
// and never asked about.
const FunctionalCategory = "functional"

// Group is the unit of consent: one tracker or embedded service.
type Group struct {
	ID                   id.GroupID    `json:"id" yaml:"-"`
	CategoryID           id.CategoryID `json:"category_id" yaml:"-"`
	Slug                 string        `json:"slug" yaml:"slug"`
	Title                string        `json:"title" yaml:"title"`
	Description          string        `json:"description" yaml:"description"`
	Active               bool          `json:"active" yaml:"active"`
	Anonymize            bool          `json:"anonymize" yaml:"anonymize"`
	ScriptInHead         bool          `json:"script_in_head" yaml:"script_in_head"`
	Script               string        `json:"script" yaml:"script"`
	Service              string        `json:"service,omitempty" yaml:"service"`
	Prototype            string        `json:"prototype,omitempty" yaml:"prototype"`
	PrototypePlaceholder string        `json:"prototype_placeholder,omitempty" yaml:"prototype_placeholder"`
	Reload               bool          `json:"reload" yaml:"reload"`
	CookieCodes          []string      `json:"cookie_codes" yaml:"cookie_codes"`
	Position             int           `json:"position" yaml:"position"`
}

// MatchesCookie reports whether a browser cookie name contains one of the group's
// cookie codes. Plain substring matching: "_ga" also matches "_gat_UA-1".
func (g Group) MatchesCookie(name string) bool {
	for _, code := range g.CookieCodes {
		if code != "" && strings.Contains(name, code) {
			return true
		}
	}
	return false
}

// Category groups consent groups in the modal. Scoped to a website and locale.
type Category struct {
	ID          id.CategoryID `json:"id" yaml:"-"`
	WebsiteID   id.WebsiteID  `json:"website_id" yaml:"-"`
	Locale      string        `json:"locale" yaml:"locale"`
	Slug        string        `json:"slug" yaml:"slug"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Position    int           `json:"position" yaml:"position"`
	Groups      []Group       `json:"groups" yaml:"groups"`
}

func (c Category) IsFunctional() bool {
	return c.Slug == FunctionalCategory
}

// Categories is the ordered registry of one website and locale.
type Categories []Category

// Consentable returns the active groups outside the functional category, in
// category then group order. These are the groups a user decides about.
func (cs Categories) Consentable() []Group {
	var out []Group
	for _, c := range cs {
		if c.IsFunctional() {
			continue
		}
		for _, g := range c.Groups {
			if g.Active {
				out = append(out, g)
			}
		}
	}
	return out
}

// FindGroup looks a group up by slug across all categories.
func (cs Categories) FindGroup(slug string) (Group, Category, bool) {
	for _, c := range cs {
		for _, g := range c.Groups {
			if g.Slug == slug {
				return g, c, true
			}
		}
	}
	return Group{}, Category{}, false
}

// Clone deep-copies the registry so callers may not mutate cached state.
func (cs Categories) Clone() Categories {
	if cs == nil {
		return nil
	}
	out := make(Categories, len(cs))
	for i, c := range cs {
		groups := make([]Group, len(c.Groups))
		for j, g := range c.Groups {
			g.CookieCodes = append([]string(nil), g.CookieCodes...)
			groups[j] = g
		}
		c.Groups = groups
		out[i] = c
	}
	return out
}
