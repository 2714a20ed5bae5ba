// Package reconcile decides when a stored consent cookie no longer matches the
// groups a website offers, forcing the modal open again.
package reconcile

import (
	"slices"
	"strings"

	"consentry/internal/consent/models"
)

// NeedsReconsent reports whether the set of consentable group slugs differs
// from the set of slugs recorded in the cookie. Statuses are irrelevant: a
// user who rejected everything has answered just as fully as one who accepted.
//
// A group added by an admin, a group deactivated or moved to the functional
// category, and a slug that no longer exists all produce a mismatch.
func NeedsReconsent(categories models.Categories, mapping models.Mapping) bool {
	consentable := categories.Consentable()
	offered := make([]string, 0, len(consentable))
	for _, g := range consentable {
		offered = append(offered, g.Slug)
	}
	answered := make([]string, 0, len(mapping))
	for slug := range mapping {
		answered = append(answered, slug)
	}
	return serialize(offered) != serialize(answered)
}

func serialize(slugs []string) string {
	slices.Sort(slugs)
	slugs = slices.Compact(slugs)
	return strings.Join(slugs, "\x00")
}
