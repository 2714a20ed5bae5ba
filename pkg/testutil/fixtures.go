package testutil

import (
	"time"

	"github.com/google/uuid"

	consentmodels "consentry/internal/consent/models"
	websitemodels "consentry/internal/website/models"
	id "consentry/pkg/domain"
)

// TestWebsiteID is a fixed website id for deterministic fixtures.
var TestWebsiteID = id.WebsiteID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001"))

// NewTestWebsite returns an active website answering on acme.example.
func NewTestWebsite() *websitemodels.Website {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &websitemodels.Website{
		ID:            TestWebsiteID,
		Slug:          "acme",
		Name:          "Acme",
		Hosts:         []string{"acme.example"},
		DefaultLocale: "en",
		Locales:       []string{"en", "de"},
		APIKeys:       map[string]string{"matomo": "7"},
		Status:        websitemodels.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TwoGroupRegistry is the canonical registry used across consent tests: a
// script-less functional session group plus two head-script groups,
// "analytics" (explicit consent only) and "essential-embed" (anonymized,
// embedded service, reloads on toggle).
func TwoGroupRegistry() consentmodels.Categories {
	return consentmodels.Categories{
		{
			Slug:     consentmodels.FunctionalCategory,
			Title:    "Functional",
			Position: 0,
			Groups: []consentmodels.Group{{
				Slug:         "session",
				Title:        "Session",
				Active:       true,
				ScriptInHead: true,
				CookieCodes:  []string{"PHPSESSID"},
			}},
		},
		{
			Slug:     "statistics",
			Title:    "Statistics",
			Position: 1,
			Groups: []consentmodels.Group{{
				Slug:         "analytics",
				Title:        "Analytics",
				Active:       true,
				ScriptInHead: true,
				Script:       "<script>/* analytics */</script>",
				CookieCodes:  []string{"_ga", "_gid"},
			}},
		},
		{
			Slug:     "media",
			Title:    "Media",
			Position: 2,
			Groups: []consentmodels.Group{{
				Slug:                 "essential-embed",
				Title:                "Embedded video",
				Active:               true,
				Anonymize:            true,
				ScriptInHead:         true,
				Script:               "<script>/* embed */</script>",
				Service:              "youtube",
				Prototype:            `<iframe src="https://www.youtube-nocookie.com/embed/x"></iframe>`,
				PrototypePlaceholder: `<button data-consent="essential-embed">Enable video</button>`,
				Reload:               true,
				CookieCodes:          []string{"YSC"},
			}},
		},
	}
}

// WithMarketing appends an active "marketing" group, as an admin would after
// visitors already consented.
func WithMarketing(cats consentmodels.Categories) consentmodels.Categories {
	return append(cats.Clone(), consentmodels.Category{
		Slug:     "marketing",
		Title:    "Marketing",
		Position: 3,
		Groups: []consentmodels.Group{{
			Slug:         "marketing",
			Title:        "Ads",
			Active:       true,
			ScriptInHead: false,
			Script:       "<script>/* pixel */</script>",
			CookieCodes:  []string{"_fbp"},
		}},
	})
}
