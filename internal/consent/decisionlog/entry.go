package decisionlog

import (
	"context"
	"strings"

	"github.com/mssola/useragent"

	"consentry/internal/consent/models"
	"consentry/internal/platform/privacy"
	id "consentry/pkg/domain"
	"consentry/pkg/requestcontext"
)

// NewEntry builds an entry from the request context. The client IP is reduced
// to its network prefix and the User-Agent to a browser/OS summary.
func NewEntry(ctx context.Context, websiteID id.WebsiteID, action models.Action, record string, haveDenied bool, locale string) models.DecisionLogEntry {
	return models.DecisionLogEntry{
		ID:             id.NewDecisionID(),
		WebsiteID:      websiteID,
		Action:         action,
		Record:         record,
		HaveDenied:     haveDenied,
		ClientIPPrefix: privacy.AnonymizeIP(requestcontext.ClientIP(ctx)),
		UserAgent:      SummarizeUserAgent(requestcontext.UserAgent(ctx)),
		Locale:         locale,
		CreatedAt:      requestcontext.Now(ctx),
	}
}

// SummarizeUserAgent returns "browser major/os/platform", e.g. "chrome 120/windows 10/desktop".
func SummarizeUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	ua := useragent.New(raw)
	browser, version := ua.Browser()
	browser = strings.ToLower(strings.TrimSpace(browser))
	if browser == "" {
		browser = "unknown"
	}
	if major, _, _ := strings.Cut(version, "."); major != "" {
		browser += " " + major
	}
	os := strings.ToLower(strings.TrimSpace(ua.OS()))
	if os == "" {
		os = "unknown"
	}
	platform := "desktop"
	if ua.Bot() {
		platform = "bot"
	} else if ua.Mobile() {
		platform = "mobile"
	}
	return browser + "/" + os + "/" + platform
}
