package models

import (
	"time"

	id "consentry/pkg/domain"
)

// Action names the mutation recorded in the decision log.
type Action string

const (
	ActionAcceptAll     Action = "accept_all"
	ActionRejectAll     Action = "reject_all"
	ActionSave          Action = "save"
	ActionServiceToggle Action = "service_toggle"
)

// DecisionLogEntry is proof that a visitor made a consent decision. It never
// carries the full client IP or User-Agent.
type DecisionLogEntry struct {
	ID             id.DecisionID `json:"id"`
	WebsiteID      id.WebsiteID  `json:"website_id"`
	Action         Action        `json:"action"`
	Record         string        `json:"record"`
	HaveDenied     bool          `json:"have_denied"`
	ClientIPPrefix string        `json:"client_ip_prefix"`
	UserAgent      string        `json:"user_agent"`
	Locale         string        `json:"locale"`
	CreatedAt      time.Time     `json:"created_at"`
}
