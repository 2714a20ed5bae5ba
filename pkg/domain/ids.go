// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "consentry/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a GroupID where a WebsiteID is expected.
type (
	WebsiteID  uuid.UUID
	CategoryID uuid.UUID
	GroupID    uuid.UUID
	DecisionID uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, fixtures, API inputs).

func ParseWebsiteID(s string) (WebsiteID, error) {
	id, err := parseUUID(s, "website ID")
	return WebsiteID(id), err
}

func ParseCategoryID(s string) (CategoryID, error) {
	id, err := parseUUID(s, "category ID")
	return CategoryID(id), err
}

func ParseGroupID(s string) (GroupID, error) {
	id, err := parseUUID(s, "group ID")
	return GroupID(id), err
}

func NewWebsiteID() WebsiteID   { return WebsiteID(uuid.New()) }
func NewCategoryID() CategoryID { return CategoryID(uuid.New()) }
func NewGroupID() GroupID       { return GroupID(uuid.New()) }
func NewDecisionID() DecisionID { return DecisionID(uuid.New()) }

func (id WebsiteID) String() string  { return uuid.UUID(id).String() }
func (id CategoryID) String() string { return uuid.UUID(id).String() }
func (id GroupID) String() string    { return uuid.UUID(id).String() }
func (id DecisionID) String() string { return uuid.UUID(id).String() }

func (id WebsiteID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id CategoryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id GroupID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id DecisionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps ids readable in JSON payloads and log sinks.

func (id WebsiteID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id CategoryID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id GroupID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id DecisionID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *WebsiteID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CategoryID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *GroupID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *DecisionID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return id, nil
}
