package models

import (
	"strings"

	pvalidation "consentry/pkg/platform/validation"
	"consentry/pkg/validation"
)

// SaveRequest is the granular consent form.
type SaveRequest struct {
	Groups []Entry `json:"groups" validate:"dive"`
}

func (r *SaveRequest) Normalize() {
	if r == nil {
		return
	}
	for i := range r.Groups {
		r.Groups[i].Slug = strings.ToLower(strings.TrimSpace(r.Groups[i].Slug))
	}
}

func (r *SaveRequest) Validate() error {
	if err := pvalidation.CheckSliceCount("groups", len(r.Groups), pvalidation.MaxGroupsPerDecision); err != nil {
		return err
	}
	return validation.Validate(r)
}

// Record returns the submitted decisions in form order.
func (r *SaveRequest) Record() Record {
	return Record(r.Groups)
}

// ToggleRequest enables or disables one service. A missing status enables it.
type ToggleRequest struct {
	Status *bool `json:"status"`
}

func (r *ToggleRequest) Enabled() bool {
	return r == nil || r.Status == nil || *r.Status
}
