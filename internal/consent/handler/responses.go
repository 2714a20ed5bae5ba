package handler

import (
	"consentry/internal/consent/models"
	"consentry/internal/consent/service"
)

// ScriptsResponse is what the front-end bootstrap injects into the page.
type ScriptsResponse struct {
	HeaderScripts      string         `json:"headerScripts"`
	BodyPrependScripts string         `json:"bodyPrependScripts"`
	BodyAppendScripts  string         `json:"bodyAppendScripts"`
	ReloadModal        bool           `json:"reloadModal"`
	HaveCookies        bool           `json:"haveCookies"`
	Cookies            []models.Entry `json:"cookies"`
	Reload             bool           `json:"reload"`
}

type ModalResponse struct {
	HTML string `json:"html"`
}

// GroupCookiesResponse lists the browser cookies of a group that were expired.
type GroupCookiesResponse struct {
	Slug    string   `json:"slug"`
	Cookies []string `json:"cookies"`
}

// DecisionResponse is returned by every consent mutation.
type DecisionResponse struct {
	Cookies        []models.Entry `json:"cookies"`
	HaveDenied     bool           `json:"haveDenied"`
	Reload         bool           `json:"reload"`
	ExpiredCookies []string       `json:"expiredCookies"`
	Swaps          []SwapResponse `json:"swaps"`
}

type SwapResponse struct {
	Service string `json:"service"`
	Slug    string `json:"slug"`
	Active  bool   `json:"active"`
	Markup  string `json:"markup"`
}

type PurgeResponse struct {
	Deleted int64 `json:"deleted"`
}

func toScriptsResponse(res *service.ScriptsResult) ScriptsResponse {
	return ScriptsResponse{
		HeaderScripts:      res.HeaderScripts,
		BodyPrependScripts: res.BodyPrependScripts,
		BodyAppendScripts:  res.BodyAppendScripts,
		ReloadModal:        res.ReloadModal,
		HaveCookies:        res.HaveCookies,
		Cookies:            nonNil(res.Cookies),
		Reload:             res.Reload,
	}
}

func toDecisionResponse(out *models.Outcome) DecisionResponse {
	swaps := make([]SwapResponse, 0, len(out.Swaps))
	for _, sw := range out.Swaps {
		swaps = append(swaps, SwapResponse(sw))
	}
	expired := out.ExpiredCookies
	if expired == nil {
		expired = []string{}
	}
	return DecisionResponse{
		Cookies:        nonNil(out.Record),
		HaveDenied:     out.HaveDenied,
		Reload:         out.Reload,
		ExpiredCookies: expired,
		Swaps:          swaps,
	}
}

func nonNil(r models.Record) []models.Entry {
	if r == nil {
		return []models.Entry{}
	}
	return r
}
