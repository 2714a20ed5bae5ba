package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"consentry/internal/consent/codec"
	"consentry/internal/consent/models"
	"consentry/internal/consent/service"
	websitemw "consentry/internal/website/middleware"
	dErrors "consentry/pkg/domain-errors"
	"consentry/pkg/platform/httputil"
	pvalidation "consentry/pkg/platform/validation"
	"consentry/pkg/requestcontext"
	"consentry/pkg/validation"
)

// localeParam selects the registry locale; every other scripts query
// parameter is a pending decision.
const localeParam = "locale"

// Service defines the consent operations behind the HTTP endpoints.
type Service interface {
	Scripts(ctx context.Context, req service.ScriptsRequest) (*service.ScriptsResult, error)
	Modal(ctx context.Context, v service.Visitor, record models.Record) (string, error)
	CookiesForGroup(ctx context.Context, v service.Visitor, slug string) ([]string, error)
	AcceptAll(ctx context.Context, v service.Visitor) (*models.Outcome, error)
	RejectAll(ctx context.Context, v service.Visitor) (*models.Outcome, error)
	Save(ctx context.Context, v service.Visitor, form models.Record) (*models.Outcome, error)
	ToggleService(ctx context.Context, v service.Visitor, stored models.Record, slug string, status bool) (*models.Outcome, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// Handler serves the consent endpoints of the website resolved for the request.
type Handler struct {
	consent Service
	cookies *codec.Codec
	logger  *slog.Logger
}

func New(consent Service, cookies *codec.Codec, logger *slog.Logger) *Handler {
	return &Handler{consent: consent, cookies: cookies, logger: logger}
}

// Register mounts the visitor-facing routes. The router must run the website
// resolution middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/consent/scripts", h.HandleScripts)
	r.Get("/consent/modal", h.HandleModal)
	r.Get("/consent/cookies/{slug}", h.HandleGroupCookies)
	r.Post("/consent/accept-all", h.HandleAcceptAll)
	r.Post("/consent/reject-all", h.HandleRejectAll)
	r.Post("/consent/save", h.HandleSave)
	r.Post("/consent/services/{slug}", h.HandleToggleService)
}

// RegisterAdmin mounts maintenance routes. The router must enforce the admin token.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/consent/data/expired", h.HandlePurgeExpired)
	r.Delete("/consent/data/expired", h.HandlePurgeExpired)
}

func (h *Handler) HandleScripts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, ok := h.visitor(w, r)
	if !ok {
		return
	}
	pending, err := pendingDecisions(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	_, record, haveCookies := h.cookies.FromRequest(r)

	res, err := h.consent.Scripts(ctx, service.ScriptsRequest{
		Visitor:     v,
		Record:      record,
		HaveCookies: haveCookies,
		Pending:     pending,
	})
	if err != nil {
		h.fail(ctx, w, "failed to resolve consent scripts", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toScriptsResponse(res))
}

func (h *Handler) HandleModal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, ok := h.visitor(w, r)
	if !ok {
		return
	}
	_, record, _ := h.cookies.FromRequest(r)

	html, err := h.consent.Modal(ctx, v, record)
	if err != nil {
		h.fail(ctx, w, "failed to render consent modal", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ModalResponse{HTML: html})
}

func (h *Handler) HandleGroupCookies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, ok := h.visitor(w, r)
	if !ok {
		return
	}
	slug, err := slugParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	names, err := h.consent.CookiesForGroup(ctx, v, slug)
	if err != nil {
		h.fail(ctx, w, "failed to list group cookies", err)
		return
	}
	for _, name := range names {
		http.SetCookie(w, h.cookies.Expire(name))
	}
	if names == nil {
		names = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, GroupCookiesResponse{Slug: slug, Cookies: names})
}

func (h *Handler) HandleAcceptAll(w http.ResponseWriter, r *http.Request) {
	v, ok := h.visitor(w, r)
	if !ok {
		return
	}
	out, err := h.consent.AcceptAll(r.Context(), v)
	h.respondDecision(w, r, out, err)
}

func (h *Handler) HandleRejectAll(w http.ResponseWriter, r *http.Request) {
	v, ok := h.visitor(w, r)
	if !ok {
		return
	}
	out, err := h.consent.RejectAll(r.Context(), v)
	h.respondDecision(w, r, out, err)
}

func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, ok := h.visitor(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.SaveRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	out, err := h.consent.Save(ctx, v, req.Record())
	h.respondDecision(w, r, out, err)
}

func (h *Handler) HandleToggleService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, ok := h.visitor(w, r)
	if !ok {
		return
	}
	slug, err := slugParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeJSON[models.ToggleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	_, stored, _ := h.cookies.FromRequest(r)

	out, err := h.consent.ToggleService(ctx, v, stored, slug, req.Enabled())
	h.respondDecision(w, r, out, err)
}

func (h *Handler) HandlePurgeExpired(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deleted, err := h.consent.PurgeExpired(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to purge decision log", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PurgeResponse{Deleted: deleted})
}

// respondDecision writes the new consent cookie, expires denied trackers'
// cookies and returns the outcome.
func (h *Handler) respondDecision(w http.ResponseWriter, r *http.Request, out *models.Outcome, err error) {
	ctx := r.Context()
	if err != nil {
		h.fail(ctx, w, "failed to record consent decision", err)
		return
	}
	if err := h.cookies.Write(w, out.Record); err != nil {
		h.fail(ctx, w, "failed to write consent cookie", err)
		return
	}
	for _, name := range out.ExpiredCookies {
		http.SetCookie(w, h.cookies.Expire(name))
	}
	httputil.WriteJSON(w, http.StatusOK, toDecisionResponse(out))
}

// visitor builds the service view of the request. The website middleware
// guarantees a website on mounted routes.
func (h *Handler) visitor(w http.ResponseWriter, r *http.Request) (service.Visitor, bool) {
	site := websitemw.FromContext(r.Context())
	if site == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnknownWebsite, "no website configured for this host"))
		return service.Visitor{}, false
	}
	locale := strings.TrimSpace(r.URL.Query().Get(localeParam))
	if err := pvalidation.CheckStringLength(localeParam, locale, pvalidation.MaxLocaleLength); err != nil {
		httputil.WriteError(w, err)
		return service.Visitor{}, false
	}

	var names []string
	for _, c := range r.Cookies() {
		if c.Name != h.cookies.Name() {
			names = append(names, c.Name)
		}
	}
	return service.Visitor{
		Website: site,
		Locale:  site.ResolveLocale(locale),
		Cookies: names,
	}, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}

// pendingDecisions reads the not-yet-saved form values sent with the scripts
// request. Only the first value of each parameter counts.
func pendingDecisions(r *http.Request) (models.Pending, error) {
	query := r.URL.Query()
	pending := make(models.Pending, len(query))
	for key, values := range query {
		if key == localeParam || len(values) == 0 {
			continue
		}
		pending[key] = values[0]
	}
	if err := pvalidation.CheckSliceCount("pending decisions", len(pending), pvalidation.MaxPendingDecisions); err != nil {
		return nil, err
	}
	return pending, nil
}

func slugParam(r *http.Request) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "slug")))
	if err := pvalidation.CheckStringLength("slug", slug, pvalidation.MaxSlugLength); err != nil {
		return "", err
	}
	if !validation.IsSlug(slug) {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid group slug")
	}
	return slug, nil
}
