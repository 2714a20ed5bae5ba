package service

import (
	"bytes"
	"context"
	"log/slog"
	"path"
	"time"

	"consentry/internal/consent/codec"
	"consentry/internal/consent/decisionlog"
	"consentry/internal/consent/metrics"
	"consentry/internal/consent/models"
	"consentry/internal/consent/reconcile"
	"consentry/internal/consent/resolver"
	"consentry/internal/platform/tracer"
	websitemodels "consentry/internal/website/models"
	pkgerrors "consentry/pkg/domain-errors"
	"consentry/pkg/requestcontext"
)

const (
	// DefaultRetention keeps proof of consent for three years.
	DefaultRetention = 3 * 365 * 24 * time.Hour

	modalTemplate = "modal.tmpl"
)

type Option func(*Service)

// Service answers the consent endpoints: it resolves scripts, renders the
// modal and turns visitor decisions into a new consent record.
type Service struct {
	registry  RegistryStore
	resolver  *resolver.Resolver
	codec     *codec.Codec
	templates TemplateSource
	decisions DecisionLog
	purger    DecisionPurger
	retention time.Duration
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
	logger    *slog.Logger
}

func New(registry RegistryStore, res *resolver.Resolver, cookies *codec.Codec, opts ...Option) *Service {
	svc := &Service{
		registry:  registry,
		resolver:  res,
		codec:     cookies,
		retention: DefaultRetention,
		tracer:    tracer.NewNoop(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithTemplates sets where the modal view is looked up.
func WithTemplates(t TemplateSource) Option {
	return func(s *Service) {
		s.templates = t
	}
}

func WithDecisionLog(d DecisionLog) Option {
	return func(s *Service) {
		s.decisions = d
	}
}

// WithRetention enables PurgeExpired. Non-positive periods keep the default.
func WithRetention(purger DecisionPurger, period time.Duration) Option {
	return func(s *Service) {
		s.purger = purger
		if period > 0 {
			s.retention = period
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Visitor identifies who is asking: the website, the resolved locale and the
// names of the browser cookies sent along.
type Visitor struct {
	Website *websitemodels.Website
	Locale  string
	Cookies []string
}

// ScriptsRequest carries the decoded consent cookie and any pending form values.
type ScriptsRequest struct {
	Visitor
	Record      models.Record
	HaveCookies bool
	Pending     models.Pending
}

type ScriptsResult struct {
	HeaderScripts      string
	BodyPrependScripts string
	BodyAppendScripts  string
	ReloadModal        bool
	HaveCookies        bool
	Cookies            models.Record
	Reload             bool
}

// Scripts resolves every injection point and decides whether the modal must
// be shown again.
func (s *Service) Scripts(ctx context.Context, req ScriptsRequest) (*ScriptsResult, error) {
	cats, err := s.load(ctx, req.Visitor)
	if err != nil {
		return nil, err
	}
	mapping := req.Record.Mapping()
	in := resolver.Input{Website: req.Website, Mapping: mapping, Categories: cats, Pending: req.Pending}

	res := &ScriptsResult{
		HaveCookies: req.HaveCookies,
		Cookies:     req.Record,
		ReloadModal: reconcile.NeedsReconsent(cats, mapping),
		Reload:      pendingNeedsReload(cats, mapping, req.Pending),
	}
	if res.Cookies == nil {
		res.Cookies = models.Record{}
	}
	in.Point = models.PointScripts
	res.HeaderScripts = s.resolver.Resolve(ctx, in)
	in.Point = models.PointBodyPrepend
	res.BodyPrependScripts = s.resolver.Resolve(ctx, in)
	in.Point = models.PointBodyAppend
	res.BodyAppendScripts = s.resolver.Resolve(ctx, in)

	s.metrics.IncScriptsServed(req.Website.Slug, res.ReloadModal)
	return res, nil
}

// pendingNeedsReload is true when a pending "on" enables a reload group that
// the stored cookie has not already enabled.
func pendingNeedsReload(cats models.Categories, mapping models.Mapping, pending models.Pending) bool {
	for slug := range pending {
		if !pending.On(slug) || mapping[slug] {
			continue
		}
		if g, _, ok := cats.FindGroup(slug); ok && g.Active && g.Reload {
			return true
		}
	}
	return false
}

// ModalView is the data handed to modal.tmpl.
type ModalView struct {
	Website    *websitemodels.Website
	Locale     string
	Categories []ModalCategory
}

type ModalCategory struct {
	models.Category
	Mandatory bool
	Groups    []ModalGroup
}

type ModalGroup struct {
	models.Group
	Checked  bool
	Disabled bool
}

// Modal renders the consent modal. Functional groups are always checked and
// disabled; the others reflect the stored mapping.
func (s *Service) Modal(ctx context.Context, v Visitor, record models.Record) (string, error) {
	if v.Website == nil {
		return "", pkgerrors.New(pkgerrors.CodeUnknownWebsite, "website not found")
	}
	if s.templates == nil {
		return "", pkgerrors.New(pkgerrors.CodeTemplateMissing, "modal template is not installed")
	}
	tmpl, err := s.templates.HTML(path.Join("websites", v.Website.Slug, modalTemplate), modalTemplate)
	if err != nil {
		s.metrics.IncTemplateError()
		return "", pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to load modal template")
	}
	if tmpl == nil {
		return "", pkgerrors.New(pkgerrors.CodeTemplateMissing, "modal template is not installed")
	}
	cats, err := s.load(ctx, v)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildModalView(v, cats, record.Mapping())); err != nil {
		s.metrics.IncTemplateError()
		s.logger.ErrorContext(ctx, "modal template failed", "error", err, "website", v.Website.Slug)
		return "", pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to render modal")
	}
	return buf.String(), nil
}

func buildModalView(v Visitor, cats models.Categories, mapping models.Mapping) ModalView {
	view := ModalView{Website: v.Website, Locale: v.Locale}
	for _, c := range cats {
		mc := ModalCategory{Category: c, Mandatory: c.IsFunctional()}
		for _, g := range c.Groups {
			if !g.Active {
				continue
			}
			mc.Groups = append(mc.Groups, ModalGroup{
				Group:    g,
				Checked:  mc.Mandatory || mapping[g.Slug],
				Disabled: mc.Mandatory,
			})
		}
		if len(mc.Groups) > 0 {
			view.Categories = append(view.Categories, mc)
		}
	}
	return view
}

// CookiesForGroup returns the browser cookies belonging to the group with
// slug. The caller expires them.
func (s *Service) CookiesForGroup(ctx context.Context, v Visitor, slug string) ([]string, error) {
	cats, err := s.load(ctx, v)
	if err != nil {
		return nil, err
	}
	group, _, ok := cats.FindGroup(slug)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownGroup, "consent group not found")
	}
	matched := matchingCookies(v.Cookies, []models.Group{group})
	s.metrics.AddCookiesExpired(len(matched))
	return matched, nil
}

// AcceptAll consents to every consentable group.
func (s *Service) AcceptAll(ctx context.Context, v Visitor) (*models.Outcome, error) {
	return s.decideAll(ctx, v, true, models.ActionAcceptAll)
}

// RejectAll denies every consentable group. Anonymized groups keep running.
func (s *Service) RejectAll(ctx context.Context, v Visitor) (*models.Outcome, error) {
	return s.decideAll(ctx, v, false, models.ActionRejectAll)
}

func (s *Service) decideAll(ctx context.Context, v Visitor, status bool, action models.Action) (*models.Outcome, error) {
	cats, err := s.load(ctx, v)
	if err != nil {
		return nil, err
	}
	consentable := cats.Consentable()
	record := make(models.Record, 0, len(consentable))
	for _, g := range consentable {
		record = append(record, models.Entry{Slug: g.Slug, Status: status})
	}
	return s.save(ctx, v, cats, record, action)
}

// Save records a granular decision. Slugs the website does not offer are dropped.
func (s *Service) Save(ctx context.Context, v Visitor, form models.Record) (*models.Outcome, error) {
	cats, err := s.load(ctx, v)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, v, cats, form, models.ActionSave)
}

func (s *Service) save(ctx context.Context, v Visitor, cats models.Categories, form models.Record, action models.Action) (*models.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanMutation,
		tracer.String(tracer.AttrWebsite, v.Website.Slug),
		tracer.String(tracer.AttrAction, string(action)),
	)
	defer span.End(nil)

	offered := make(map[string]models.Group)
	for _, g := range cats.Consentable() {
		offered[g.Slug] = g
	}

	var (
		record models.Record
		denied []models.Group
		swaps  []models.Swap
	)
	for _, entry := range form {
		if _, ok := offered[entry.Slug]; !ok {
			continue
		}
		record = record.Set(entry.Slug, entry.Status)
	}
	for _, entry := range record {
		g := offered[entry.Slug]
		if !entry.Status {
			denied = append(denied, g)
		}
		if g.Service != "" {
			swaps = append(swaps, models.NewSwap(g, entry.Status))
		}
	}
	if record == nil {
		record = models.Record{}
	}

	out := &models.Outcome{
		Record:         record,
		HaveDenied:     len(denied) > 0,
		ExpiredCookies: matchingCookies(v.Cookies, denied),
		Swaps:          swaps,
	}
	// Denied scripts that already ran can only be unloaded by a reload.
	out.Reload = out.HaveDenied

	s.finish(ctx, v, action, out)
	return out, nil
}

// ToggleService flips one group inside the stored record, keeping every other
// decision. Functional groups cannot be toggled.
func (s *Service) ToggleService(ctx context.Context, v Visitor, stored models.Record, slug string, status bool) (*models.Outcome, error) {
	cats, err := s.load(ctx, v)
	if err != nil {
		return nil, err
	}
	group, category, ok := cats.FindGroup(slug)
	if !ok || !group.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownGroup, "consent group not found")
	}
	if category.IsFunctional() {
		return nil, pkgerrors.New(pkgerrors.CodeMandatoryGroup, "functional groups cannot be toggled")
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanMutation,
		tracer.String(tracer.AttrWebsite, v.Website.Slug),
		tracer.String(tracer.AttrAction, string(models.ActionServiceToggle)),
	)
	defer span.End(nil)

	record := stored.Set(slug, status)
	out := &models.Outcome{
		Record:     record,
		HaveDenied: record.HasDenied(),
		Reload:     group.Reload,
	}
	if !status {
		out.ExpiredCookies = matchingCookies(v.Cookies, []models.Group{group})
	}
	if group.Service != "" {
		out.Swaps = []models.Swap{models.NewSwap(group, status)}
	}

	s.finish(ctx, v, models.ActionServiceToggle, out)
	return out, nil
}

// PurgeExpired deletes decision log entries older than the retention period.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	if s.purger == nil {
		return 0, nil
	}
	cutoff := requestcontext.Now(ctx).Add(-s.retention)
	deleted, err := s.purger.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to purge decision log")
	}
	s.metrics.AddDecisionLogPurged(deleted)
	if deleted > 0 {
		s.logger.InfoContext(ctx, "decision log purged", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

func (s *Service) load(ctx context.Context, v Visitor) (models.Categories, error) {
	if v.Website == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownWebsite, "website not found")
	}
	cats, err := s.registry.ListCategories(ctx, v.Website.ID, v.Locale)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to load consent registry")
	}
	return cats, nil
}

// finish records metrics and the decision log entry. A failing decision log
// never fails the visitor's request.
func (s *Service) finish(ctx context.Context, v Visitor, action models.Action, out *models.Outcome) {
	s.metrics.IncDecision(v.Website.Slug, string(action))
	s.metrics.AddCookiesExpired(len(out.ExpiredCookies))
	s.logger.InfoContext(ctx, "consent decision recorded",
		"website", v.Website.Slug,
		"action", action,
		"groups", len(out.Record),
		"have_denied", out.HaveDenied,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.decisions == nil {
		return
	}
	encoded, err := s.codec.Encode(out.Record)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode decision for log", "error", err)
		return
	}
	entry := decisionlog.NewEntry(ctx, v.Website.ID, action, encoded, out.HaveDenied, v.Locale)
	ctx, span := s.tracer.Start(ctx, tracer.SpanDecisionLog, tracer.String(tracer.AttrAction, string(action)))
	err = s.decisions.Emit(ctx, entry)
	span.End(err)
	if err != nil {
		s.logger.WarnContext(ctx, "decision log append failed", "error", err, "action", action)
	}
}

// matchingCookies returns the browser cookie names that contain a cookie code
// of any of groups, in request order.
func matchingCookies(names []string, groups []models.Group) []string {
	if len(groups) == 0 {
		return nil
	}
	var out []string
	for _, name := range names {
		for _, g := range groups {
			if g.MatchesCookie(name) {
				out = append(out, name)
				break
			}
		}
	}
	return out
}
