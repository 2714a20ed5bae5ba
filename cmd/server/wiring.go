package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"consentry/internal/consent/codec"
	"consentry/internal/consent/decisionlog"
	"consentry/internal/consent/handler"
	"consentry/internal/consent/metrics"
	"consentry/internal/consent/resolver"
	"consentry/internal/consent/service"
	consentstore "consentry/internal/consent/store"
	"consentry/internal/platform/config"
	"consentry/internal/platform/database"
	"consentry/internal/platform/health"
	"consentry/internal/platform/kafka/producer"
	platformredis "consentry/internal/platform/redis"
	"consentry/internal/platform/tracer"
	websitemw "consentry/internal/website/middleware"
	websitestore "consentry/internal/website/store"
	"consentry/migrations"
	"consentry/pkg/platform/middleware/admin"
	"consentry/pkg/platform/middleware/metadata"
	"consentry/pkg/platform/middleware/request"
)

// decisionLogBuffer bounds the async decision log queue.
const decisionLogBuffer = 1024

// infra holds connections and the stores built on them. Optional backends
// are nil when not configured and the in-memory stores take over.
type infra struct {
	db       *database.Pool
	redis    *platformredis.Client
	kafka    *producer.Producer
	websites websitestore.Store
	registry consentstore.Store
	log      decisionlog.Store
}

func openInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	in := &infra{}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	in.db = db
	if db != nil {
		if err := migrations.Up(ctx, db.DB()); err != nil {
			in.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		in.websites = websitestore.NewPostgres(db.DB())
		in.registry = consentstore.NewPostgres(db.DB())
		in.log = decisionlog.NewPostgresStore(db.DB())
		log.Info("using postgres stores")
	} else {
		in.websites = websitestore.NewInMemory()
		in.registry = consentstore.New()
		in.log = decisionlog.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rc, err := platformredis.New(ctx, cfg.Redis, prometheus.DefaultRegisterer)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.redis = rc

	kp, err := producer.New(cfg.Kafka, log)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.kafka = kp
	return in, nil
}

// Close releases connections in reverse order of opening.
func (in *infra) Close() {
	if in.kafka != nil {
		in.kafka.Close() //nolint:errcheck // shutting down
	}
	if in.redis != nil {
		in.redis.Close() //nolint:errcheck // shutting down
	}
	in.db.Close() //nolint:errcheck // shutting down
}

type app struct {
	router    chi.Router
	service   *service.Service
	publisher *decisionlog.Publisher
	templates *resolver.TemplateStore
}

func buildApp(cfg config.Server, in *infra, log *slog.Logger) *app {
	m := metrics.New(prometheus.DefaultRegisterer)
	httpMetrics := request.NewMetrics(prometheus.DefaultRegisterer)

	var t tracer.Tracer = tracer.NewNoop()
	if cfg.TracingEnabled {
		t = tracer.NewOTel()
	}

	registry := in.registry
	if in.redis != nil {
		registry = consentstore.NewRedisCache(registry, in.redis, cfg.Redis.RegistryTTL, m, log)
		// Seeding goes through the cache so stale registries are evicted.
		in.registry = registry
	}

	pubOpts := []decisionlog.PublisherOption{
		decisionlog.WithAsyncBuffer(decisionLogBuffer),
		decisionlog.WithPublisherLogger(log),
		decisionlog.WithPublisherMetrics(m),
	}
	if in.kafka != nil {
		pubOpts = append(pubOpts, decisionlog.WithSink(decisionlog.NewKafkaSink(in.kafka, cfg.Kafka.Topic)))
	}
	publisher := decisionlog.NewPublisher(in.log, pubOpts...)

	var templates *resolver.TemplateStore
	if cfg.Templates.Dir != "" {
		templates = resolver.NewTemplateStore(cfg.Templates.Dir, log)
	}

	cookies := codec.New(cfg.Cookie.Name,
		codec.WithPath(cfg.Cookie.Path),
		codec.WithDomain(cfg.Cookie.Domain),
		codec.WithSecure(cfg.Cookie.Secure),
		codec.WithSameSite(cfg.Cookie.SameSite),
	)

	res := resolver.NewDefault(templates,
		resolver.WithMetrics(m),
		resolver.WithTracer(t),
		resolver.WithLogger(log),
	)
	svcOpts := []service.Option{
		service.WithDecisionLog(publisher),
		service.WithRetention(in.log, cfg.Retention.Period),
		service.WithMetrics(m),
		service.WithTracer(t),
		service.WithLogger(log),
	}
	if templates != nil {
		svcOpts = append(svcOpts, service.WithTemplates(templates))
	}
	svc := service.New(registry, res, cookies, svcOpts...)

	proxies, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Warn("ignoring invalid TRUSTED_PROXIES", "error", err)
		proxies = nil
	}

	healthHandler := health.New(cfg.Environment)
	if in.db != nil {
		healthHandler.RegisterCheck("database", in.db.Health)
	}
	if in.redis != nil {
		healthHandler.RegisterCheck("redis", in.redis.Health)
	}
	if in.kafka != nil {
		healthHandler.RegisterCheck("kafka", in.kafka.Health)
	}

	consentHandler := handler.New(svc, cookies, log)

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.Time)
	r.Use(metadata.NewMiddleware(proxies).Handler)
	r.Use(request.Logger(log))
	r.Use(request.LatencyMiddleware(httpMetrics))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(cfg.RequestTimeout))
		r.Use(request.BodyLimit(cfg.MaxBodyBytes))
		r.Use(websitemw.ResolveWebsite(in.websites, log))
		consentHandler.Register(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(cfg.AdminAPIToken, log))
		consentHandler.RegisterAdmin(r)
	})

	return &app{router: r, service: svc, publisher: publisher, templates: templates}
}
