package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradevista/websights-backend/api/controllers"
	webhookcontrollers "github.com/tradevista/websights-backend/api/controllers/webhooks"
	"github.com/tradevista/websights-backend/api/middleware"
	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/internal/auth"
	"github.com/tradevista/websights-backend/internal/billing"
	"github.com/tradevista/websights-backend/internal/cms"
	"github.com/tradevista/websights-backend/internal/domains"
	"github.com/tradevista/websights-backend/internal/emails"
	"github.com/tradevista/websights-backend/internal/flags"
	"github.com/tradevista/websights-backend/internal/generation"
	"github.com/tradevista/websights-backend/internal/merch"
	"github.com/tradevista/websights-backend/internal/plans"
	"github.com/tradevista/websights-backend/internal/sites"
	"github.com/tradevista/websights-backend/internal/trades"
	"github.com/tradevista/websights-backend/internal/users"
	stripewebhook "github.com/tradevista/websights-backend/internal/webhooks/stripe"
	"github.com/tradevista/websights-backend/pkg/config"
	"github.com/tradevista/websights-backend/pkg/db"
	"github.com/tradevista/websights-backend/pkg/logger"
	"github.com/tradevista/websights-backend/pkg/metrics"
	"github.com/tradevista/websights-backend/pkg/redis"
	"github.com/tradevista/websights-backend/pkg/stripe"
)

// Services bundles everything the router wires into controllers.
type Services struct {
	Auth       auth.Service
	Users      users.Service
	Sites      sites.Service
	Generation generation.Service
	Trades     trades.Service
	Billing    billing.Service
	CMS        cms.Service
	Flags      flags.Service
	Plans      plans.Service
	Emails     emails.Service
	Audit      audit.Service
	Domains    domains.Service
	Merch      merch.Service

	StripeClient *stripe.Client
	StripeHooks  *stripewebhook.Service
	StripeGuard  *stripewebhook.IdempotencyGuard
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	promRegistry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})
	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(svcs.StripeHooks, svcs.StripeClient, svcs.StripeGuard, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).Post("/signup", controllers.AuthSignup(svcs.Auth, cfg.Session, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, cfg.Session, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.Session, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(svcs.Auth, logg))
			r.Get("/me", controllers.AuthMe(logg))
		})
	})

	r.Route("/api/v1/trades", func(r chi.Router) {
		r.Get("/", controllers.TradesList(svcs.Trades, logg))
		r.Get("/{slug}", controllers.TradeBySlug(svcs.Trades, logg))
	})

	r.Get("/api/v1/sites/resolve", controllers.SiteResolve(svcs.Sites, cfg.Platform.BaseDomain, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionAuth(svcs.Auth, logg))

		r.Route("/sites", func(r chi.Router) {
			r.Post("/generate", controllers.SiteGenerate(svcs.Generation, svcs.Sites, logg))
			r.Post("/modify", controllers.SiteModify(svcs.Generation, svcs.Sites, logg))
			r.Post("/domain", controllers.SiteAttachDomain(svcs.Sites, logg))
			r.Get("/me", controllers.SiteMe(svcs.Sites, logg))
		})
		r.Route("/billing", func(r chi.Router) {
			r.Post("/checkout", controllers.BillingCheckout(svcs.Billing, logg))
			r.Post("/portal", controllers.BillingPortal(svcs.Billing, logg))
		})
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.Post("/setup", controllers.AdminAuthSetup(svcs.Auth, cfg.Session, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminAuthLogin(svcs.Auth, cfg.Session, logg))
		r.Post("/logout", controllers.AdminAuthLogout(svcs.Auth, cfg.Session, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.SessionAuth(svcs.Auth, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/cms", func(r chi.Router) {
			r.Get("/", controllers.CMSList(svcs.CMS, logg))
			r.Post("/", controllers.CMSCreate(svcs.CMS, logg))
			r.Patch("/{key}", controllers.CMSUpdate(svcs.CMS, logg))
			r.Delete("/{key}", controllers.CMSDelete(svcs.CMS, logg))
		})
		r.Route("/flags", func(r chi.Router) {
			r.Get("/", controllers.FlagsList(svcs.Flags, logg))
			r.Post("/", controllers.FlagsCreate(svcs.Flags, logg))
			r.Patch("/{key}", controllers.FlagsUpdate(svcs.Flags, logg))
			r.Post("/{key}/toggle", controllers.FlagsToggle(svcs.Flags, logg))
			r.Delete("/{key}", controllers.FlagsDelete(svcs.Flags, logg))
		})
		r.Route("/plans", func(r chi.Router) {
			r.Get("/", controllers.PlansList(svcs.Plans, logg))
			r.Post("/", controllers.PlansCreate(svcs.Plans, logg))
			r.Patch("/{key}", controllers.PlansUpdate(svcs.Plans, logg))
			r.Delete("/{key}", controllers.PlansDelete(svcs.Plans, logg))
		})
		r.Route("/trades", func(r chi.Router) {
			r.Get("/", controllers.TradesList(svcs.Trades, logg))
			r.Post("/", controllers.TradesCreate(svcs.Trades, logg))
			r.Patch("/{slug}", controllers.TradesUpdate(svcs.Trades, logg))
			r.Delete("/{slug}", controllers.TradesDelete(svcs.Trades, logg))
		})
		r.Route("/emails", func(r chi.Router) {
			r.Get("/", controllers.EmailsList(svcs.Emails, logg))
			r.Post("/", controllers.EmailsCreate(svcs.Emails, logg))
			r.Patch("/{key}", controllers.EmailsUpdate(svcs.Emails, logg))
			r.Delete("/{key}", controllers.EmailsDelete(svcs.Emails, logg))
			r.Post("/{key}/preview", controllers.EmailsPreview(svcs.Emails, logg))
		})
		r.Route("/logs", func(r chi.Router) {
			r.Get("/", controllers.LogsList(svcs.Audit, logg))
			r.Get("/stats", controllers.LogsStats(svcs.Audit, logg))
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UsersList(svcs.Users, logg))
			r.Post("/{id}/impersonate", controllers.UserImpersonate(svcs.Auth, cfg.Session, logg))
		})
		r.Post("/domains", controllers.DomainsDispatch(svcs.Domains, logg))
		r.Route("/printful", func(r chi.Router) {
			r.Get("/products", controllers.PrintfulProducts(svcs.Merch, logg))
			r.Get("/products/{id}", controllers.PrintfulProduct(svcs.Merch, logg))
			r.Post("/mockups", controllers.PrintfulMockupCreate(svcs.Merch, logg))
			r.Get("/mockups/{taskKey}", controllers.PrintfulMockupStatus(svcs.Merch, logg))
		})
	})

	return r
}
