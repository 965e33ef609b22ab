package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tradevista/websights-backend/api/routes"
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
	"github.com/tradevista/websights-backend/pkg/cloudflare"
	"github.com/tradevista/websights-backend/pkg/config"
	"github.com/tradevista/websights-backend/pkg/db"
	"github.com/tradevista/websights-backend/pkg/digitalocean"
	"github.com/tradevista/websights-backend/pkg/logger"
	"github.com/tradevista/websights-backend/pkg/metrics"
	"github.com/tradevista/websights-backend/pkg/migrate"
	"github.com/tradevista/websights-backend/pkg/namecheap"
	"github.com/tradevista/websights-backend/pkg/openai"
	"github.com/tradevista/websights-backend/pkg/printful"
	"github.com/tradevista/websights-backend/pkg/redis"
	"github.com/tradevista/websights-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	siteRepo := sites.NewRepository(gormDB)

	auditService, err := audit.NewService(audit.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}
	usersService, err := users.NewService(userRepo, cfg.Founder)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	sitesService, err := sites.NewService(siteRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create sites service", err)
		os.Exit(1)
	}

	var generationService generation.Service
	if aiClient, err := openai.NewClient(cfg.OpenAI); err != nil {
		logg.Warn(context.Background(), "openai not configured, using fallback site generation")
		generationService = generation.NewService(nil, logg)
	} else {
		generationService = generation.NewService(aiClient, logg)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:    userRepo,
		AdminRepo:   auth.NewAdminRepository(gormDB),
		SessionRepo: auth.NewSessionRepository(gormDB),
		Founders:    usersService,
		Sites:       sitesService,
		Generator:   generationService,
		Audit:       auditService,
		PasswordCfg: cfg.Password,
		SessionCfg:  cfg.Session,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	tradesService, err := trades.NewService(trades.NewRepository(gormDB), auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create trades service", err)
		os.Exit(1)
	}
	cmsService, err := cms.NewService(cms.NewRepository(gormDB), auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cms service", err)
		os.Exit(1)
	}
	flagsService, err := flags.NewService(flags.NewRepository(gormDB), auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create flags service", err)
		os.Exit(1)
	}
	plansService, err := plans.NewService(plans.NewRepository(gormDB), auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create plans service", err)
		os.Exit(1)
	}
	emailsService, err := emails.NewService(emails.NewRepository(gormDB), auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create emails service", err)
		os.Exit(1)
	}

	var (
		billingService billing.Service
		webhookService *stripewebhook.Service
		webhookGuard   *stripewebhook.IdempotencyGuard
		stripeClient   *stripe.Client
	)
	if client, err := stripe.NewClient(context.Background(), cfg.Stripe, logg); err != nil {
		logg.Warn(context.Background(), "stripe not configured, billing disabled")
	} else {
		stripeClient = client
		billingService, err = billing.NewService(billing.ServiceParams{
			Users:  userRepo,
			Stripe: billing.NewStripeClient(client),
			Audit:  auditService,
			Cfg:    cfg.Stripe,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create billing service", err)
			os.Exit(1)
		}
		webhookService, err = stripewebhook.NewService(stripewebhook.ServiceParams{
			Users:  userRepo,
			Sites:  sitesService,
			Audit:  auditService,
			Logger: logg,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create stripe webhook service", err)
			os.Exit(1)
		}
		webhookGuard, err = stripewebhook.NewIdempotencyGuard(redisClient, cfg.Stripe.EventGuardTTL, "stripe")
		if err != nil {
			logg.Error(context.Background(), "failed to create stripe webhook guard", err)
			os.Exit(1)
		}
	}

	var domainsService domains.Service
	registrar, ncErr := namecheap.NewClient(cfg.Namecheap)
	zone, cfErr := cloudflare.NewClient(cfg.Cloudflare)
	infra, doErr := digitalocean.NewClient(cfg.DigitalOcean)
	if ncErr != nil || cfErr != nil || doErr != nil {
		logg.Warn(context.Background(), "dns providers not fully configured, domain management disabled")
	} else {
		domainsService, err = domains.NewService(domains.ServiceParams{
			Registrar: registrar,
			Zone:      zone,
			Infra:     infra,
			Audit:     auditService,
			Platform:  cfg.Platform,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create domains service", err)
			os.Exit(1)
		}
	}

	var merchService merch.Service
	if catalog, err := printful.NewClient(cfg.Printful); err != nil {
		logg.Warn(context.Background(), "printful not configured, merch browsing disabled")
	} else {
		merchService, err = merch.NewService(merch.ServiceParams{
			Catalog: catalog,
			Audit:   auditService,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create merch service", err)
			os.Exit(1)
		}
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, promRegistry, routes.Services{
			Auth:         authService,
			Users:        usersService,
			Sites:        sitesService,
			Generation:   generationService,
			Trades:       tradesService,
			Billing:      billingService,
			CMS:          cmsService,
			Flags:        flagsService,
			Plans:        plansService,
			Emails:       emailsService,
			Audit:        auditService,
			Domains:      domainsService,
			Merch:        merchService,
			StripeClient: stripeClient,
			StripeHooks:  webhookService,
			StripeGuard:  webhookGuard,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
