package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"chocostore/internal/catalog/source"
	"chocostore/internal/checkout"
	"chocostore/internal/config"
	"chocostore/internal/db"
	"chocostore/internal/httpserver"
	"chocostore/internal/kv"
	"chocostore/internal/logging"
	adrepo "chocostore/internal/repository/ad"
	contentrepo "chocostore/internal/repository/content"
	orderrepo "chocostore/internal/repository/order"
	productrepo "chocostore/internal/repository/product"
	adminsvc "chocostore/internal/service/admin"
	cartsvc "chocostore/internal/service/cart"
	catalogsvc "chocostore/internal/service/catalog"
	contentsvc "chocostore/internal/service/content"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("api stopped")
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Entry) error {
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		if cfg.CatalogSource == "db" {
			logger.WithError(err).Warn("database unreachable, serving the bundled catalog without admin storage")
		} else {
			logger.WithError(err).Warn("database unreachable, admin storage disabled")
		}
	} else {
		defer dbpool.Close()
	}

	store, closeStore, err := openCartStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	primary, fallback, closeSource := catalogSources(cfg, dbpool, logger)
	defer closeSource()
	catalog := catalogsvc.New(primary, fallback, logger.WithField("service", "catalog"))
	if n, err := catalog.Reload(ctx); err != nil {
		logger.WithError(err).Error("initial catalog load failed, starting with an empty catalog")
	} else {
		logger.WithField("products", n).Info("catalog loaded")
	}

	deps, err := buildDeps(cfg, dbpool, store, catalog, logger)
	if err != nil {
		return err
	}

	var pinger httpserver.Pinger
	if dbpool != nil {
		pinger = dbpool
	}
	srv, err := httpserver.New(cfg.HTTPAddr, logger, pinger, deps, cfg.CORSOrigins)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func buildDeps(cfg config.Config, dbpool *pgxpool.Pool, store kv.Port, catalog *catalogsvc.Service, logger *logrus.Entry) (httpserver.Deps, error) {
	checkoutCfg := checkout.Config{ShopName: cfg.ShopName, WhatsAppNumber: cfg.WhatsAppNumber}
	adminCfg := adminsvc.Config{Username: cfg.AdminUsername, Password: cfg.AdminPassword, TokenTTL: cfg.AdminTokenTTL}
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set, admin login disabled")
	}

	var (
		checkoutService *checkout.Service
		adminService    *adminsvc.Service
		contentService  *contentsvc.Service
		err             error
	)
	if dbpool != nil {
		products := productrepo.NewPostgres(dbpool, logger)
		orders := orderrepo.NewPostgres(dbpool, logger)
		content := contentrepo.NewPostgres(dbpool, logger)
		checkoutService = checkout.New(checkoutCfg, orders, logger)
		contentService = contentsvc.New(content, logger.WithField("service", "content"))
		adminService, err = adminsvc.New(adminCfg, products, orders, catalog, logger)
		if err == nil {
			adminService.WithEditorial(adrepo.NewPostgres(dbpool, logger), content)
		}
	} else {
		checkoutService = checkout.New(checkoutCfg, nil, logger)
		contentService = contentsvc.New(nil, logger.WithField("service", "content"))
		adminService, err = adminsvc.New(adminCfg, nil, nil, catalog, logger)
	}
	if err != nil {
		return httpserver.Deps{}, err
	}

	return httpserver.Deps{
		CatalogSvc:  catalog,
		CartSvc:     cartsvc.New(store, catalog, logger.WithField("service", "cart")),
		CheckoutSvc: checkoutService,
		AdminSvc:    adminService,
		ContentSvc:  contentService,
	}, nil
}

func openCartStore(ctx context.Context, cfg config.Config, logger *logrus.Entry) (kv.Port, func(), error) {
	switch cfg.CartBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.WithField("addr", cfg.RedisAddr).Info("carts stored in redis")
		return kv.NewRedis(client, cfg.CartTTL), func() { _ = client.Close() }, nil
	case "sqlite":
		store, err := kv.OpenSQLite(ctx, cfg.CartSQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite cart store: %w", err)
		}
		logger.WithField("path", cfg.CartSQLitePath).Info("carts stored in sqlite")
		return store, func() { _ = store.Close() }, nil
	case "", "memory":
		logger.Info("carts stored in memory")
		return kv.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown CART_BACKEND %q", cfg.CartBackend)
	}
}

func catalogSources(cfg config.Config, dbpool *pgxpool.Pool, logger *logrus.Entry) (catalogsvc.Source, catalogsvc.Source, func()) {
	switch cfg.CatalogSource {
	case "remote":
		remote := source.NewRemote(source.RemoteConfig{
			URL:                  cfg.CatalogURL,
			MaxRequestsPerSecond: cfg.CatalogRPS,
		}, logger.WithField("source", "remote"))
		return remote, source.Static{}, func() { _ = remote.Close() }
	case "static":
		return source.Static{}, nil, func() {}
	default:
		if dbpool == nil {
			return source.Static{}, nil, func() {}
		}
		return source.NewRepository(productrepo.NewPostgres(dbpool, logger)), source.Static{}, func() {}
	}
}
