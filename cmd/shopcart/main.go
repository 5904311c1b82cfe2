package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/shopcart/internal/cart"
	"github.com/jcmexdev/shopcart/internal/cartlog"
	"github.com/jcmexdev/shopcart/internal/cartlog/sqlite"
	"github.com/jcmexdev/shopcart/internal/catalog"
	"github.com/jcmexdev/shopcart/internal/catalog/csvfile"
	"github.com/jcmexdev/shopcart/internal/console"
	"github.com/jcmexdev/shopcart/internal/engine"
	"github.com/jcmexdev/shopcart/internal/httpx"
	"github.com/jcmexdev/shopcart/internal/pkg/cache"
	"github.com/jcmexdev/shopcart/internal/pkg/telemetry"
)

const cacheNamespace = "shopcart"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetry.InitLogger(os.Stderr, telemetry.ParseLevel(getEnv("LOG_LEVEL", "info")))

	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "shopcart"), endpoint)
		if err != nil {
			slog.Error("tracing disabled", "error", err)
		} else {
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(flushCtx); err != nil {
					slog.Error("failed to flush traces", "error", err)
				}
			}()
		}
	}

	products := loadCatalog(getEnv("CATALOG_PATH", "products.csv"))

	var (
		opts     []engine.Option
		history  cartlog.Repository
		receipts cache.ReceiptCache
	)

	if path := os.Getenv("CART_LOG_PATH"); path != "" {
		repo, err := sqlite.Open(path)
		if err != nil {
			slog.Error("cart log disabled", "path", path, "error", err)
		} else {
			defer repo.Close()
			history = repo
			opts = append(opts, engine.WithCartLog(repo))
			slog.Info("cart log enabled", "path", path)
		}
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rc := cache.NewRedisCache(addr, cacheNamespace, receiptTTL())
		if err := rc.Ping(ctx); err != nil {
			slog.Error("receipt cache disabled", "addr", addr, "error", err)
			_ = rc.Close()
		} else {
			defer rc.Close()
			receipts = rc
			opts = append(opts, engine.WithReceiptCache(rc))
			slog.Info("receipt cache enabled", "addr", addr)
		}
	}

	eng := engine.New(products, cart.NewMemoryStore(), opts...)

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           httpx.NewRouter(httpx.NewHandler(eng, history, receipts)),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("inspection API listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Reads from stdin block, so the console runs apart from signal handling.
	done := make(chan error, 1)
	go func() {
		done <- console.New(engine.NewSession(eng), os.Stdin, os.Stdout).Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			slog.Error("console stopped", "error", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}
}

// loadCatalog never fails: an unreadable file leaves the catalog empty.
func loadCatalog(path string) *catalog.Memory {
	products, skipped, err := csvfile.LoadFile(path)
	if err != nil {
		slog.Error("failed to load catalog, starting empty", "path", path, "error", err)
		return catalog.NewMemory()
	}
	for _, row := range skipped {
		slog.Warn("skipped catalog row", "path", path, "line", row.Line, "reason", row.Reason)
	}
	slog.Info("catalog loaded", "path", path, "products", len(products), "skipped", len(skipped))
	return catalog.NewMemory(products...)
}

func receiptTTL() time.Duration {
	raw := getEnv("RECEIPT_TTL", "24h")
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		slog.Warn("invalid RECEIPT_TTL, using 24h", "value", raw)
		return 24 * time.Hour
	}
	return ttl
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
