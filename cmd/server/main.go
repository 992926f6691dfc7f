package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/storefront/internal/adapter/handler"
	"github.com/rl1809/storefront/internal/adapter/restapi"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/config"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize upstream client
	api, err := restapi.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout})
	if err != nil {
		log.Fatalf("failed to create api client: %v", err)
	}
	log.Printf("upstream api at %s", cfg.APIBaseURL)

	// Initialize session store
	var sessions port.SessionRepository
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		log.Println("connected to redis")
		sessions = storage.NewRedisSessionRepository(rdb, cfg.SessionTTL)
	} else {
		log.Println("using in-memory session store")
		sessions = storage.NewMemorySessionRepository()
	}

	// Initialize receipt store
	var receipts port.ReceiptRepository
	var db *sql.DB
	if cfg.MySQLDSN != "" {
		db, err = openMySQL(ctx, cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}
		log.Println("connected to mysql")
		repo := storage.NewMySQLReceiptRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			log.Fatalf("failed to migrate receipts table: %v", err)
		}
		receipts = repo
	} else {
		log.Println("using in-memory receipt store")
		receipts = storage.NewMemoryReceiptRepository()
	}

	// Initialize services
	storefront := service.NewStorefront(sessions, service.Services{
		Catalog:  service.NewCatalogService(api),
		Orders:   service.NewOrderService(api, api, cfg.FanoutLimit, cfg.OrderPageSize),
		Reviews:  service.NewReviewService(api, api, cfg.FanoutLimit),
		Accounts: service.NewAccountService(api),
		Admin:    service.NewAdminService(api, api, receipts),
	})

	reporter := handler.NewHealthReporter(map[string]handler.Check{
		"upstream": func(ctx context.Context) error {
			_, err := api.ListCategories(ctx, 1, 1)
			return err
		},
		"sessions": sessions.Ping,
		"receipts": receipts.Ping,
	}, cfg.RequestTimeout)
	go reporter.Watch(ctx, cfg.HealthInterval)

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, reporter.Server())

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("gRPC server error: %v", err)
		}
	}()

	// Initialize HTTP server
	mux := http.NewServeMux()
	handler.NewHTTPHandler(storefront, reporter).Register(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	reporter.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Println("gRPC server stopped")

	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	log.Println("connections closed")
}

// openMySQL forces parseTime so receipt timestamps scan into time.Time.
func openMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	mcfg.ParseTime = true

	db, err := sql.Open("mysql", mcfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
