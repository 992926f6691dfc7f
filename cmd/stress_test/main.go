package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/storefront/internal/adapter/restapi"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

const (
	defaultAPIBaseURL = "http://localhost:3000/api"
	totalShoppers     = 20
	totalAdds         = 50
)

func main() {
	ctx := context.Background()

	baseURL := os.Getenv("STOREFRONT_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	api, err := restapi.NewClient(baseURL, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		log.Fatalf("failed to create api client: %v", err)
	}

	var sessions port.SessionRepository = storage.NewMemorySessionRepository()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()
		sessions = storage.NewRedisSessionRepository(rdb, time.Hour)
	}

	storefront := service.NewStorefront(sessions, service.Services{
		Catalog:  service.NewCatalogService(api),
		Orders:   service.NewOrderService(api, api, service.DefaultFanout, service.DefaultOrderPageSize),
		Reviews:  service.NewReviewService(api, api, service.DefaultFanout),
		Accounts: service.NewAccountService(api),
		Admin:    service.NewAdminService(api, api, storage.NewMemoryReceiptRepository()),
	})

	// Independent shoppers opening sessions at once
	var opened atomic.Int32
	var openFailed atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalShoppers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := storefront.Open(ctx)
			if err != nil || sess.Error != "" {
				openFailed.Add(1)
				return
			}
			opened.Add(1)
		}()
	}
	wg.Wait()
	openElapsed := time.Since(start)

	// Concurrent adds on one shared session
	shared, err := storefront.Open(ctx)
	if err != nil {
		log.Fatalf("failed to open session: %v", err)
	}
	product, ok := firstInStock(shared.Products)
	if !ok {
		log.Fatalf("no product in stock at %s", baseURL)
	}

	var added atomic.Int32
	var conflicts atomic.Int32
	var failed atomic.Int32
	start = time.Now()

	for i := 0; i < totalAdds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := storefront.AddToCart(ctx, shared.ID, product.ID)
			switch {
			case err == nil:
				added.Add(1)
			case errors.Is(err, port.ErrOptimisticLock):
				conflicts.Add(1)
			default:
				failed.Add(1)
			}
		}()
	}
	wg.Wait()
	addElapsed := time.Since(start)

	final, err := storefront.Get(ctx, shared.ID)
	if err != nil {
		log.Fatalf("failed to reload session: %v", err)
	}
	quantity := 0
	if it, ok := final.Cart.Find(product.ID); ok {
		quantity = it.Quantity
	}

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Upstream:         %s\n", baseURL)
	fmt.Printf("Shoppers:         %d\n", totalShoppers)
	fmt.Printf("Sessions Opened:  %d\n", opened.Load())
	fmt.Printf("Open Failures:    %d\n", openFailed.Load())
	fmt.Printf("Open Duration:    %v\n", openElapsed)
	fmt.Printf("Cart Adds:        %d (%s)\n", totalAdds, product.ID)
	fmt.Printf("Applied:          %d\n", added.Load())
	fmt.Printf("Conflicts:        %d\n", conflicts.Load())
	fmt.Printf("Errors:           %d\n", failed.Load())
	fmt.Printf("Add Duration:     %v\n", addElapsed)
	fmt.Printf("Final Quantity:   %d\n", quantity)
	fmt.Printf("Session Version:  %d\n", final.Version)
	fmt.Println("==========================================")

	if opened.Load() == totalShoppers {
		fmt.Printf("PASS: All %d sessions opened\n", totalShoppers)
	} else {
		fmt.Printf("FAIL: Expected %d sessions, got %d\n", totalShoppers, opened.Load())
	}

	if int32(quantity) == added.Load() && added.Load()+conflicts.Load()+failed.Load() == totalAdds {
		fmt.Println("PASS: Every applied add is in the cart, none lost")
	} else {
		fmt.Printf("FAIL: Expected quantity %d, got %d\n", added.Load(), quantity)
	}
}

func firstInStock(products []domain.Product) (domain.Product, bool) {
	for _, p := range products {
		if p.InStock() {
			return p, true
		}
	}
	return domain.Product{}, false
}
