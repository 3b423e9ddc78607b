package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"webshop-api/internal/config"
	"webshop-api/internal/db"
	"webshop-api/internal/httpserver"
	"webshop-api/internal/metrics"
	cartrepo "webshop-api/internal/repository/cart"
	categoryrepo "webshop-api/internal/repository/category"
	couponrepo "webshop-api/internal/repository/coupon"
	orderrepo "webshop-api/internal/repository/order"
	productrepo "webshop-api/internal/repository/product"
	tokenrepo "webshop-api/internal/repository/token"
	userrepo "webshop-api/internal/repository/user"
	wishlistrepo "webshop-api/internal/repository/wishlist"
	cartsvc "webshop-api/internal/service/cart"
	categorysvc "webshop-api/internal/service/category"
	checkoutsvc "webshop-api/internal/service/checkout"
	couponsvc "webshop-api/internal/service/coupon"
	ordersvc "webshop-api/internal/service/order"
	productsvc "webshop-api/internal/service/product"
	usersvc "webshop-api/internal/service/user"
	wishlistsvc "webshop-api/internal/service/wishlist"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	couponRepo := couponrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	wishlistRepo := wishlistrepo.NewPostgres(dbpool)

	if err := couponRepo.DetectCapabilities(ctx); err != nil {
		logger.Fatalf("detect coupon capabilities: %v", err)
	}

	userService := usersvc.New(userRepo, tokenRepo)
	productService := productsvc.New(productRepo)
	categoryService := categorysvc.New(categoryRepo)
	cartService := cartsvc.New(cartRepo, productRepo, logger)
	couponService := couponsvc.New(couponRepo, orderRepo)
	checkoutService := checkoutsvc.New(dbpool, cartRepo, orderRepo, couponRepo, couponService, logger)
	orderService := ordersvc.New(orderRepo, cartService, logger)
	wishlistService := wishlistsvc.New(wishlistRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		UserSvc:        userService,
		ProductSvc:     productService,
		CategorySvc:    categoryService,
		CartSvc:        cartService,
		CouponSvc:      couponService,
		CheckoutSvc:    checkoutService,
		OrderSvc:       orderService,
		WishlistSvc:    wishlistService,
		Metrics:        metrics.NewServerMetrics("api"),
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
