package httpserver

import (
	"context"
	"log"

	"webshop-api/internal/domain"
	"webshop-api/internal/metrics"
	prodrepo "webshop-api/internal/repository/product"
	cartsvc "webshop-api/internal/service/cart"
	checkoutsvc "webshop-api/internal/service/checkout"
	couponsvc "webshop-api/internal/service/coupon"
	ordersvc "webshop-api/internal/service/order"
	usersvc "webshop-api/internal/service/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service contracts the router depends on. Narrow interfaces keep
// handlers testable with stubs.
type UserService interface {
	authLookup
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	List(ctx context.Context) ([]domain.User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
	AccessTTLSeconds() int
}

type ProductService interface {
	List(ctx context.Context, f prodrepo.Filter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Image(ctx context.Context, id string) ([]byte, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

type CartService interface {
	Items(ctx context.Context, userID string) ([]domain.CartItem, error)
	Add(ctx context.Context, userID, productID string, qty int) (*cartsvc.Result, error)
	Update(ctx context.Context, userID, productID string, qty int) (*cartsvc.Result, error)
	Remove(ctx context.Context, userID, productID string) (*cartsvc.Result, error)
	Clear(ctx context.Context, userID string) (*cartsvc.Result, error)
}

type CouponService interface {
	Evaluate(ctx context.Context, code string, amountCents int64, userID string) (domain.DiscountOutcome, error)
	ListForUser(ctx context.Context, userID string) ([]couponsvc.Listing, error)
	ListActive(ctx context.Context) ([]domain.Coupon, error)
	Create(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID string, in checkoutsvc.Input) (*checkoutsvc.Confirmation, error)
}

type OrderService interface {
	History(ctx context.Context, userID string) ([]domain.Order, error)
	Reorder(ctx context.Context, userID, orderID string) (*ordersvc.ReorderResult, error)
}

type WishlistService interface {
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

// Deps carries everything the router needs.
type Deps struct {
	UserSvc     UserService
	ProductSvc  ProductService
	CategorySvc CategoryService
	CartSvc     CartService
	CouponSvc   CouponService
	CheckoutSvc CheckoutService
	OrderSvc    OrderService
	WishlistSvc WishlistService

	Metrics        *metrics.ServerMetrics
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if allowAllOrigins(deps.AllowedOrigins) {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	router.POST("/signup", h.signup)
	router.POST("/login", h.login)
	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.GET("/products/:id/image", h.productImage)
	router.GET("/categories", h.listCategories)

	auth := router.Group("/", authMiddleware(deps.UserSvc))
	{
		auth.POST("/logout", h.logout)
		auth.GET("/me", h.me)
		auth.GET("/cart", h.getCart)
		auth.POST("/cart", h.mutateCart)
		auth.GET("/coupons", h.listCoupons)
		auth.POST("/coupons/validate", h.validateCoupon)
		auth.POST("/checkout", h.checkout)
		auth.GET("/orders", h.orderHistory)
		auth.POST("/orders/:id/reorder", h.reorder)
		auth.GET("/wishlist", h.listWishlist)
		auth.POST("/wishlist/:productId", h.addWishlist)
		auth.DELETE("/wishlist/:productId", h.removeWishlist)
		auth.DELETE("/wishlist", h.clearWishlist)
	}

	admin := router.Group("/admin", authMiddleware(deps.UserSvc), adminMiddleware())
	{
		admin.POST("/products", h.adminCreateProduct)
		admin.PUT("/products/:id", h.adminUpdateProduct)
		admin.DELETE("/products/:id", h.adminDeleteProduct)
		admin.POST("/categories", h.adminCreateCategory)
		admin.PUT("/categories/:id", h.adminRenameCategory)
		admin.DELETE("/categories/:id", h.adminDeleteCategory)
		admin.GET("/coupons", h.adminListCoupons)
		admin.POST("/coupons", h.adminCreateCoupon)
		admin.GET("/users", h.adminListUsers)
		admin.PUT("/users/:id/blocked", h.adminSetUserBlocked)
	}

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}

func allowAllOrigins(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
