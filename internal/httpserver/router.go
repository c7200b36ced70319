package httpserver

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"chocostore/internal/cart"
	"chocostore/internal/catalog"
	"chocostore/internal/checkout"
	"chocostore/internal/domain"
	adminsvc "chocostore/internal/service/admin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type catalogService interface {
	Get(id string) (domain.Product, bool)
	Search(st catalog.FilterState) []domain.Product
	Facets(main string) []catalog.Facet
}

type cartService interface {
	Open(ctx context.Context, visitorID string) *cart.Store
	Add(ctx context.Context, visitorID, productID string, quantity int) (domain.CartSnapshot, error)
	SetQuantity(ctx context.Context, visitorID, productID string, quantity int) domain.CartSnapshot
	Remove(ctx context.Context, visitorID, productID string) domain.CartSnapshot
	Clear(ctx context.Context, visitorID string) domain.CartSnapshot
}

type checkoutService interface {
	Checkout(ctx context.Context, snap domain.CartSnapshot, customer checkout.CustomerInfo) (*checkout.Result, error)
}

type contentService interface {
	Page(ctx context.Context, page, section string) (map[string]any, error)
}

type adminService interface {
	Login(username, password string) (string, time.Time, error)
	Validate(token string) (string, error)
	Logout(token string)
	Stats(ctx context.Context) adminsvc.Stats
	ReloadCatalog(ctx context.Context) (int, error)

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ImportProducts(ctx context.Context, products []domain.Product) (adminsvc.ImportReport, error)

	ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)

	ListAds(ctx context.Context) ([]domain.Ad, error)
	CreateAd(ctx context.Context, a domain.Ad) (*domain.Ad, error)
	UpdateAd(ctx context.Context, id int64, a domain.Ad) (*domain.Ad, error)
	DeleteAd(ctx context.Context, id int64) error
	ListContent(ctx context.Context, page, section string) ([]domain.SiteContent, error)
	SaveContent(ctx context.Context, c domain.SiteContent) (*domain.SiteContent, error)
}

// Deps are the services the router dispatches to.
type Deps struct {
	CatalogSvc  catalogService
	CartSvc     cartService
	CheckoutSvc checkoutService
	AdminSvc    adminService
	ContentSvc  contentService
}

func (d Deps) validate() error {
	switch {
	case d.CatalogSvc == nil:
		return errors.New("catalog service is required")
	case d.CartSvc == nil:
		return errors.New("cart service is required")
	case d.CheckoutSvc == nil:
		return errors.New("checkout service is required")
	case d.AdminSvc == nil:
		return errors.New("admin service is required")
	case d.ContentSvc == nil:
		return errors.New("content service is required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *logrus.Entry, db Pinger, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.WriterLevel(logrus.InfoLevel)), gin.Recovery())
	router.Use(cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/categories", h.listCategories)
	api.GET("/content", h.pageContent)

	visitor := api.Group("", visitorMiddleware())
	visitor.GET("/cart", h.getCart)
	visitor.POST("/cart/items", h.addCartItem)
	visitor.PATCH("/cart/items/:id", h.updateCartItem)
	visitor.DELETE("/cart/items/:id", h.removeCartItem)
	visitor.DELETE("/cart", h.clearCart)
	visitor.POST("/checkout", h.checkout)

	api.POST("/admin/login", h.adminLogin)
	admin := api.Group("/admin", adminMiddleware(deps.AdminSvc))
	admin.POST("/logout", h.adminLogout)
	admin.GET("/stats", h.adminStats)
	admin.GET("/products", h.adminListProducts)
	admin.POST("/products", h.adminCreateProduct)
	admin.GET("/products/:id", h.adminGetProduct)
	admin.PUT("/products/:id", h.adminUpdateProduct)
	admin.DELETE("/products/:id", h.adminDeleteProduct)
	admin.POST("/import-products", h.adminImportProducts)
	admin.GET("/orders", h.adminListOrders)
	admin.POST("/orders", h.adminCreateOrder)
	admin.PATCH("/orders/:id/status", h.adminUpdateOrderStatus)
	admin.POST("/catalog/reload", h.adminReloadCatalog)
	admin.GET("/ads", h.adminListAds)
	admin.POST("/ads", h.adminCreateAd)
	admin.PUT("/ads/:id", h.adminUpdateAd)
	admin.DELETE("/ads/:id", h.adminDeleteAd)
	admin.GET("/content", h.adminListContent)
	admin.PUT("/content", h.adminSaveContent)
	admin.POST("/content", h.adminSaveContent)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", visitorHeader},
		ExposeHeaders: []string{visitorHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

type handlers struct {
	deps   Deps
	logger *logrus.Entry
}
