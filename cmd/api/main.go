package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/storeapp/ecommerce-api/docs"
	"github.com/storeapp/ecommerce-api/internal/account"
	"github.com/storeapp/ecommerce-api/internal/cart"
	"github.com/storeapp/ecommerce-api/internal/catalog"
	"github.com/storeapp/ecommerce-api/internal/config"
	"github.com/storeapp/ecommerce-api/internal/database"
	"github.com/storeapp/ecommerce-api/internal/events"
	"github.com/storeapp/ecommerce-api/internal/httpx"
	"github.com/storeapp/ecommerce-api/internal/order"
	"github.com/storeapp/ecommerce-api/internal/payment"
)

// @title Storefront API
// @version 1.0
// @description Product catalog, carts, order checkout and payment confirmation.
// @BasePath /
func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	catalogRepo := catalog.NewPGRepo(pool)
	cartRepo := cart.NewPGRepo(pool)
	orderRepo := order.NewPGRepo(pool, cfg.DeliveryFlatFee)
	accountRepo := account.NewPGRepo(pool)

	codec := account.NewTokenCodec(cfg.AuthSecret, cfg.TokenTTL, cfg.ResetTTL)
	var mailer account.Mailer = account.LogMailer{}
	if cfg.SMTPAddr != "" {
		mailer = &account.SMTPMailer{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom}
	}
	resetSvc := &account.ResetService{
		Users:    accountRepo,
		Codec:    codec,
		Mailer:   mailer,
		LinkBase: cfg.ResetLinkBase,
	}
	gateway := payment.NewClient(cfg)

	var producer *events.Producer
	if cfg.KafkaBrokers != "" {
		producer = events.NewProducer(strings.Split(cfg.KafkaBrokers, ","), "order.events")
		defer func() { _ = producer.Close() }()
	}

	verify := func(token string) (httpx.Identity, error) {
		uid, staff, err := codec.ParseSession(token)
		if err != nil {
			return httpx.Identity{}, err
		}
		return httpx.Identity{UserID: uid, Staff: staff}, nil
	}

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authed := httpx.Auth(verify)
	staff := httpx.RequireStaff()

	r.GET("/categories", listCategoriesHandler(catalogRepo))
	r.GET("/categories/:id", getCategoryHandler(catalogRepo))
	r.POST("/categories", authed, staff, createCategoryHandler(catalogRepo))
	r.PUT("/categories/:id", authed, staff, updateCategoryHandler(catalogRepo))
	r.DELETE("/categories/:id", authed, staff, deleteCategoryHandler(catalogRepo))

	r.GET("/products", listProductsHandler(catalogRepo))
	r.GET("/products/grouped-by-category", groupedByCategoryHandler(catalogRepo))
	r.GET("/products/:id", getProductHandler(catalogRepo))
	r.POST("/products", authed, staff, createProductHandler(catalogRepo))
	r.PUT("/products/:id", authed, staff, updateProductHandler(catalogRepo))
	r.DELETE("/products/:id", authed, staff, deleteProductHandler(catalogRepo))
	r.GET("/products/:id/reviews", listReviewsHandler(catalogRepo))
	r.POST("/products/:id/reviews", createReviewHandler(catalogRepo, catalogRepo))
	r.DELETE("/products/:id/reviews/:review_id", authed, staff, deleteReviewHandler(catalogRepo))

	r.POST("/carts", createCartHandler(cartRepo))
	r.GET("/carts/:id", getCartHandler(cartRepo))
	r.DELETE("/carts/:id", deleteCartHandler(cartRepo))
	r.POST("/carts/:id/items", addCartItemHandler(cartRepo))
	r.PATCH("/carts/:id/items/:item_id", updateCartItemHandler(cartRepo))
	r.DELETE("/carts/:id/items/:item_id", removeCartItemHandler(cartRepo))

	r.POST("/auth/register", registerHandler(accountRepo))
	r.POST("/auth/login", loginHandler(accountRepo, codec))

	r.GET("/orders", authed, listOrdersHandler(orderRepo))
	r.POST("/orders", authed, createOrderHandler(orderRepo, producer))
	r.GET("/orders/:id", authed, getOrderHandler(orderRepo))
	r.PATCH("/orders/:id", authed, staff, updateOrderStatusHandler(orderRepo))
	r.DELETE("/orders/:id", authed, staff, deleteOrderHandler(orderRepo))
	r.POST("/orders/:id/pay", authed, payOrderHandler(orderRepo, accountRepo, gateway))
	r.POST("/webhooks/payment", confirmPaymentHandler(orderRepo, gateway, producer))

	r.GET("/profile", authed, getProfileHandler(accountRepo))
	r.POST("/profile", authed, upsertProfileHandler(accountRepo))
	r.PUT("/profile", authed, upsertProfileHandler(accountRepo))

	r.GET("/addresses", authed, listAddressesHandler(accountRepo))
	r.POST("/addresses", authed, createAddressHandler(accountRepo))
	r.GET("/addresses/:id", authed, getAddressHandler(accountRepo))
	r.PUT("/addresses/:id", authed, updateAddressHandler(accountRepo))
	r.DELETE("/addresses/:id", authed, deleteAddressHandler(accountRepo))

	r.POST("/password/reset", requestResetHandler(resetSvc))
	r.POST("/password/reset/confirm", confirmResetHandler(resetSvc))

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	log.Printf("storefront api listening on %s", cfg.HTTPAddr)
	log.Fatal(srv.ListenAndServe())
}
