package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"marketplace/internal/api"
	"marketplace/internal/config"
	"marketplace/internal/consumer"
	"marketplace/internal/repository"
	"marketplace/internal/service"
	"marketplace/migrations"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

func connectDBEnv(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("✅ Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("❌ Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	db, err := connectDBEnv(envOr("DB_HOST", "localhost"), envOr("DB_PORT", "3306"),
		envOr("DB_USER", "root"), os.Getenv("DB_PASS"), envOr("DB_NAME", "marketplace"))
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrateCatalog(db, 3); err != nil {
		log.Fatalf("Failed to migrate catalog tables: %v", err)
	}
	if err := migrations.AutoMigrateUsers(db, 3); err != nil {
		log.Fatalf("Failed to migrate users tables: %v", err)
	}
	if err := migrations.AutoMigrateOrders(db, 3); err != nil {
		log.Fatalf("Failed to migrate orders tables: %v", err)
	}
	if err := migrations.SeedDeliveryPricing(db, 3); err != nil {
		log.Fatalf("Failed to seed delivery pricing: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: envOr("REDIS_ADDR", "localhost:6379"),
	})

	jwtSecret := envOr("JWT_SECRET", "marketplace-secret")

	kafkaWriter := config.NewKafkaWriter("order-topic")
	defer kafkaWriter.Close()

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	deliveryRepo := repository.NewDeliveryPricingRepository(db)
	userRepo := repository.NewUserRepository(db)
	cartStore := repository.NewRedisCartStore(rdb, 30*24*time.Hour)

	catalogService := service.NewCatalogService(productRepo, rdb)
	cartService := service.NewCartService(cartStore, catalogService)
	orderService := service.NewOrderService(orderRepo, deliveryRepo, catalogService, cartStore, kafkaWriter)
	userService := service.NewUserService(userRepo, rdb, jwtSecret)

	cartHandler := api.NewCartHandler(cartService)
	orderHandler := api.NewOrderHandler(orderService)
	catalogHandler := api.NewCatalogHandler(catalogService, categoryRepo)
	userHandler := api.NewUserHandler(userService)

	kafkaReader := config.NewKafkaReader("order-topic", "stock-consumer")
	stockConsumer := consumer.NewConsumer(kafkaReader, orderRepo, productRepo)
	go stockConsumer.Start(context.Background())

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     40,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))
	e.Use(api.SessionMiddleware())
	e.Use(api.OptionalAuthMiddleware(jwtSecret))

	g := e.Group("/api")

	g.GET("/basket", cartHandler.GetCart)
	g.POST("/basket", cartHandler.AddToCart)
	g.DELETE("/basket", cartHandler.RemoveFromCart)

	g.GET("/orders", orderHandler.ListOrders)
	g.POST("/orders", orderHandler.CreateOrder)
	g.GET("/order/:id", orderHandler.GetOrder)
	g.POST("/order/:id", orderHandler.ConfirmOrder)
	g.POST("/payment/:id", orderHandler.CreatePayment)

	g.GET("/catalog", catalogHandler.Catalog)
	g.GET("/categories", catalogHandler.Categories)
	g.GET("/tags", catalogHandler.Tags)
	g.GET("/sales", catalogHandler.Sales)
	g.GET("/banners", catalogHandler.Banners)
	g.GET("/products/popular", catalogHandler.Popular)
	g.GET("/products/limited", catalogHandler.Limited)
	g.GET("/product/:id", catalogHandler.Product)
	g.GET("/product/:id/reviews", catalogHandler.Reviews)
	g.POST("/product/:id/reviews", catalogHandler.AddReview)

	g.POST("/sign-up", userHandler.SignUp)
	g.POST("/sign-in", userHandler.SignIn)
	g.POST("/sign-out", userHandler.SignOut)

	profile := g.Group("/profile")
	profile.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.JwtCustomClaims)
		},
	}))
	profile.GET("", userHandler.GetProfile)
	profile.POST("", userHandler.UpdateProfile)
	profile.POST("/password", userHandler.ChangePassword)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "marketplace",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(":8080"))
}
