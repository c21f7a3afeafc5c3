package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"partstore/internal/cache"
	"partstore/internal/config"
	"partstore/internal/database"
	"partstore/internal/handlers"
	"partstore/internal/middleware"
	"partstore/internal/notify"
	"partstore/internal/realtime"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureBlogIndexes(db); err != nil {
		log.Printf("blog index warning: %v", err)
	}
	if err := database.EnsureCommentIndexes(db); err != nil {
		log.Printf("comment index warning: %v", err)
	}

	reportCache := cache.New(cache.DefaultTTL, cache.DefaultSweepInterval)

	mailer := &notify.Mailer{
		Host: config.AppEnv.SMTPHost,
		Port: config.AppEnv.SMTPPort,
		User: config.AppEnv.SMTPUser,
		Pass: config.AppEnv.SMTPPass,
		From: config.AppEnv.SMTPFrom,
	}

	var publisher *notify.Publisher
	if config.AppEnv.AMQPURL != "" {
		publisher, err = notify.NewPublisher(config.AppEnv.AMQPURL)
		if err != nil {
			log.Printf("amqp unavailable, order events disabled: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	var hub *realtime.Hub
	if config.AppEnv.RealtimeEnabled {
		hub = realtime.NewHub()
	}

	notifiers := handlers.Notifiers{Mailer: mailer, Publisher: publisher, Hub: hub}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.POST("/api/auth/register", handlers.Register(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AdminSecretCode,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/api/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/api/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/api/auth/logout", handlers.Logout(db))
	r.GET("/api/auth/me", middleware.RequireAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	r.GET("/api/products", handlers.GetProducts(db))
	r.GET("/api/products/:id", handlers.GetProduct(db))

	r.GET("/api/blogs", handlers.GetBlogs(db))
	r.GET("/api/blogs/:slug", handlers.GetBlogBySlug(db))
	r.GET("/api/blogs/:slug/comments", handlers.GetBlogComments(db))

	authed := r.Group("/api")
	authed.Use(middleware.RequireAuth(config.AppEnv.JWTSecret))
	{
		authed.GET("/cart", handlers.GetCart(db))
		authed.POST("/cart", handlers.AddToCart(db))
		authed.PUT("/cart", handlers.UpdateCartItem(db))
		authed.DELETE("/cart", handlers.RemoveFromCart(db))

		authed.POST("/orders", handlers.CreateOrder(db, notifiers))
		authed.GET("/orders", handlers.GetOrders(db))
		authed.GET("/orders/:id", handlers.GetOrder(db))

		authed.POST("/blogs/:slug/comments", handlers.CreateComment(db))

		authed.GET("/user/addresses", handlers.GetUserAddresses(db))
		authed.POST("/user/addresses", handlers.CreateUserAddress(db))
		authed.PUT("/user/addresses/:id", handlers.UpdateUserAddress(db))
		authed.DELETE("/user/addresses/:id", handlers.DeleteUserAddress(db))
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAuth(config.AppEnv.JWTSecret), middleware.RequireAdmin(db))
	{
		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.GET("/products/:id", handlers.GetProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))
		admin.PUT("/products/bulk-price", handlers.BulkUpdatePrices(db))

		admin.GET("/orders", handlers.GetOrders(db))
		admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus(db))

		admin.GET("/users", handlers.GetAllUsers(db))
		admin.GET("/users/:id", handlers.GetUser(db))
		admin.PUT("/users/:id", handlers.UpdateUser(db))
		admin.DELETE("/users/:id", handlers.DeleteUser(db))

		admin.GET("/blogs", handlers.GetAllBlogs(db))
		admin.POST("/blogs", handlers.CreateBlog(db))
		admin.PUT("/blogs/:id", handlers.UpdateBlog(db))
		admin.DELETE("/blogs/:id", handlers.DeleteBlog(db))

		admin.GET("/comments", handlers.GetAllComments(db))
		admin.PUT("/comments/:id", handlers.UpdateComment(db))
		admin.DELETE("/comments/:id", handlers.DeleteComment(db))

		admin.GET("/revenue", handlers.GetRevenue(db, reportCache))
		admin.GET("/clv", handlers.GetCLV(db, reportCache))
		admin.GET("/stock-alerts", handlers.GetStockAlerts(db, reportCache))
		admin.GET("/inventory-turnover", handlers.GetInventoryTurnover(db, reportCache))
		admin.GET("/reports", handlers.GetReports(db, reportCache))
		admin.GET("/insights", handlers.GetInsights(db, reportCache))
	}

	if hub != nil {
		// Browsers cannot set Authorization headers on websocket dials, so
		// the token rides in the query string.
		r.GET("/api/ws/orders", requireWSToken(config.AppEnv.JWTSecret), hub.Handle())
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

func requireWSToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := middleware.ParseUserToken(c.Query("token"), secret); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}
