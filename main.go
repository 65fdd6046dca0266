package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hefeholuwa/secure-notes-vault/config"
	"github.com/hefeholuwa/secure-notes-vault/controller"
	"github.com/hefeholuwa/secure-notes-vault/dao"
	"github.com/hefeholuwa/secure-notes-vault/logic"
	"github.com/hefeholuwa/secure-notes-vault/middleware"
	"github.com/hefeholuwa/secure-notes-vault/models"
	"github.com/hefeholuwa/secure-notes-vault/pkg"
)

func main() {
	// Initialize config (.env first so env overrides are visible)
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run main.go <config.yaml>")
	}
	configFile := os.Args[1]
	if err := config.LoadConfig(configFile); err != nil {
		log.Fatalf("Failed to load config from %s: %v", configFile, err)
	}

	pkg.SetupLogging()

	// Initialize database
	db, err := gorm.Open(postgres.Open(config.GlobalConfig.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Note{},
		&models.ChatMessage{},
		&models.CreditTransaction{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize ledger event publisher
	var publisher pkg.EventPublisher = pkg.NoopPublisher{}
	if len(config.GlobalConfig.Kafka.Brokers) > 0 {
		publisher = pkg.NewKafkaPublisher(config.GlobalConfig.Kafka.Brokers, config.GlobalConfig.Kafka.Topic)
		slog.Info("Ledger events enabled", "brokers", config.GlobalConfig.Kafka.Brokers, "topic", config.GlobalConfig.Kafka.Topic)
	}

	// Initialize chat client
	chatClient := pkg.NewChatClient(
		config.GlobalConfig.Chat.APIKey,
		config.GlobalConfig.Chat.BaseURL,
		config.GlobalConfig.Chat.Model,
	)

	// Initialize DAOs
	userDAO := dao.NewUserDAO(db)
	noteDAO := dao.NewNoteDAO(db)
	messageDAO := dao.NewChatMessageDAO(db)
	creditDAO := dao.NewCreditDAO(db)

	// Initialize Logics
	creditLogic := logic.NewCreditLogic(creditDAO, publisher)
	userLogic := logic.NewUserLogic(userDAO, creditLogic)
	noteLogic := logic.NewNoteLogic(noteDAO)
	gateway := logic.NewGateway(chatClient)
	aiLogic := logic.NewAILogic(noteDAO, messageDAO, creditLogic, gateway)

	// Initialize Controllers
	authCtrl := controller.NewAuthController(userLogic)
	noteCtrl := controller.NewNoteController(noteLogic)
	aiCtrl := controller.NewAIController(aiLogic)

	// Rate limiter tiers
	globalLimiter := middleware.NewRateLimiter(200, 15*time.Minute,
		"Overall request limit exceeded. Please try again later.")
	authLimiter := middleware.NewRateLimiter(10, 15*time.Minute,
		"Too many authentication attempts. Please try again after 15 minutes.")
	apiLimiter := middleware.NewRateLimiter(150, 15*time.Minute,
		"API request limit reached. Please try again in 15 minutes.")
	aiLimiter := middleware.NewRateLimiter(50, time.Hour,
		"AI processing capacity reached. Please slow down and try again in an hour.")

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger, globalLimiter.Handle)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/api/auth")
	auth.POST("/register", authLimiter.Handle, authCtrl.Register)
	auth.POST("/login", authLimiter.Handle, authCtrl.Login)
	auth.GET("/me", middleware.Auth, apiLimiter.Handle, authCtrl.GetProfile)

	notes := r.Group("/api/notes", middleware.Auth, apiLimiter.Handle)
	notes.POST("", noteCtrl.CreateNote)
	notes.GET("", noteCtrl.GetNotes)
	notes.GET("/:id", noteCtrl.GetNote)
	notes.PATCH("/:id", noteCtrl.UpdateNote)
	notes.DELETE("/:id", noteCtrl.DeleteNote)
	notes.POST("/:id/tags", aiLimiter.Handle, aiCtrl.TagNote)
	notes.GET("/:id/chat", aiCtrl.GetChatHistory)
	notes.POST("/:id/chat", aiLimiter.Handle, aiCtrl.ChatWithNote)

	// Run server
	slog.Info("Server starting", "port", config.GlobalConfig.Server.Port)
	if err := r.Run(fmt.Sprintf(":%d", config.GlobalConfig.Server.Port)); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
