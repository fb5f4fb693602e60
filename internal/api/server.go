package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/somang-dev/church_service/config"
	"github.com/somang-dev/church_service/infra/queue"
	"github.com/somang-dev/church_service/internal/api/rest/handlers"
	"github.com/somang-dev/church_service/internal/domain"
	"github.com/somang-dev/church_service/internal/helper"
	"github.com/somang-dev/church_service/internal/repository"
	"github.com/somang-dev/church_service/internal/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260901

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Transaction{},
		&domain.AuditLog{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	var producer *queue.Producer
	if cfg.KafkaBroker != "" {
		producer = queue.NewProducer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
		)
	} else {
		log.Println("KAFKA_BROKER not set - view invalidation events disabled")
	}

	authHelper := helper.SetupAuth(cfg.AccessSecret)
	cryptoHelper := helper.SetupCrypto(cfg.EncryptionKey)
	limiter := helper.NewLoginLimiter()

	// ---------- Repositories ----------
	auditRepo := repository.NewAuditLogRepository(db)
	userRepo := repository.NewUserRepository(db, auditRepo)
	txRepo := repository.NewTransactionRepository(db, auditRepo)

	// ---------- Services ----------
	userSvc := services.NewUserService(userRepo, authHelper, cryptoHelper, limiter, producer, cfg.AdminSecretKey)
	txSvc := services.NewTransactionService(txRepo, userRepo, cryptoHelper, producer)
	auditSvc := services.NewAuditService(auditRepo)

	// ---------- Handlers ----------
	handlers.NewAuthHandler(userSvc, authHelper).SetupRoutes(app)
	handlers.NewUserHandler(userSvc, authHelper).SetupRoutes(app)
	handlers.NewTransactionHandler(txSvc, authHelper).SetupRoutes(app)
	handlers.NewAuditHandler(auditSvc, authHelper).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}
