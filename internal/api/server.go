package api

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/workzen/hr-service/config"
	"github.com/workzen/hr-service/infra/queue"
	"github.com/workzen/hr-service/internal/api/rest/handlers"
	"github.com/workzen/hr-service/internal/clients/vision"
	"github.com/workzen/hr-service/internal/domain"
	"github.com/workzen/hr-service/internal/helper"
	"github.com/workzen/hr-service/internal/interfaces"
	"github.com/workzen/hr-service/internal/repository"
	"github.com/workzen/hr-service/internal/services"
	"github.com/workzen/hr-service/pkg/cloudinary"
	"github.com/workzen/hr-service/pkg/crypto"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
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

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260114

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.Employee{},
		&domain.OnboardingRequest{},
		&domain.EmailOTP{},
		&domain.AuditLog{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	seedRoles(db)

	if err := db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error; err != nil {
		log.Printf("migration unlock error: %v", err)
	}

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	cld, err := cloudinary.New()
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	up := cloudinary.NewCloudinaryUploader(cld)

	// OCR is optional; the review screen degrades to manual entry when
	// Vision credentials are not configured.
	var ocr interfaces.TextExtractor
	if visionClient, err := vision.New(context.Background()); err != nil {
		log.Printf("vision client unavailable, ocr disabled: %v", err)
	} else {
		ocr = visionClient
	}

	cipher, err := crypto.NewFieldCipher(cfg.AppSecret)
	if err != nil {
		log.Fatalf("field cipher init error: %v", err)
	}

	authHelper := helper.SetupAuth(cfg.AppSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	onboardingRepo := repository.NewOnboardingRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ---------- Services ----------
	allocator := services.NewEmployeeIDAllocator(employeeRepo, cfg.CompanyCode)
	authSvc := services.NewAuthService(userRepo, authHelper, kafkaProducer, cfg.FrontendBaseURL)
	otpSvc := services.NewOTPService(otpRepo, userRepo, auditRepo, kafkaProducer, authHelper, cfg.Env)
	userSvc := services.NewUserService(userRepo, roleRepo, authHelper)
	employeeSvc := services.NewEmployeeService(employeeRepo, allocator, cipher)
	onboardingSvc := services.NewOnboardingService(
		onboardingRepo,
		userRepo,
		allocator,
		cipher,
		up,
		ocr,
		kafkaProducer,
		authHelper,
		cfg.FrontendBaseURL,
	)

	// ---------- Handlers ----------
	handlers.NewAuthHandler(authSvc, otpSvc, authHelper, cfg.Env).SetupRoutes(app)
	handlers.NewUserHandler(userSvc, authHelper, cfg.Env).SetupRoutes(app)
	handlers.NewEmployeeHandler(employeeSvc, authHelper, cfg.Env).SetupRoutes(app)
	handlers.NewOnboardingHandler(onboardingSvc, authHelper, cfg.Env, cfg.MaxUploadSizeMB).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

func seedRoles(db *gorm.DB) {
	roles := []domain.Role{
		{Code: domain.RoleAdmin, Name: "Administrator", Description: "full access, user management"},
		{Code: domain.RoleHROfficer, Name: "HR Officer", Description: "onboarding and employee management"},
		{Code: domain.RoleManager, Name: "Manager", Description: "team visibility"},
		{Code: domain.RoleEmployee, Name: "Employee", Description: "self-service"},
		{Code: domain.RoleContractor, Name: "Contractor", Description: "limited self-service"},
	}

	for _, role := range roles {
		var r domain.Role
		err := db.Where("code = ?", role.Code).First(&r).Error
		if err == gorm.ErrRecordNotFound {
			_ = db.Create(&role).Error
		}
	}
}
