package main

import (
	"log"
	"time"

	"github.com/citytransit/bus_pass_backend/cache"
	config "github.com/citytransit/bus_pass_backend/configs"
	"github.com/citytransit/bus_pass_backend/database"
	"github.com/citytransit/bus_pass_backend/handlers"
	"github.com/citytransit/bus_pass_backend/jobs"
	"github.com/citytransit/bus_pass_backend/notifications"
	"github.com/citytransit/bus_pass_backend/payments"
	"github.com/citytransit/bus_pass_backend/routes"
	"github.com/citytransit/bus_pass_backend/services"
	"github.com/citytransit/bus_pass_backend/storage"
	"github.com/citytransit/bus_pass_backend/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	cache.ConnectRedis()
	notifications.InitEmailService()

	var otpStore cache.OtpStore
	if cache.Client != nil {
		otpStore = cache.NewRedisOtpStore(cache.Client)
	} else {
		otpStore = cache.NewMemoryOtpStore()
	}

	blobs, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("🔥 Failed to initialize blob storage: %v", err)
	}

	gateway := payments.NewRazorpayGateway(
		config.Config("RAZORPAY_KEY_ID"),
		config.Config("RAZORPAY_KEY_SECRET"),
	)

	passSvc := services.NewPassService(database.DB)
	paymentSvc := services.NewPaymentService(database.DB, gateway, passSvc)
	otpSvc := services.NewOtpService(otpStore)
	sosSvc := services.NewSosService(database.DB)

	authHandler := handlers.NewAuthHandler(otpSvc)
	otpHandler := handlers.NewOtpHandler(otpSvc)
	passHandler := handlers.NewPassHandler(passSvc, blobs)
	paymentHandler := handlers.NewPaymentHandler(paymentSvc)
	adminHandler := handlers.NewAdminHandler(passSvc)
	sosHandler := handlers.NewSosHandler(sosSvc)
	documentHandler := handlers.NewDocumentHandler(blobs)

	c := cron.New()
	c.AddFunc("0 8 * * *", jobs.SendExpiryReminders)
	go c.Start()
	log.Println("✅ Cron job for expiry reminders scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Bus Pass Backend",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Bus Pass API",
		})
	})

	routes.AuthRoutes(app, authHandler, otpHandler)
	routes.PassRoutes(app, passHandler, documentHandler)
	routes.PaymentRoutes(app, paymentHandler)
	routes.AdminRoutes(app, adminHandler, sosHandler)
	routes.SosRoutes(app, sosHandler)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
