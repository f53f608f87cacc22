package main

import (
	"log"
	"time"

	"github.com/dwisetyo88/bimbel_online/database"
	"github.com/dwisetyo88/bimbel_online/jobs"
	"github.com/dwisetyo88/bimbel_online/notifications"
	"github.com/dwisetyo88/bimbel_online/routes"
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
	notifications.InitEmailService()

	c := cron.New()
	c.AddFunc("0 * * * *", jobs.SendSessionReminders)
	c.Start()
	log.Println("✅ Cron job for session reminders scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "Bimbel Online",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
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
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.PublicRoutes(app)
	routes.AuthRoutes(app)
	routes.BookingRoutes(app)
	routes.PaymentRoutes(app)
	routes.TeacherRoutes(app)
	routes.AdminRoutes(app)

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
