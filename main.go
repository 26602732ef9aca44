package main

import (
	"log"
	"time"

	"lms/config"
	courseControllers "lms/controllers/course"
	educatorControllers "lms/controllers/educator"
	userControllers "lms/controllers/user"
	webhookControllers "lms/controllers/webhook"
	"lms/database"
	"lms/models"
	"lms/payment"
	"lms/routers/courseRoutes"
	"lms/routers/educatorRoutes"
	"lms/routers/userRoutes"
	"lms/routers/webhookRoutes"
	"lms/services"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}

	payments := payment.NewClient(config.AppConfig.PaymentApiURL, config.AppConfig.PaymentSecretKey)

	userService := &services.UserService{DB: db}
	courseService := &services.CourseService{DB: db}
	progressService := &services.ProgressService{DB: db}
	ratingService := &services.RatingService{DB: db}
	educatorService := &services.EducatorService{DB: db}
	purchaseService := &services.PurchaseService{
		DB:       db,
		Payments: payments,
		Currency: config.AppConfig.Currency,
		Notify: func(user models.User, course models.Course) {
			utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)
		},
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	courseRoutes.SetupCourseRoutes(app, &courseControllers.CourseController{Courses: courseService})
	userRoutes.SetupUserRoutes(app, &userControllers.UserController{
		Users:     userService,
		Purchases: purchaseService,
		Progress:  progressService,
		Ratings:   ratingService,
	})
	educatorRoutes.SetupEducatorRoutes(app, db, &educatorControllers.EducatorController{
		Users:     userService,
		Educators: educatorService,
	})
	webhookRoutes.SetupWebhookRoutes(app, &webhookControllers.WebhookController{
		Purchases: purchaseService,
		Users:     userService,
	})

	ttl := time.Duration(config.AppConfig.PendingPurchaseTTLHours) * time.Hour
	utils.InitializePurchaseSweeper(purchaseService, ttl)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
