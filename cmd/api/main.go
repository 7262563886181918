package main

import (
	"log"
	"os"
	"time"

	"github.com/evrental/evrental-backend/internal/database"
	"github.com/evrental/evrental-backend/internal/handlers"
	"github.com/evrental/evrental-backend/internal/middleware"
	"github.com/evrental/evrental-backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Domain services
	registry := services.NewVehicleRegistry(db, hub)
	bookings := services.NewBookingService(db, hub)
	inspections := services.NewInspectionRecorder(db)
	rentals := services.NewRentalService(db, inspections, hub)
	payments := services.NewPaymentService(db)

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored inspection photos
	if !services.IsUsingS3() {
		uploadDir := os.Getenv("UPLOAD_DIR")
		if uploadDir == "" {
			uploadDir = "/app/uploads"
		}
		r.Static("/uploads", uploadDir)
	}

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		api.GET("/stations", handlers.GetStations(db))
		api.GET("/stations/:id", handlers.GetStation(db))
		api.GET("/vehicles/available", handlers.GetAvailableVehicles(registry))

		// WebSocket connection for the staff event stream
		api.GET("/ws", middleware.AuthMiddleware(), handlers.HandleWebSocket(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/users/profile", handlers.GetProfile(db))

			vehicles := protected.Group("/vehicles")
			{
				vehicles.GET("/:id", handlers.GetVehicle(registry))
				vehicles.GET("/:id/status", handlers.GetVehicleStatus(registry))
			}

			bookingRoutes := protected.Group("/bookings")
			{
				bookingRoutes.POST("", middleware.RequireRoles("renter"), handlers.CreateBooking(bookings))
				bookingRoutes.GET("/me", middleware.RequireRoles("renter"), handlers.GetMyBookings(bookings))
				bookingRoutes.GET("/:id", handlers.GetBooking(bookings))
				bookingRoutes.POST("/:id/cancel", middleware.RequireRoles("renter"), handlers.CancelBooking(bookings))
			}

			rentalRoutes := protected.Group("/rentals")
			{
				rentalRoutes.GET("/me", middleware.RequireRoles("renter"), handlers.GetMyRentals(rentals))
				rentalRoutes.GET("/:id", handlers.GetRental(rentals))
				rentalRoutes.GET("/:id/inspections", handlers.GetRentalInspections(inspections))
				rentalRoutes.GET("/:id/payments", handlers.GetRentalPayments(payments))
			}

			protected.GET("/payments/me", handlers.GetMyPayments(payments))

			// Staff routes
			staff := protected.Group("/staff")
			staff.Use(middleware.RequireRoles("staff", "admin"))
			{
				staff.POST("/bookings/:id/confirm", handlers.ConfirmBooking(bookings))
				staff.GET("/stations/:stationId/bookings", handlers.GetStationBookings(bookings))

				staff.POST("/rentals/checkout", handlers.CheckOut(rentals))
				staff.POST("/rentals/:id/checkin", handlers.CheckIn(rentals))
				staff.GET("/rentals/active", handlers.GetActiveRentals(rentals))
				staff.GET("/stations/:stationId/rentals", handlers.GetStationRentals(rentals))

				staff.GET("/stations/:stationId/vehicles", handlers.GetStationVehicles(registry))
				staff.PATCH("/vehicles/:id/status", handlers.UpdateVehicleStatus(registry))
				staff.PATCH("/vehicles/:id/battery", handlers.UpdateVehicleBattery(registry))

				staff.POST("/payments", handlers.CreatePayment(payments))
				staff.POST("/uploads/inspections", handlers.UploadInspectionImage())
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
