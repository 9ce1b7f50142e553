package routes

import (
	"colisso/internal/adapters/http/handlers"
	"colisso/internal/adapters/http/middleware"
	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/config"
	"colisso/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	tripRepo := repositories.NewTripRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	parcelRepo := repositories.NewParcelRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)
	deliveryRepo := repositories.NewDeliveryRepository(db)
	fundRequestRepo := repositories.NewFundRequestRepository(db)
	memberRepo := repositories.NewStationMemberRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, roleRepo, cfg)
	userService := services.NewUserService(userRepo, roleRepo, assignmentRepo, locationRepo)
	locationService := services.NewLocationService(locationRepo)
	tripService := services.NewTripService(tripRepo, reservationRepo)
	reservationService := services.NewReservationService(reservationRepo, tripRepo)
	parcelService := services.NewParcelService(parcelRepo, historyRepo, locationRepo, userRepo)
	deliveryService := services.NewDeliveryService(deliveryRepo, parcelRepo, historyRepo, userRepo)
	managerService := services.NewManagerService(fundRequestRepo, memberRepo, locationRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	locationHandler := handlers.NewLocationHandler(locationService)
	tripHandler := handlers.NewTripHandler(tripService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	parcelHandler := handlers.NewParcelHandler(parcelService)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)
	managerHandler := handlers.NewManagerHandler(managerService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Public tracking, rate limited per IP
	apiV1.Get("/track/:code", middleware.TrackingRateLimiter(), parcelHandler.Track)

	// Everything below requires authentication. Station scope loads the
	// caller's active station assignments for station-bound roles.
	auth := middleware.AuthMiddleware(cfg)
	scope := middleware.StationScope(assignmentRepo)

	// User management (admin)
	userRoutes := apiV1.Group("/users", auth, middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile (any authenticated user)
	profileRoutes := apiV1.Group("/profile", auth)
	setupProfileRoutes(profileRoutes, userHandler)

	// Roles and station assignments (admin)
	apiV1.Get("/roles", auth, middleware.AdminOnly(), userHandler.ListRoles)
	assignmentRoutes := apiV1.Group("/assignments", auth, middleware.AdminOnly())
	setupAssignmentRoutes(assignmentRoutes, userHandler)

	// Location hierarchy. Reads are open to staff, writes are admin only.
	locationRoutes := apiV1.Group("/locations", auth)
	setupLocationRoutes(locationRoutes, locationHandler, managerHandler)

	// Trips (counter staff manage, everyone authenticated can view stats)
	tripRoutes := apiV1.Group("/trips", auth, scope)
	setupTripRoutes(tripRoutes, tripHandler, reservationHandler)

	// Reservations
	reservationRoutes := apiV1.Group("/reservations", auth, scope)
	setupReservationRoutes(reservationRoutes, reservationHandler)

	// Parcels
	parcelRoutes := apiV1.Group("/parcels", auth, scope)
	setupParcelRoutes(parcelRoutes, parcelHandler)

	// Deliveries
	deliveryRoutes := apiV1.Group("/deliveries", auth)
	setupDeliveryRoutes(deliveryRoutes, deliveryHandler)

	// Fund requests and station rosters
	fundRoutes := apiV1.Group("/fund-requests", auth, middleware.ManagerOrAdmin())
	setupFundRequestRoutes(fundRoutes, managerHandler)

	memberRoutes := apiV1.Group("/station-members", auth, middleware.ManagerOrAdmin())
	setupMemberRoutes(memberRoutes, managerHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes, rate limited against brute force
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Get("/sessions", middleware.AuthMiddleware(cfg), handler.GetSessions)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Post("/", handler.CreateUser)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupProfileRoutes configures profile routes (authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupAssignmentRoutes configures station assignment routes (admin only)
func setupAssignmentRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListAssignments)
	router.Post("/", handler.AssignStation)
	router.Post("/:id/end", handler.EndAssignment)
	router.Delete("/:id", handler.DeleteAssignment)
}

// setupLocationRoutes configures the country, city, district and station
// hierarchy. Lookups carry a public cache header since reference data
// changes rarely.
func setupLocationRoutes(router fiber.Router, handler *handlers.LocationHandler, managerHandler *handlers.ManagerHandler) {
	cached := middleware.ReferenceDataCache()
	admin := middleware.AdminOnly()

	router.Get("/countries", cached, handler.ListCountries)
	router.Get("/countries/:id", handler.GetCountry)
	router.Post("/countries", admin, handler.CreateCountry)
	router.Put("/countries/:id", admin, handler.UpdateCountry)
	router.Delete("/countries/:id", admin, handler.DeleteCountry)

	router.Get("/cities", cached, handler.ListCities)
	router.Get("/cities/:id", handler.GetCity)
	router.Post("/cities", admin, handler.CreateCity)
	router.Put("/cities/:id", admin, handler.UpdateCity)
	router.Delete("/cities/:id", admin, handler.DeleteCity)

	router.Get("/districts", cached, handler.ListDistricts)
	router.Get("/districts/:id", handler.GetDistrict)
	router.Post("/districts", admin, handler.CreateDistrict)
	router.Put("/districts/:id", admin, handler.UpdateDistrict)
	router.Delete("/districts/:id", admin, handler.DeleteDistrict)

	router.Get("/stations", cached, handler.ListStations)
	router.Get("/stations/:id", handler.GetStation)
	router.Post("/stations", admin, handler.CreateStation)
	router.Put("/stations/:id", admin, handler.UpdateStation)
	router.Delete("/stations/:id", admin, handler.DeleteStation)

	// Station rosters live under the station they belong to
	router.Get("/stations/:id/members", middleware.ManagerOrAdmin(), managerHandler.ListMembers)
}

// setupTripRoutes configures trip management routes
func setupTripRoutes(router fiber.Router, handler *handlers.TripHandler, reservationHandler *handlers.ReservationHandler) {
	counter := middleware.CounterStaff()

	// Any authenticated user can browse departures
	router.Get("/", handler.ListTrips)
	router.Get("/:id", handler.GetTrip)

	router.Post("/", counter, handler.CreateTrip)
	router.Put("/:id", counter, handler.UpdateTrip)
	router.Patch("/:id/status", counter, handler.ChangeStatus)
	router.Delete("/:id", middleware.AdminOnly(), handler.DeleteTrip)
	router.Get("/:id/stats", counter, handler.GetStats)
	router.Get("/:id/reservations", counter, reservationHandler.ListByTrip)
}

// setupReservationRoutes configures seat booking routes
func setupReservationRoutes(router fiber.Router, handler *handlers.ReservationHandler) {
	counter := middleware.CounterStaff()

	// Ticket lookups are registered before the :id routes so the literal
	// segment wins the match
	router.Get("/ticket/:ticket", counter, handler.GetByTicket)
	router.Post("/ticket/:ticket/validate", counter, handler.ValidateByTicket)

	// Clients book and cancel their own seats, staff handle the rest
	router.Post("/", handler.CreateReservation)
	router.Get("/", handler.ListReservations)
	router.Get("/:id", handler.GetReservation)
	router.Put("/:id", handler.UpdateReservation)
	router.Post("/:id/cancel", handler.Cancel)

	router.Post("/:id/payment", counter, handler.RecordPayment)
	router.Post("/:id/validate", counter, handler.Validate)
}

// setupParcelRoutes configures parcel routes
func setupParcelRoutes(router fiber.Router, handler *handlers.ParcelHandler) {
	staff := middleware.ParcelStaff()

	router.Get("/", handler.ListParcels)
	router.Get("/statistics", handler.GetStatistics)
	// Literal segment before the :id routes
	router.Get("/history", staff, handler.ListHistory)
	router.Get("/history/:id", handler.GetHistoryEntry)
	router.Get("/:id", handler.GetParcel)
	router.Get("/:id/history", handler.GetHistory)

	router.Post("/", staff, handler.CreateParcel)
	router.Put("/:id", staff, handler.UpdateParcel)
	router.Patch("/:id/status", staff, handler.ChangeStatus)
	router.Post("/:id/payment", staff, handler.RecordPayment)
	router.Delete("/:id", middleware.AdminOnly(), handler.DeleteParcel)
}

// setupDeliveryRoutes configures last-mile delivery routes
func setupDeliveryRoutes(router fiber.Router, handler *handlers.DeliveryHandler) {
	staff := middleware.ParcelStaff()
	courier := middleware.CourierOnly()

	router.Get("/", middleware.Staff(), handler.ListDeliveries)
	router.Get("/available", middleware.Staff(), handler.ListAvailable)
	router.Get("/:id", middleware.Staff(), handler.GetDelivery)

	router.Post("/", staff, handler.CreateDelivery)
	router.Post("/:id/assign", middleware.Staff(), handler.Assign)
	router.Delete("/:id", staff, handler.Delete)

	// Only the assigned courier can run the delivery itself
	router.Post("/:id/start", courier, handler.Start)
	router.Post("/:id/finish", courier, handler.Finish)
}

// setupFundRequestRoutes configures fund request routes
func setupFundRequestRoutes(router fiber.Router, handler *handlers.ManagerHandler) {
	router.Post("/", handler.CreateFundRequest)
	router.Get("/", handler.ListFundRequests)
	router.Get("/:id", handler.GetFundRequest)

	// Only admins decide on requests
	router.Post("/:id/process", middleware.AdminOnly(), handler.ProcessFundRequest)
}

// setupMemberRoutes configures station roster routes
func setupMemberRoutes(router fiber.Router, handler *handlers.ManagerHandler) {
	router.Post("/", handler.AddMember)
	router.Post("/:id/activate", handler.ActivateMember)
	router.Post("/:id/deactivate", handler.DeactivateMember)
}
