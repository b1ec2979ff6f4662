package routes

import (
	"time"

	"shelfwise/internal/adapters/http/handlers"
	"shelfwise/internal/adapters/http/middleware"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/config"
	"shelfwise/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	returnRepo := repositories.NewReturnRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	lendingService := services.NewLendingService(db, bookRepo, loanRepo, returnRepo)
	catalogService := services.NewCatalogService(bookRepo, loanRepo)
	userService := services.NewUserService(userRepo)
	statsService := services.NewStatsService(bookRepo, loanRepo, returnRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	lendingHandler := handlers.NewLendingHandler(lendingService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	userHandler := handlers.NewUserHandler(userService, statsService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Identity routes (public, stricter rate limit)
	app.Post("/signup", middleware.AuthRateLimiter(), authHandler.Signup)
	app.Post("/signin", middleware.AuthRateLimiter(), authHandler.Signin)
	app.Post("/refresh", authHandler.Refresh)
	app.Post("/signout", authHandler.Signout)

	// Lending routes (authenticated members)
	auth := middleware.AuthMiddleware(cfg)
	app.Get("/library", auth, middleware.CacheControl(30*time.Second), lendingHandler.ListAvailable)
	app.Post("/borrow-book", auth, lendingHandler.Borrow)
	app.Post("/return-book", auth, lendingHandler.Return)
	app.Get("/my-loans", auth, middleware.NoCacheHeaders(), lendingHandler.MyLoans)
	app.Get("/my-returns", auth, middleware.NoCacheHeaders(), lendingHandler.MyReturns)

	// Catalog administration (admin only)
	app.Post("/library", auth, middleware.AdminOnly(), catalogHandler.AddBook)
	app.Put("/library/:bookId", auth, middleware.AdminOnly(), catalogHandler.UpdateBook)
	app.Delete("/library/:bookId", auth, middleware.AdminOnly(), catalogHandler.DeleteBook)

	// Member administration (admin only)
	manageRoutes := app.Group("/manage")
	manageRoutes.Use(auth)
	manageRoutes.Use(middleware.AdminOnly())
	manageRoutes.Get("/users", userHandler.ListUsers)
	manageRoutes.Get("/stats", userHandler.GetStats)
	manageRoutes.Get("/overdue", userHandler.ListOverdue)
}
