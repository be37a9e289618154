package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/home-services-api/internal/audit"
	"github.com/BruksfildServices01/home-services-api/internal/config"
	"github.com/BruksfildServices01/home-services-api/internal/handlers"
	infraRepo "github.com/BruksfildServices01/home-services-api/internal/infra/repository"
	"github.com/BruksfildServices01/home-services-api/internal/middleware"
	"github.com/BruksfildServices01/home-services-api/internal/models"
	"github.com/BruksfildServices01/home-services-api/internal/notifier"
	"github.com/BruksfildServices01/home-services-api/internal/payments/stripe"
	"github.com/BruksfildServices01/home-services-api/internal/settings"
	"github.com/BruksfildServices01/home-services-api/internal/storage"
	ucBooking "github.com/BruksfildServices01/home-services-api/internal/usecase/booking"
	ucWebhook "github.com/BruksfildServices01/home-services-api/internal/usecase/webhook"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.Logger,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	eventStore := infraRepo.NewPaymentEventGormStore(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	mailer := notifier.NewSMTP(cfg)
	notifyDispatcher := notifier.NewDispatcher(mailer, log)

	paymentProvider := stripe.NewClient(cfg.StripeSecretKey)
	commissionSettings := settings.NewCommissionSettings(db, rdb, log, cfg.DefaultCommissionBps)

	uploader := storage.NewUploader(cfg)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	requestBookingUC := ucBooking.NewRequestBooking(
		bookingRepo,
		auditDispatcher,
	)

	acceptBookingUC := ucBooking.NewAcceptBooking(
		bookingRepo,
		paymentProvider,
		commissionSettings,
		notifyDispatcher,
		auditDispatcher,
		log,
	)

	completeBookingUC := ucBooking.NewCompleteBooking(
		bookingRepo,
		notifyDispatcher,
		auditDispatcher,
	)

	cancelBookingUC := ucBooking.NewCancelBooking(
		bookingRepo,
		notifyDispatcher,
		auditDispatcher,
	)

	listBookingsUC := ucBooking.NewListBookings(bookingRepo)
	getBookingUC := ucBooking.NewGetBooking(bookingRepo)

	// ======================================================
	// USE CASES — CONCILIAÇÃO
	// ======================================================
	reconciler := ucWebhook.NewReconciler(
		bookingRepo,
		eventStore,
		auditDispatcher,
		log,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	vendorHandler := handlers.NewVendorHandler(db, uploader)
	vendorServiceHandler := handlers.NewVendorServiceHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)

	bookingHandler := handlers.NewBookingHandler(
		requestBookingUC,
		acceptBookingUC,
		completeBookingUC,
		cancelBookingUC,
		listBookingsUC,
		getBookingUC,
		cfg.Currency,
	)

	webhookHandler := handlers.NewWebhookHandler(
		cfg.StripeWebhookSecret,
		reconciler,
		auditDispatcher,
		log,
	)

	adminHandler := handlers.NewAdminHandler(db, commissionSettings)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PÚBLICO
		// ------------------------------
		api.GET("/vendors", vendorHandler.ListVendors)
		api.GET("/vendors/:id", vendorHandler.GetVendor)
		api.GET("/vendors/:id/reviews", reviewHandler.ListForVendor)

		// ------------------------------
		// WEBHOOK (assinado, sem JWT)
		// ------------------------------
		api.POST("/webhooks/payments", webhookHandler.HandlePaymentEvents)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVADO
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// BOOKINGS (cliente e prestador)
			// ------------------------------
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id/accept", bookingHandler.Accept)
			secured.PATCH("/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)

			secured.POST("/reviews", reviewHandler.Create)

			// ------------------------------
			// PAINEL DO PRESTADOR
			// ------------------------------
			vendor := secured.Group("/me/vendor")
			vendor.Use(middleware.RequireVendor())
			{
				vendor.GET("/profile", vendorHandler.GetMyProfile)
				vendor.PATCH("/profile", vendorHandler.UpdateMyProfile)
				vendor.POST("/profile/photo", vendorHandler.UploadPhoto)
				vendor.POST("/payout-account", vendorHandler.LinkPayoutAccount)

				vendor.GET("/services", vendorServiceHandler.List)
				vendor.POST("/services", vendorServiceHandler.Create)
				vendor.PATCH("/services/:id", vendorServiceHandler.Update)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/commission", adminHandler.GetCommission)
				admin.PUT("/commission", adminHandler.UpdateCommission)
				admin.GET("/audit-logs", adminHandler.ListAuditLogs)
			}
		}
	}
}
