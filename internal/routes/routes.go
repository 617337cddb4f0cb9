package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/studioflow/shoot-scheduler/internal/audit"
	"github.com/studioflow/shoot-scheduler/internal/cache"
	"github.com/studioflow/shoot-scheduler/internal/config"
	"github.com/studioflow/shoot-scheduler/internal/events"
	"github.com/studioflow/shoot-scheduler/internal/handlers"
	infraRepo "github.com/studioflow/shoot-scheduler/internal/infra/repository"
	"github.com/studioflow/shoot-scheduler/internal/middleware"
	"github.com/studioflow/shoot-scheduler/internal/timezone"
	ucBooking "github.com/studioflow/shoot-scheduler/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	slotCache := cache.New(cfg.RedisAddr)

	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		p, err := events.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("events disabled: %v", err)
		} else {
			publisher = p
		}
	}

	loc := timezone.Location(cfg.Timezone)

	// ======================================================
	// USE CASES — BOOKING
	// ======================================================
	listSlotsUC := ucBooking.NewListSlots(bookingRepo, slotCache)

	requestSlotsUC := ucBooking.NewRequestSlots(bookingRepo, slotCache, publisher)
	confirmSlotUC := ucBooking.NewConfirmSlot(bookingRepo, slotCache, publisher)
	denySlotUC := ucBooking.NewDenySlot(bookingRepo, slotCache, publisher)

	updateAvailabilityUC := ucBooking.NewUpdateAvailability(bookingRepo, slotCache)

	generateSlotsUC := ucBooking.NewGenerateSlots(
		bookingRepo,
		slotCache,
		loc,
		cfg.SlotDayStartHour,
		cfg.SlotDayEndHour,
		cfg.GenerateDaysAhead,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, auditDispatcher)
	projectHandler := handlers.NewProjectHandler(db, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	slotHandler := handlers.NewSlotHandler(
		listSlotsUC,
		requestSlotsUC,
		confirmSlotUC,
		denySlotUC,
		updateAvailabilityUC,
		generateSlotsUC,
		cfg.Timezone,
	)

	// ======================================================
	// OBSERVABILITY
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA (centro)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/slots/available", slotHandler.ListAvailable)
			secured.POST("/slots/request", slotHandler.Request)

			secured.POST("/projects", projectHandler.Create)
			secured.GET("/projects", projectHandler.List)
			secured.GET("/projects/:id", projectHandler.Get)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("/slots", slotHandler.ListAll)
				admin.POST("/slots/confirm", slotHandler.Confirm)
				admin.POST("/slots/deny", slotHandler.Deny)
				admin.PATCH("/slots/availability", slotHandler.UpdateAvailability)
				admin.POST("/slots/generate", slotHandler.Generate)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}

	// ======================================================
	// GATILHO AGENDADO (secret compartilhado, sem identidade)
	// ======================================================
	internal := r.Group("/internal")
	internal.Use(middleware.SecretGuard(cfg))
	{
		internal.POST("/generate-daily-slots", slotHandler.GenerateDaily)
	}
}
