package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careplushealth/lab-scheduler/internal/audit"
	"github.com/careplushealth/lab-scheduler/internal/config"
	"github.com/careplushealth/lab-scheduler/internal/handlers"
	infraCache "github.com/careplushealth/lab-scheduler/internal/infra/cache"
	infraRepo "github.com/careplushealth/lab-scheduler/internal/infra/repository"
	infraStorage "github.com/careplushealth/lab-scheduler/internal/infra/storage"
	"github.com/careplushealth/lab-scheduler/internal/middleware"
	ucBooking "github.com/careplushealth/lab-scheduler/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	redisClient := infraCache.NewRedisClient(cfg)
	slotCache := infraCache.NewRedisSlotCache(redisClient)

	documentStore := infraStorage.NewS3DocumentStore(cfg)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// 🧠 USE CASES — BOOKING
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo, slotCache)

	nextDatesUC := ucBooking.NewNextAvailableDates(bookingRepo)

	submitUC := ucBooking.NewSubmitAppointment(
		bookingRepo,
		documentStore,
		slotCache,
		auditDispatcher,
	)

	scheduleUC := ucBooking.NewListScheduleByDate(bookingRepo)
	listUC := ucBooking.NewListAppointments(bookingRepo)

	confirmUC := ucBooking.NewConfirmAppointment(bookingRepo, auditDispatcher)
	completeUC := ucBooking.NewCompleteAppointment(bookingRepo, auditDispatcher)
	cancelUC := ucBooking.NewCancelAppointment(bookingRepo, slotCache, auditDispatcher)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	hospitalHandler := handlers.NewHospitalHandler(db)
	labTestHandler := handlers.NewLabTestHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(
		db,
		availabilityUC,
		nextDatesUC,
		submitUC,
		scheduleUC,
		listUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		confirmUC,
		completeUC,
		cancelUC,
	)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/departments", publicHandler.ListDepartments)
			publicAPI.GET("/tests", publicHandler.ListTests)
			publicAPI.GET("/tests/:id", publicHandler.GetTest)
			publicAPI.GET("/tests/:id/next-dates", publicHandler.NextDates)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
			publicAPI.GET("/appointments", publicHandler.ListAppointments)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 STAFF API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/hospital", hospitalHandler.Get)
			secured.PATCH("/me/hospital", hospitalHandler.Update)

			secured.GET("/me/tests", labTestHandler.List)
			secured.POST("/me/tests", labTestHandler.Create)
			secured.PATCH("/me/tests/:id", labTestHandler.Update)
			secured.PUT("/me/tests/:id/schedule", labTestHandler.UpdateSchedule)
			secured.PUT("/me/tests/:id/questions", labTestHandler.UpdateQuestions)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/appointments", appointmentHandler.List)
			secured.GET("/me/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
