package routes

import (
	"time"

	"dormify/handlers"
	"dormify/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint group onto the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	registerAuthRoutes(r, hb)
	registerUserRoutes(r, hb)
	registerHousingRoutes(r, hb)
	registerRegistrationRoutes(r, hb)
	registerRenewalRoutes(r, hb)
	registerStudentRoutes(r, hb)
	registerInvoiceRoutes(r, hb)
	registerPaymentRoutes(r, hb)
	registerReportRoutes(r, hb)
	registerFeedbackRoutes(r, hb)
	registerSemesterRoutes(r, hb)
}

func registerAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", hb.SignUpHandler)
		api.POST("/signin", hb.SignInHandler)
		api.POST("/admin/signup", hb.AdminSignUpHandler)
		api.POST("/admin/signin", hb.AdminSignInHandler)

		protected := api.Group("")
		protected.Use(middleware.UserAuth())
		protected.POST("/signout", hb.SignOutHandler)
		protected.PUT("/password", hb.ChangePasswordHandler)
	}
}

func registerUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	api.Use(middleware.UserAuth())
	{
		api.GET("/me", hb.GetProfileHandler)
		api.PUT("/me", hb.UpdateProfileHandler)
	}

	admin := r.Group("/api/admin/users")
	admin.Use(middleware.AdminAuth())
	{
		admin.GET("", hb.GetAllUsersHandler)
		admin.GET("/:id", hb.GetUserHandler)
		admin.PUT("/:id/status", hb.SetUserStatusHandler)
		admin.DELETE("/:id", hb.DeleteUserHandler)
	}
}

func registerHousingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Building and room listings are public so applicants can browse.
	api := r.Group("/api")
	{
		api.GET("/buildings", hb.GetBuildingsHandler)
		api.GET("/buildings/:id", hb.GetBuildingHandler)
		api.GET("/rooms", hb.GetRoomsHandler)
		api.GET("/rooms/:id", hb.GetRoomHandler)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuth())
	{
		admin.POST("/buildings", hb.CreateBuildingHandler)
		admin.PUT("/buildings/:id", hb.UpdateBuildingHandler)
		admin.DELETE("/buildings/:id", hb.DeleteBuildingHandler)

		admin.POST("/rooms", hb.CreateRoomHandler)
		admin.PUT("/rooms/:id", hb.UpdateRoomHandler)
		admin.DELETE("/rooms/:id", hb.DeleteRoomHandler)
	}
}

func registerRegistrationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/registrations")
	api.Use(middleware.UserAuth())
	{
		api.POST("", hb.CreateRegistrationHandler)
		api.GET("/mine", hb.GetMyRegistrationsHandler)
		api.GET("/:id", hb.GetRegistrationHandler)
		api.PUT("/:id/cancel", hb.CancelRegistrationHandler)
	}

	admin := r.Group("/api/admin/registrations")
	admin.Use(middleware.AdminAuth())
	{
		admin.GET("", hb.GetRegistrationsHandler)
		admin.PUT("/:id/status", hb.SetRegistrationStatusHandler)
		admin.DELETE("/:id", hb.DeleteRegistrationHandler)
	}
}

func registerRenewalRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/renewals")
	api.Use(middleware.UserAuth())
	{
		api.POST("", hb.CreateRenewalHandler)
		api.GET("/mine", hb.GetMyRenewalsHandler)
		api.PUT("/:id/cancel", hb.CancelRenewalHandler)
	}

	admin := r.Group("/api/admin/renewals")
	admin.Use(middleware.AdminAuth())
	{
		admin.GET("", hb.GetRenewalsHandler)
		admin.PUT("/:id", hb.UpdateRenewalHandler)
		admin.PUT("/:id/status", hb.SetRenewalStatusHandler)
		admin.DELETE("/:id", hb.DeleteRenewalHandler)
	}
}

func registerStudentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/students")
	api.Use(middleware.UserAuth())
	{
		api.GET("/me", hb.GetMyTenancyHandler)
		api.GET("/me/history", hb.GetMyHistoryHandler)
		api.GET("/me/roommates", hb.GetMyRoommatesHandler)
	}

	admin := r.Group("/api/admin/students")
	admin.Use(middleware.AdminAuth())
	{
		admin.GET("", hb.GetStudentsHandler)
		admin.GET("/:id", hb.GetStudentHandler)
		admin.PUT("/:id", hb.UpdateStudentHandler)
		admin.PUT("/:id/vacate", hb.VacateStudentHandler)
		admin.DELETE("/:id", hb.DeleteStudentHandler)
	}
}

func registerInvoiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/invoices")
	api.Use(middleware.UserAuth())
	{
		api.GET("/:kind/mine", hb.GetMyInvoicesHandler)
		api.GET("/:kind/:id", hb.GetInvoiceHandler)
	}

	admin := r.Group("/api/admin/invoices")
	admin.Use(middleware.AdminAuth())
	{
		admin.POST("/:kind", hb.CreateInvoiceHandler)
		admin.GET("/:kind", hb.GetInvoicesHandler)
		admin.PUT("/:kind/:id", hb.UpdateInvoiceHandler)
		admin.DELETE("/:kind/:id", hb.DeleteInvoiceHandler)
	}
}

func registerPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		// The gateway calls the return endpoint with no auth context.
		api.GET("/:type/return", hb.PaymentReturnHandler)

		protected := api.Group("")
		protected.Use(middleware.UserAuth())
		protected.POST("/:type", hb.CreatePaymentURLHandler)
	}
}

func registerReportRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reports")
	api.Use(middleware.UserAuth())
	{
		api.POST("", hb.CreateReportHandler)
		api.GET("/mine", hb.GetMyReportsHandler)
		api.PUT("/:id/cancel", hb.CancelReportHandler)
	}

	admin := r.Group("/api/admin/reports")
	admin.Use(middleware.AdminAuth())
	{
		admin.GET("", hb.GetReportsHandler)
		admin.GET("/stats", hb.GetReportStatsHandler)
		admin.PUT("/:id/status", hb.SetReportStatusHandler)
		admin.DELETE("/:id", hb.DeleteReportHandler)
	}
}

func registerFeedbackRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/feedback")
	api.Use(middleware.UserAuth())
	{
		api.POST("", hb.CreateFeedbackHandler)
		api.GET("/mine", hb.GetMyFeedbackHandler)
	}

	admin := r.Group("/api/admin/feedback")
	admin.Use(middleware.AdminAuth())
	{
		admin.GET("", hb.GetFeedbackHandler)
		admin.PUT("/:id/note", hb.SetFeedbackNoteHandler)
		admin.DELETE("/:id", hb.DeleteFeedbackHandler)
	}
}

func registerSemesterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/semesters", hb.GetSemestersHandler)

	admin := r.Group("/api/admin/semesters")
	admin.Use(middleware.AdminAuth())
	{
		admin.POST("", hb.CreateSemesterHandler)
		admin.PUT("/:id", hb.UpdateSemesterHandler)
		admin.DELETE("/:id", hb.DeleteSemesterHandler)
	}
}
