package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dormify/config"
	"dormify/cron"
	"dormify/database"
	buildingRepoPkg "dormify/database/repository/building"
	feedbackRepoPkg "dormify/database/repository/feedback"
	invoiceRepoPkg "dormify/database/repository/invoice"
	registrationRepoPkg "dormify/database/repository/registration"
	renewalRepoPkg "dormify/database/repository/renewal"
	reportRepoPkg "dormify/database/repository/report"
	roomRepoPkg "dormify/database/repository/room"
	semesterRepoPkg "dormify/database/repository/semester"
	studentRepoPkg "dormify/database/repository/student"
	userRepoPkg "dormify/database/repository/user"
	"dormify/handlers"
	"dormify/middleware"
	"dormify/models"
	"dormify/routes"
	"dormify/services/building"
	"dormify/services/feedback"
	"dormify/services/invoice"
	"dormify/services/notification"
	"dormify/services/payment"
	"dormify/services/registration"
	"dormify/services/renewal"
	"dormify/services/report"
	"dormify/services/room"
	"dormify/services/semester"
	"dormify/services/student"
	"dormify/services/user"
	"dormify/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	usrRepo := userRepoPkg.NewMongoUserRepo()
	bldRepo := buildingRepoPkg.NewMongoBuildingRepo()
	rmRepo := roomRepoPkg.NewMongoRoomRepo()
	regRepo := registrationRepoPkg.NewMongoRegistrationRepo()
	renRepo := renewalRepoPkg.NewMongoRenewalRepo()
	studRepo := studentRepoPkg.NewMongoStudentRepo()
	electricRepo := invoiceRepoPkg.NewMongoInvoiceRepo(models.TxElectricInvoice)
	waterRepo := invoiceRepoPkg.NewMongoInvoiceRepo(models.TxWaterInvoice)
	repRepo := reportRepoPkg.NewMongoReportRepo()
	fbRepo := feedbackRepoPkg.NewMongoFeedbackRepo()
	semRepo := semesterRepoPkg.NewMongoSemesterRepo()

	invoiceRepos := map[string]invoiceRepoPkg.InvoiceRepository{
		models.TxElectricInvoice: electricRepo,
		models.TxWaterInvoice:    waterRepo,
	}

	queueClient := cron.NewQueueClient()
	defer queueClient.Close()
	queueNotifier := &notification.QueueNotifier{Client: queueClient}

	// services.
	userService := &user.DefaultUserService{
		Repo:    usrRepo,
		Storage: cloudinaryStorageService,
	}
	buildingService := &building.DefaultBuildingService{
		Repo: bldRepo,
	}
	roomService := &room.DefaultRoomService{
		Repo:     rmRepo,
		RegRepo:  regRepo,
		StudRepo: studRepo,
	}
	registrationService := &registration.DefaultRegistrationService{
		Repo:     regRepo,
		RoomRepo: rmRepo,
		StudRepo: studRepo,
		Storage:  cloudinaryStorageService,
		Notifier: queueNotifier,
	}
	renewalService := &renewal.DefaultRenewalService{
		Repo:     renRepo,
		StudRepo: studRepo,
	}
	studentService := &student.DefaultStudentService{
		Repo: studRepo,
	}
	invoiceService := &invoice.DefaultInvoiceService{
		Repos:    invoiceRepos,
		RoomRepo: rmRepo,
		StudRepo: studRepo,
	}
	reportService := &report.DefaultReportService{
		Repo:     repRepo,
		StudRepo: studRepo,
		Storage:  cloudinaryStorageService,
	}
	feedbackService := &feedback.DefaultFeedbackService{
		Repo:     fbRepo,
		StudRepo: studRepo,
	}
	semesterService := &semester.DefaultSemesterService{
		Repo: semRepo,
	}

	// Payment: one strategy per transaction type, one shared flow.
	cfg := config.AppConfig
	strategies := map[string]payment.Strategy{
		models.TxElectricInvoice: payment.NewInvoiceStrategy(
			models.TxElectricInvoice, electricRepo, cfg.ElectricReturnURL, cfg.InvoiceResultURL),
		models.TxWaterInvoice: payment.NewInvoiceStrategy(
			models.TxWaterInvoice, waterRepo, cfg.WaterReturnURL, cfg.InvoiceResultURL),
		models.TxRegistration: payment.NewRegistrationStrategy(
			regRepo, cfg.RegistrationReturnURL, cfg.RequestResultURL),
		models.TxRenewal: payment.NewRenewalStrategy(
			renRepo, cfg.RenewalReturnURL, cfg.RequestResultURL),
	}

	paymentService := &payment.DefaultPaymentService{
		MerchantCode: cfg.GatewayMerchant,
		HashSecret:   cfg.GatewayHashSecret,
		GatewayURL:   cfg.GatewayURL,
		Strategies:   strategies,
		Notifier:     queueNotifier,
	}

	notificationService := &notification.DefaultNotificationService{
		InvoiceRepos: invoiceRepos,
		RegRepo:      regRepo,
		RenewalRepo:  renRepo,
		UserRepo:     usrRepo,
		Mailer:       notification.NewSMTPMailer(),
	}

	// Background worker: receipt mail plus the periodic sweeps.
	worker := &cron.Worker{
		Notifications: notificationService,
		Registrations: registrationService,
		Students:      studentService,
	}
	if err := worker.Start(); err != nil {
		logger.Sugar().Fatalf("main: failed to start background worker: %v", err)
	}
	defer worker.Stop()

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserService:         userService,
		BuildingService:     buildingService,
		RoomService:         roomService,
		RegistrationService: registrationService,
		RenewalService:      renewalService,
		StudentService:      studentService,
		InvoiceService:      invoiceService,
		PaymentService:      paymentService,
		ReportService:       reportService,
		FeedbackService:     feedbackService,
		SemesterService:     semesterService,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
