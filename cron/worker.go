package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dormify/config"
	"dormify/services/notification"
	"dormify/services/registration"
	"dormify/services/student"
	"dormify/services/tasks"
	"dormify/utils"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient builds the asynq client used to enqueue tasks.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(redisOpt())
}

// Worker runs the background side of the system: receipt mail and the
// periodic sweeps.
type Worker struct {
	Notifications notification.NotificationService
	Registrations registration.RegistrationService
	Students      student.StudentService

	server    *asynq.Server
	scheduler *asynq.Scheduler
}

// Start launches the task server and the sweep scheduler. Both run until
// Stop is called.
func (w *Worker) Start() error {
	w.server = asynq.NewServer(redisOpt(), asynq.Config{
		Concurrency: 5,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReceipt, w.handleReceipt)
	mux.HandleFunc(tasks.TypeSendReviewResult, w.handleReviewResult)
	mux.HandleFunc(tasks.TypeExpireRegistration, w.handleExpireRegistrations)
	mux.HandleFunc(tasks.TypeVacateStudents, w.handleVacateStudents)

	if err := w.server.Start(mux); err != nil {
		return fmt.Errorf("failed to start task server: %w", err)
	}

	w.scheduler = asynq.NewScheduler(redisOpt(), nil)
	interval := config.AppConfig.SweepInterval
	if _, err := w.scheduler.Register(interval, tasks.NewExpireRegistrationTask()); err != nil {
		return fmt.Errorf("failed to schedule registration sweep: %w", err)
	}
	if _, err := w.scheduler.Register(interval, tasks.NewVacateStudentsTask()); err != nil {
		return fmt.Errorf("failed to schedule tenancy sweep: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

// Stop shuts both components down.
func (w *Worker) Stop() {
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	if w.server != nil {
		w.server.Shutdown()
	}
}

func (w *Worker) handleReceipt(ctx context.Context, t *asynq.Task) error {
	var payload tasks.ReceiptPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("malformed receipt payload: %w", err)
	}
	id, err := primitive.ObjectIDFromHex(payload.EntityID)
	if err != nil {
		return fmt.Errorf("malformed entity id %q: %w", payload.EntityID, err)
	}
	if err := w.Notifications.SendReceipt(payload.TxType, id); err != nil {
		utils.GetLogger().Error("receipt dispatch failed",
			zap.String("type", payload.TxType), zap.String("entity", payload.EntityID), zap.Error(err))
		return err
	}
	return nil
}

func (w *Worker) handleReviewResult(ctx context.Context, t *asynq.Task) error {
	var payload tasks.ReviewResultPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("malformed review-result payload: %w", err)
	}
	id, err := primitive.ObjectIDFromHex(payload.RegistrationID)
	if err != nil {
		return fmt.Errorf("malformed registration id %q: %w", payload.RegistrationID, err)
	}
	if err := w.Notifications.SendReviewResult(id, payload.Status); err != nil {
		utils.GetLogger().Error("review-result dispatch failed",
			zap.String("registration", payload.RegistrationID), zap.Error(err))
		return err
	}
	return nil
}

func (w *Worker) handleExpireRegistrations(ctx context.Context, t *asynq.Task) error {
	ttl := time.Duration(config.AppConfig.RegistrationTTLMins) * time.Minute
	swept, err := w.Registrations.ExpireUnpaid(ttl)
	if err != nil {
		return err
	}
	if swept > 0 {
		utils.GetLogger().Info("canceled expired registrations", zap.Int("count", swept))
	}
	return nil
}

func (w *Worker) handleVacateStudents(ctx context.Context, t *asynq.Task) error {
	swept, err := w.Students.VacateExpired()
	if err != nil {
		return err
	}
	if swept > 0 {
		utils.GetLogger().Info("vacated expired tenancies", zap.Int("count", swept))
	}
	return nil
}
