package notification

import (
	"fmt"
	"time"

	invoiceRepo "dormify/database/repository/invoice"
	registrationRepo "dormify/database/repository/registration"
	renewalRepo "dormify/database/repository/renewal"
	userRepo "dormify/database/repository/user"
	"dormify/models"
	"dormify/services/tasks"
	"dormify/utils"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// QueueNotifier hands receipt dispatch to the task queue so the gateway
// redirect never waits on SMTP.
type QueueNotifier struct {
	Client *asynq.Client
}

func (n *QueueNotifier) EnqueueReceipt(txType string, entityID primitive.ObjectID) error {
	task, err := tasks.NewReceiptTask(txType, entityID)
	if err != nil {
		return err
	}
	if _, err := n.Client.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue receipt task: %w", err)
	}
	return nil
}

// EnqueueReviewResult queues the mail announcing a review decision.
func (n *QueueNotifier) EnqueueReviewResult(regID primitive.ObjectID, status string) error {
	task, err := tasks.NewReviewResultTask(regID, status)
	if err != nil {
		return err
	}
	if _, err := n.Client.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue review-result task: %w", err)
	}
	return nil
}

type NotificationService interface {
	// SendReceipt resolves the paid entity, renders the PDF, and mails it.
	SendReceipt(txType string, entityID primitive.ObjectID) error
	// SendReviewResult mails the applicant after an admin decision.
	SendReviewResult(regID primitive.ObjectID, status string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	InvoiceRepos map[string]invoiceRepo.InvoiceRepository
	RegRepo      registrationRepo.RegistrationRepository
	RenewalRepo  renewalRepo.RenewalRepository
	UserRepo     userRepo.UserRepository
	Mailer       Mailer
}

func (s *DefaultNotificationService) SendReceipt(txType string, entityID primitive.ObjectID) error {
	data, email, err := s.resolve(txType, entityID)
	if err != nil {
		return err
	}
	if email == "" {
		// Nothing to deliver to; the payment itself already stands.
		utils.GetLogger().Warn("SendReceipt: no recipient email",
			zap.String("type", txType), zap.String("entity", entityID.Hex()))
		return nil
	}

	pdf, err := RenderReceiptPDF(*data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Payment receipt %s", data.Code)
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your payment of <b>%d VND</b> (%s) has been received. The receipt is attached.</p>",
		data.Recipient, data.Total, data.Title)
	filename := fmt.Sprintf("receipt-%s.pdf", data.Code)

	return s.Mailer.Send(email, subject, body, pdf, filename)
}

func (s *DefaultNotificationService) SendReviewResult(regID primitive.ObjectID, status string) error {
	reg, err := s.RegRepo.GetByID(regID)
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("registration %s not found", regID.Hex())
	}
	if reg.Email == "" {
		utils.GetLogger().Warn("SendReviewResult: no recipient email",
			zap.String("registration", regID.Hex()))
		return nil
	}

	subject := fmt.Sprintf("Registration %s reviewed", reg.Code)
	var body string
	switch status {
	case models.RegistrationStatusApproved:
		body = fmt.Sprintf(
			"<p>Dear %s,</p><p>Your registration <b>%s</b> has been approved. Welcome to the dormitory!</p>",
			reg.Fullname, reg.Code)
	case models.RegistrationStatusRejected:
		body = fmt.Sprintf(
			"<p>Dear %s,</p><p>Your registration <b>%s</b> was rejected. Please contact the management board for details.</p>",
			reg.Fullname, reg.Code)
	default:
		body = fmt.Sprintf(
			"<p>Dear %s,</p><p>Your registration <b>%s</b> is now %s.</p>",
			reg.Fullname, reg.Code, status)
	}

	return s.Mailer.Send(reg.Email, subject, body, nil, "")
}

func (s *DefaultNotificationService) resolve(txType string, entityID primitive.ObjectID) (*ReceiptData, string, error) {
	switch txType {
	case models.TxElectricInvoice, models.TxWaterInvoice:
		return s.resolveInvoice(txType, entityID)
	case models.TxRegistration:
		return s.resolveRegistration(entityID)
	case models.TxRenewal:
		return s.resolveRenewal(entityID)
	default:
		return nil, "", fmt.Errorf("unknown transaction type %q", txType)
	}
}

func (s *DefaultNotificationService) resolveInvoice(kind string, id primitive.ObjectID) (*ReceiptData, string, error) {
	repo, ok := s.InvoiceRepos[kind]
	if !ok {
		return nil, "", fmt.Errorf("no repository for kind %q", kind)
	}
	inv, err := repo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", fmt.Errorf("%s invoice %s not found", kind, id.Hex())
	}

	title := "Electricity invoice"
	if kind == models.TxWaterInvoice {
		title = "Water invoice"
	}
	data := &ReceiptData{
		Title:  title,
		Code:   inv.Code,
		Period: fmt.Sprintf("%02d/%d", inv.Month, inv.Year),
		Lines: []ReceiptLine{
			{Label: "Old index", Value: fmt.Sprintf("%d", inv.OldIndex)},
			{Label: "New index", Value: fmt.Sprintf("%d", inv.NewIndex)},
			{Label: "Unit price", Value: fmt.Sprintf("%d VND", inv.UnitPrice)},
		},
		Total:  inv.Amount(),
		PaidAt: time.Now(),
	}
	if inv.Room != nil {
		data.Room = inv.Room.Number
		if inv.Room.Building != nil {
			data.Building = inv.Room.Building.Name
		}
	}

	email := ""
	if inv.PayerID != nil {
		payer, err := s.UserRepo.GetByID(*inv.PayerID)
		if err == nil && payer != nil {
			data.Recipient = payer.Fullname
			email = payer.Email
		}
	}
	return data, email, nil
}

func (s *DefaultNotificationService) resolveRegistration(id primitive.ObjectID) (*ReceiptData, string, error) {
	reg, err := s.RegRepo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if reg == nil {
		return nil, "", fmt.Errorf("registration %s not found", id.Hex())
	}

	data := &ReceiptData{
		Title:     "Room registration",
		Code:      reg.Code,
		Recipient: reg.Fullname,
		Period:    fmt.Sprintf("%02d/%d", reg.Month, reg.Year),
		PaidAt:    time.Now(),
	}
	if reg.Room != nil {
		data.Room = reg.Room.Number
		data.Total = reg.Room.Price
		if reg.Room.Building != nil {
			data.Building = reg.Room.Building.Name
		}
	}
	return data, reg.Email, nil
}

func (s *DefaultNotificationService) resolveRenewal(id primitive.ObjectID) (*ReceiptData, string, error) {
	req, err := s.RenewalRepo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if req == nil {
		return nil, "", fmt.Errorf("renewal %s not found", id.Hex())
	}

	data := &ReceiptData{
		Title:  "Stay renewal",
		Code:   req.Code,
		Period: fmt.Sprintf("%02d/%d", req.Month, req.Year),
		PaidAt: time.Now(),
	}
	email := ""
	if req.Student != nil && req.Student.Registration != nil {
		reg := req.Student.Registration
		data.Recipient = reg.Fullname
		email = reg.Email
		if reg.Room != nil {
			data.Room = reg.Room.Number
			data.Total = reg.Room.Price
			if reg.Room.Building != nil {
				data.Building = reg.Room.Building.Name
			}
		}
	}
	return data, email, nil
}
