package invoice

import (
	"fmt"
	"strings"

	invoiceRepo "dormify/database/repository/invoice"
	roomRepo "dormify/database/repository/room"
	studentRepo "dormify/database/repository/student"
	"dormify/models"
	"dormify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type InvoiceService interface {
	Create(kind string, inv *models.UtilityInvoice) (*models.UtilityInvoice, error)
	GetByID(kind string, id primitive.ObjectID) (*models.UtilityInvoice, error)
	GetAll(kind string) ([]models.UtilityInvoice, error)
	// GetMine returns the invoices for the rooms the user has lived in.
	GetMine(kind string, userID primitive.ObjectID) ([]models.UtilityInvoice, error)
	Update(kind string, inv *models.UtilityInvoice) error
	Delete(kind string, id primitive.ObjectID) error
}

// DefaultInvoiceService serves both utility kinds through kind-keyed
// repositories.
type DefaultInvoiceService struct {
	Repos    map[string]invoiceRepo.InvoiceRepository
	RoomRepo roomRepo.RoomRepository
	StudRepo studentRepo.StudentRepository
}

func (s *DefaultInvoiceService) repo(kind string) (invoiceRepo.InvoiceRepository, error) {
	r, ok := s.Repos[kind]
	if !ok {
		return nil, fmt.Errorf("unknown utility kind %q", kind)
	}
	return r, nil
}

// invoiceCode builds the human-facing code: EL/WA + building + room + yyyymm.
func invoiceCode(kind string, room *models.Room, month, year int) string {
	prefix := "EL"
	if kind == models.UtilityWater {
		prefix = "WA"
	}
	building := ""
	if room.Building != nil {
		building = strings.ReplaceAll(room.Building.Name, " ", "")
	}
	return fmt.Sprintf("%s%s%s%04d%02d", prefix, building, room.Number, year, month)
}

func (s *DefaultInvoiceService) Create(kind string, inv *models.UtilityInvoice) (*models.UtilityInvoice, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if inv.Month < 1 || inv.Month > 12 {
		return nil, fmt.Errorf("invalid month %d", inv.Month)
	}
	if inv.NewIndex <= inv.OldIndex {
		return nil, fmt.Errorf("new index must exceed old index")
	}
	if inv.UnitPrice < 0 {
		return nil, fmt.Errorf("unit price cannot be negative")
	}

	room, err := s.RoomRepo.GetByID(inv.RoomID)
	if err != nil {
		return nil, fmt.Errorf("room not found")
	}

	exists, err := repo.ExistsForPeriod(inv.RoomID, inv.Month, inv.Year)
	if err != nil {
		utils.GetLogger().Error("Create invoice: period check failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create invoice, please try again")
	}
	if exists {
		return nil, fmt.Errorf("an invoice for this room and period already exists")
	}

	inv.Code = invoiceCode(kind, room, inv.Month, inv.Year)
	inv.Status = models.InvoiceStatusUnpaid
	inv.PayerID = nil

	if err := repo.Create(inv); err != nil {
		utils.GetLogger().Error("Create invoice: insert failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create invoice, please try again")
	}
	return inv, nil
}

func (s *DefaultInvoiceService) GetByID(kind string, id primitive.ObjectID) (*models.UtilityInvoice, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	inv, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("invoice not found")
	}
	return inv, nil
}

func (s *DefaultInvoiceService) GetAll(kind string) ([]models.UtilityInvoice, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.GetAll()
}

func (s *DefaultInvoiceService) GetMine(kind string, userID primitive.ObjectID) ([]models.UtilityInvoice, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	tenancies, err := s.StudRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[primitive.ObjectID]bool)
	var roomIDs []primitive.ObjectID
	for _, st := range tenancies {
		if st.Registration == nil || seen[st.Registration.RoomID] {
			continue
		}
		seen[st.Registration.RoomID] = true
		roomIDs = append(roomIDs, st.Registration.RoomID)
	}
	if len(roomIDs) == 0 {
		return nil, nil
	}
	return repo.GetByRooms(roomIDs)
}

func (s *DefaultInvoiceService) Update(kind string, inv *models.UtilityInvoice) error {
	repo, err := s.repo(kind)
	if err != nil {
		return err
	}
	current, err := repo.GetByID(inv.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("invoice not found")
	}
	if current.Status == models.InvoiceStatusPaid {
		return fmt.Errorf("paid invoices cannot be edited")
	}
	if inv.NewIndex <= inv.OldIndex {
		return fmt.Errorf("new index must exceed old index")
	}
	inv.Code = current.Code
	inv.Status = current.Status
	return repo.Update(inv)
}

func (s *DefaultInvoiceService) Delete(kind string, id primitive.ObjectID) error {
	repo, err := s.repo(kind)
	if err != nil {
		return err
	}
	return repo.Delete(id)
}
