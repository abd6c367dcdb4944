package feedback

import (
	"fmt"
	"strings"

	feedbackRepo "dormify/database/repository/feedback"
	studentRepo "dormify/database/repository/student"
	"dormify/models"
	"dormify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type FeedbackService interface {
	// Create posts feedback from the user's active tenancy.
	Create(userID primitive.ObjectID, fb *models.Feedback) (*models.Feedback, error)
	GetAll() ([]models.FeedbackView, error)
	GetMine(userID primitive.ObjectID) ([]models.Feedback, error)
	// SetNote records the management board's response.
	SetNote(id primitive.ObjectID, note string) error
	Delete(id primitive.ObjectID) error
}

// DefaultFeedbackService is the production implementation.
type DefaultFeedbackService struct {
	Repo     feedbackRepo.FeedbackRepository
	StudRepo studentRepo.StudentRepository
}

func validType(t string) bool {
	switch t {
	case models.FeedbackTypeSuggestion, models.FeedbackTypeComplaint,
		models.FeedbackTypePraise, models.FeedbackTypeOther:
		return true
	}
	return false
}

func (s *DefaultFeedbackService) Create(userID primitive.ObjectID, fb *models.Feedback) (*models.Feedback, error) {
	fb.Title = strings.TrimSpace(fb.Title)
	if fb.Title == "" || strings.TrimSpace(fb.Content) == "" {
		return nil, fmt.Errorf("title and content are required")
	}
	if !validType(fb.Type) {
		return nil, fmt.Errorf("invalid feedback type %q", fb.Type)
	}

	st, err := s.StudRepo.GetActiveByUser(userID)
	if err != nil {
		utils.GetLogger().Error("Create feedback: tenancy lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to post feedback, please try again")
	}
	if st == nil {
		return nil, fmt.Errorf("only active tenants can post feedback")
	}

	fb.StudentID = st.ID
	fb.Note = ""
	if err := s.Repo.Create(fb); err != nil {
		utils.GetLogger().Error("Create feedback: insert failed", zap.Error(err))
		return nil, fmt.Errorf("failed to post feedback, please try again")
	}
	return fb, nil
}

func (s *DefaultFeedbackService) GetAll() ([]models.FeedbackView, error) {
	items, err := s.Repo.GetAll()
	if err != nil {
		return nil, err
	}
	views := make([]models.FeedbackView, 0, len(items))
	for _, fb := range items {
		v := models.FeedbackView{
			ID:        fb.ID,
			Title:     fb.Title,
			Content:   fb.Content,
			Type:      fb.Type,
			Note:      fb.Note,
			CreatedAt: fb.CreatedAt,
			UpdatedAt: fb.UpdatedAt,
		}
		if fb.Student != nil && fb.Student.Registration != nil {
			reg := fb.Student.Registration
			v.Fullname = reg.Fullname
			v.StudentID = reg.StudentID
			if reg.Room != nil {
				v.Room = reg.Room.Number
				if reg.Room.Building != nil {
					v.Building = reg.Room.Building.Name
				}
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *DefaultFeedbackService) GetMine(userID primitive.ObjectID) ([]models.Feedback, error) {
	tenancies, err := s.StudRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	var out []models.Feedback
	for _, st := range tenancies {
		items, err := s.Repo.GetByStudent(st.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func (s *DefaultFeedbackService) SetNote(id primitive.ObjectID, note string) error {
	fb, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if fb == nil {
		return fmt.Errorf("feedback not found")
	}
	fb.Note = note
	return s.Repo.Update(fb)
}

func (s *DefaultFeedbackService) Delete(id primitive.ObjectID) error {
	return s.Repo.Delete(id)
}
