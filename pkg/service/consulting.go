package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/storage"
	"github.com/pkg/errors"
)

// RegisterConsultant creates the consultant profile of userID. Each caller
// and each email can register once.
func (s *FarmService) RegisterConsultant(userID string, req RegisterConsultantRequest) (models.Consultant, error) {
	if err := requireUser(userID); err != nil {
		return models.Consultant{}, err
	}
	if err := Validate(req); err != nil {
		return models.Consultant{}, err
	}
	c := models.Consultant{
		ID:             userID,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		Location:       strings.TrimSpace(req.Location),
		Specialization: strings.TrimSpace(req.Specialization),
		Experience:     req.Experience,
		CreatedAt:      s.now(),
	}
	if err := s.store.SaveConsultant(c); err != nil {
		return models.Consultant{}, errors.Wrapf(err, "register consultant %s", userID)
	}
	s.logger.Infof("Registered consultant %s (%s)", c.ID, c.Email)
	return c, nil
}

func (s *FarmService) GetConsultant(id string) (models.Consultant, error) {
	c, err := s.store.GetConsultant(id)
	if err != nil {
		return models.Consultant{}, errors.Wrapf(err, "consultant %s", id)
	}
	return c, nil
}

func (s *FarmService) ListConsultants(f models.ConsultantFilter) ([]models.Consultant, error) {
	if f.MinExperience < 0 {
		return nil, errors.Wrap(ErrInvalidInput, "experience must not be negative")
	}
	return s.store.ListConsultants(f)
}

// AssignConsultant makes consultantID the consultant of farmerID, replacing
// any earlier choice.
func (s *FarmService) AssignConsultant(farmerID, consultantID string) (models.Consultant, error) {
	if err := requireUser(farmerID); err != nil {
		return models.Consultant{}, err
	}
	if farmerID == consultantID {
		return models.Consultant{}, errors.Wrap(ErrInvalidInput, "farmers cannot consult themselves")
	}
	c, err := s.GetConsultant(consultantID)
	if err != nil {
		return models.Consultant{}, err
	}
	if err := s.store.AssignConsultant(farmerID, consultantID); err != nil {
		return models.Consultant{}, errors.Wrapf(err, "assign consultant %s", consultantID)
	}
	s.logger.Infof("Assigned consultant %s to farmer %s", consultantID, farmerID)
	return c, nil
}

// AssignedConsultant returns the consultant farmerID picked.
func (s *FarmService) AssignedConsultant(farmerID string) (models.Consultant, error) {
	if err := requireUser(farmerID); err != nil {
		return models.Consultant{}, err
	}
	id, err := s.store.GetAssignedConsultant(farmerID)
	if err != nil {
		return models.Consultant{}, errors.Wrapf(err, "consultant of %s", farmerID)
	}
	return s.GetConsultant(id)
}

// ConsultantFarms lists the farms of every farmer who assigned consultantID.
func (s *FarmService) ConsultantFarms(consultantID string) ([]models.Farm, error) {
	if _, err := s.GetConsultant(consultantID); err != nil {
		return nil, err
	}
	return s.store.ListFarmsByConsultant(consultantID)
}

// consultedFarm loads a farm whose owner assigned consultantID.
func (s *FarmService) consultedFarm(consultantID, farmID string) (models.Farm, error) {
	if err := requireUser(consultantID); err != nil {
		return models.Farm{}, err
	}
	farm, err := s.store.GetFarm(farmID)
	if err != nil {
		return models.Farm{}, errors.Wrapf(err, "farm %s", farmID)
	}
	assigned, err := s.store.GetAssignedConsultant(farm.UserID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return models.Farm{}, errors.Wrapf(ErrForbidden, "not the consultant of farm %s", farmID)
	case err != nil:
		return models.Farm{}, errors.Wrapf(err, "consultant of %s", farm.UserID)
	case assigned != consultantID:
		return models.Farm{}, errors.Wrapf(ErrForbidden, "not the consultant of farm %s", farmID)
	}
	return farm, nil
}

// readableFarm lets the owner or the assigned consultant through.
func (s *FarmService) readableFarm(userID, farmID string) (models.Farm, error) {
	farm, err := s.GetFarm(userID, farmID)
	if errors.Is(err, ErrForbidden) {
		return s.consultedFarm(userID, farmID)
	}
	return farm, err
}

// ConsultantFarmDetails is FarmDetails as seen by the assigned consultant.
func (s *FarmService) ConsultantFarmDetails(consultantID, farmID string) (models.FarmDetails, error) {
	farm, err := s.consultedFarm(consultantID, farmID)
	if err != nil {
		return models.FarmDetails{}, err
	}
	return s.details(farm)
}

// AddComment records a remark by the assigned consultant of the farm.
func (s *FarmService) AddComment(consultantID, farmID, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, errors.Wrap(ErrInvalidInput, "comment cannot be empty")
	}
	if _, err := s.consultedFarm(consultantID, farmID); err != nil {
		return models.Comment{}, err
	}
	c, err := s.GetConsultant(consultantID)
	if err != nil {
		return models.Comment{}, err
	}
	now := s.now()
	comment := models.Comment{
		ID:             uuid.NewString(),
		FarmID:         farmID,
		ConsultantID:   consultantID,
		ConsultantName: c.Name,
		Content:        content,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.SaveComment(comment); err != nil {
		return models.Comment{}, errors.Wrapf(err, "comment on farm %s", farmID)
	}
	s.logger.Infof("Consultant %s commented on farm %s", consultantID, farmID)
	return comment, nil
}

// ListComments returns the comments of a farm, oldest first, to its owner or
// its assigned consultant.
func (s *FarmService) ListComments(userID, farmID string) ([]models.Comment, error) {
	if _, err := s.readableFarm(userID, farmID); err != nil {
		return nil, err
	}
	comments, err := s.store.ListCommentsByFarm(farmID)
	if err != nil {
		return nil, errors.Wrapf(err, "comments of farm %s", farmID)
	}
	return comments, nil
}
