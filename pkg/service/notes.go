package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/planner"
	"github.com/ignatij/vineyard/pkg/storage"
	"github.com/pkg/errors"
)

// ListNotes returns the plant notes of a farm owned by userID, ordered by
// grid position.
func (s *FarmService) ListNotes(userID, farmID string) ([]models.PlantNote, error) {
	if _, err := s.GetFarm(userID, farmID); err != nil {
		return nil, err
	}
	notes, err := s.store.ListNotesByFarm(farmID)
	if err != nil {
		return nil, errors.Wrapf(err, "notes of farm %s", farmID)
	}
	return notes, nil
}

// CreateNote pins a note to the vine at (row, col). Rows run along the farm
// length and columns along its width, so both must fall inside the layout.
func (s *FarmService) CreateNote(userID, farmID string, req NoteRequest) (models.PlantNote, error) {
	farm, err := s.GetFarm(userID, farmID)
	if err != nil {
		return models.PlantNote{}, err
	}
	if err := Validate(req); err != nil {
		return models.PlantNote{}, err
	}
	layout := planner.FarmLayout(farm)
	if *req.Row >= layout.MaxPlantsLength || *req.Col >= layout.MaxPlantsWidth {
		return models.PlantNote{}, errors.Wrapf(ErrInvalidInput, "plant (%d, %d) is outside the %dx%d layout",
			*req.Row, *req.Col, layout.MaxPlantsLength, layout.MaxPlantsWidth)
	}

	now := s.now()
	note := models.PlantNote{
		ID:        uuid.NewString(),
		FarmID:    farmID,
		Row:       *req.Row,
		Col:       *req.Col,
		Title:     strings.TrimSpace(req.Title),
		Type:      strings.TrimSpace(req.Type),
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SaveNote(note); err != nil {
		return models.PlantNote{}, errors.Wrapf(err, "create note on farm %s", farmID)
	}
	s.logger.Infof("Created note %s at (%d, %d) on farm %s", note.ID, note.Row, note.Col, farmID)
	return note, nil
}

// farmNote loads a note and hides notes of other farms behind ErrNotFound.
func (s *FarmService) farmNote(farmID, noteID string) (models.PlantNote, error) {
	note, err := s.store.GetNote(noteID)
	if err != nil {
		return models.PlantNote{}, errors.Wrapf(err, "note %s", noteID)
	}
	if note.FarmID != farmID {
		return models.PlantNote{}, errors.Wrapf(storage.ErrNotFound, "note %s on farm %s", noteID, farmID)
	}
	return note, nil
}

// UpdateNote rewrites the title, type and content of a note. The grid
// position never changes.
func (s *FarmService) UpdateNote(userID, farmID, noteID string, req NoteUpdate) (models.PlantNote, error) {
	if _, err := s.GetFarm(userID, farmID); err != nil {
		return models.PlantNote{}, err
	}
	note, err := s.farmNote(farmID, noteID)
	if err != nil {
		return models.PlantNote{}, err
	}
	if err := Validate(req); err != nil {
		return models.PlantNote{}, err
	}
	note.Title = strings.TrimSpace(req.Title)
	note.Type = strings.TrimSpace(req.Type)
	note.Content = req.Content
	note.UpdatedAt = s.now()
	if err := s.store.UpdateNote(note); err != nil {
		return models.PlantNote{}, errors.Wrapf(err, "update note %s", noteID)
	}
	return note, nil
}

func (s *FarmService) DeleteNote(userID, farmID, noteID string) error {
	if _, err := s.GetFarm(userID, farmID); err != nil {
		return err
	}
	if _, err := s.farmNote(farmID, noteID); err != nil {
		return err
	}
	if err := s.store.DeleteNote(noteID); err != nil {
		return errors.Wrapf(err, "delete note %s", noteID)
	}
	s.logger.Infof("Deleted note %s from farm %s", noteID, farmID)
	return nil
}
