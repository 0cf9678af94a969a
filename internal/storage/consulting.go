package storage

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/storage"
	"github.com/pkg/errors"
)

const noteColumns = "id, farm_id, row_index, col_index, title, type, content, created_at, updated_at"

func (s *PostgresStore) SaveNote(n models.PlantNote) error {
	_, err := s.db.Exec("INSERT INTO plant_notes ("+noteColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		n.ID, n.FarmID, n.Row, n.Col, n.Title, n.Type, n.Content, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return wrapWrite(err, "save note")
	}
	return nil
}

func (s *PostgresStore) GetNote(id string) (models.PlantNote, error) {
	var n models.PlantNote
	err := s.db.Get(&n, "SELECT "+noteColumns+" FROM plant_notes WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.PlantNote{}, storage.ErrNotFound
	}
	if err != nil {
		return models.PlantNote{}, errors.Wrapf(err, "get note %s", id)
	}
	return n, nil
}

func (s *PostgresStore) ListNotesByFarm(farmID string) ([]models.PlantNote, error) {
	notes := []models.PlantNote{}
	err := s.db.Select(&notes, "SELECT "+noteColumns+" FROM plant_notes WHERE farm_id = $1 ORDER BY row_index, col_index, created_at", farmID)
	if err != nil {
		return nil, errors.Wrapf(err, "list notes of farm %s", farmID)
	}
	return notes, nil
}

func (s *PostgresStore) UpdateNote(n models.PlantNote) error {
	res, err := s.db.Exec("UPDATE plant_notes SET title = $2, type = $3, content = $4, updated_at = $5 WHERE id = $1",
		n.ID, n.Title, n.Type, n.Content, n.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "update note %s", n.ID)
	}
	return expectAffected(res)
}

func (s *PostgresStore) DeleteNote(id string) error {
	res, err := s.db.Exec("DELETE FROM plant_notes WHERE id = $1", id)
	if err != nil {
		return errors.Wrapf(err, "delete note %s", id)
	}
	return expectAffected(res)
}

const consultantColumns = "id, name, email, phone, location, specialization, experience, created_at"

// SaveConsultant registers a consultant; a taken id or email is ErrConflict
func (s *PostgresStore) SaveConsultant(c models.Consultant) error {
	_, err := s.db.Exec("INSERT INTO consultants ("+consultantColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		c.ID, c.Name, c.Email, c.Phone, c.Location, c.Specialization, c.Experience, c.CreatedAt)
	if err != nil {
		return wrapWrite(err, "save consultant")
	}
	return nil
}

func (s *PostgresStore) GetConsultant(id string) (models.Consultant, error) {
	var c models.Consultant
	err := s.db.Get(&c, "SELECT "+consultantColumns+" FROM consultants WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Consultant{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Consultant{}, errors.Wrapf(err, "get consultant %s", id)
	}
	return c, nil
}

func (s *PostgresStore) ListConsultants(f models.ConsultantFilter) ([]models.Consultant, error) {
	var where []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, cond+" $"+strconv.Itoa(len(args)))
	}
	if f.Location != "" {
		add("location =", f.Location)
	}
	if f.Specialization != "" {
		add("specialization =", f.Specialization)
	}
	if f.MinExperience > 0 {
		add("experience >=", f.MinExperience)
	}

	query := "SELECT " + consultantColumns + " FROM consultants"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name, id"

	consultants := []models.Consultant{}
	if err := s.db.Select(&consultants, query, args...); err != nil {
		return nil, errors.Wrap(err, "list consultants")
	}
	return consultants, nil
}

func (s *PostgresStore) AssignConsultant(userID, consultantID string) error {
	_, err := s.db.Exec(`
		INSERT INTO farmer_consultants (user_id, consultant_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET consultant_id = EXCLUDED.consultant_id, assigned_at = CURRENT_TIMESTAMP`,
		userID, consultantID)
	if err != nil {
		return errors.Wrapf(err, "assign consultant %s to %s", consultantID, userID)
	}
	return nil
}

func (s *PostgresStore) GetAssignedConsultant(userID string) (string, error) {
	var id string
	err := s.db.Get(&id, "SELECT consultant_id FROM farmer_consultants WHERE user_id = $1", userID)
	if err == sql.ErrNoRows {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "consultant of %s", userID)
	}
	return id, nil
}

func (s *PostgresStore) ListFarmsByConsultant(consultantID string) ([]models.Farm, error) {
	return s.selectFarms("SELECT "+farmColumns+" FROM farms WHERE user_id IN "+
		"(SELECT user_id FROM farmer_consultants WHERE consultant_id = $1) ORDER BY created_at", consultantID)
}

func (s *PostgresStore) SaveComment(c models.Comment) error {
	_, err := s.db.Exec("INSERT INTO comments (id, farm_id, consultant_id, content, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)",
		c.ID, c.FarmID, c.ConsultantID, c.Content, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return wrapWrite(err, "save comment")
	}
	return nil
}

func (s *PostgresStore) ListCommentsByFarm(farmID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := s.db.Select(&comments, `
		SELECT c.id, c.farm_id, c.consultant_id, k.name AS consultant_name, c.content, c.created_at, c.updated_at
		FROM comments c JOIN consultants k ON k.id = c.consultant_id
		WHERE c.farm_id = $1 ORDER BY c.created_at, c.id`, farmID)
	if err != nil {
		return nil, errors.Wrapf(err, "list comments of farm %s", farmID)
	}
	return comments, nil
}
