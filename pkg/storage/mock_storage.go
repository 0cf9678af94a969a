package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ignatij/vineyard/pkg/models"
	"github.com/pkg/errors"
)

type memData struct {
	mu        sync.RWMutex
	farms     []models.Farm
	schedules []models.Schedule
	alerts    []models.Alert
	notes     []models.PlantNote
	comments  []models.Comment

	consultants []models.Consultant
	assigned    map[string]string // farmer id to consultant id
}

// mockStore implements storage.Store with in-memory storage. Writes are
// applied immediately; Rollback does not undo them.
type mockStore struct {
	data *memData
	inTx bool
	done bool
}

func NewMockStore() Store {
	return &mockStore{data: &memData{}}
}

func (m *mockStore) Begin() (Store, error) {
	return &mockStore{data: m.data, inTx: true}, nil
}

func (m *mockStore) Commit() error {
	if !m.inTx {
		return errors.New("cannot commit: not a transaction")
	}
	if m.done {
		return errors.New("transaction already finished")
	}
	m.done = true
	return nil
}

func (m *mockStore) Rollback() error {
	if !m.inTx {
		return errors.New("cannot rollback: not a transaction")
	}
	if m.done {
		return errors.New("transaction already finished")
	}
	m.done = true
	return nil
}

func (m *mockStore) Close() error {
	return nil
}

func (m *mockStore) writable() error {
	if m.done {
		return errors.New("transaction already finished")
	}
	return nil
}

func (m *mockStore) SaveFarm(f models.Farm) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for _, existing := range m.data.farms {
		if existing.ID == f.ID {
			return errors.New("farm already exists")
		}
	}
	m.data.farms = append(m.data.farms, f)
	return nil
}

func (m *mockStore) GetFarm(id string) (models.Farm, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	for _, f := range m.data.farms {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Farm{}, ErrNotFound
}

func (m *mockStore) ListFarmsByUser(userID string) ([]models.Farm, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	farms := []models.Farm{}
	for _, f := range m.data.farms {
		if f.UserID == userID {
			farms = append(farms, f)
		}
	}
	return farms, nil
}

func (m *mockStore) ListFarms() ([]models.Farm, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	return append([]models.Farm{}, m.data.farms...), nil
}

func (m *mockStore) DeleteFarm(id string) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	idx := -1
	for i, f := range m.data.farms {
		if f.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	m.data.farms = append(m.data.farms[:idx], m.data.farms[idx+1:]...)

	schedules := m.data.schedules[:0]
	for _, s := range m.data.schedules {
		if s.FarmID != id {
			schedules = append(schedules, s)
		}
	}
	m.data.schedules = schedules

	alerts := m.data.alerts[:0]
	for _, a := range m.data.alerts {
		if a.FarmID == nil || *a.FarmID != id {
			alerts = append(alerts, a)
		}
	}
	m.data.alerts = alerts

	notes := m.data.notes[:0]
	for _, n := range m.data.notes {
		if n.FarmID != id {
			notes = append(notes, n)
		}
	}
	m.data.notes = notes

	comments := m.data.comments[:0]
	for _, c := range m.data.comments {
		if c.FarmID != id {
			comments = append(comments, c)
		}
	}
	m.data.comments = comments
	return nil
}

func (m *mockStore) SaveSchedule(s models.Schedule) (string, error) {
	if err := m.writable(); err != nil {
		return "", err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	s.Tasks = append([]models.Task(nil), s.Tasks...)
	for i, existing := range m.data.schedules {
		if existing.FarmID == s.FarmID {
			s.ID = existing.ID
			s.CreatedAt = existing.CreatedAt
			m.data.schedules[i] = s
			return s.ID, nil
		}
	}
	m.data.schedules = append(m.data.schedules, s)
	return s.ID, nil
}

func copySchedule(s models.Schedule) models.Schedule {
	s.Tasks = append([]models.Task(nil), s.Tasks...)
	return s
}

func (m *mockStore) GetSchedule(id string) (models.Schedule, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	for _, s := range m.data.schedules {
		if s.ID == id {
			return copySchedule(s), nil
		}
	}
	return models.Schedule{}, ErrNotFound
}

func (m *mockStore) GetScheduleByFarm(farmID string) (models.Schedule, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	for _, s := range m.data.schedules {
		if s.FarmID == farmID {
			return copySchedule(s), nil
		}
	}
	return models.Schedule{}, ErrNotFound
}

func (m *mockStore) UpdateTaskStatus(scheduleID, taskID string, status models.TaskStatus) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for i, s := range m.data.schedules {
		if s.ID != scheduleID {
			continue
		}
		for j, t := range s.Tasks {
			if t.ID == taskID {
				m.data.schedules[i].Tasks[j].Status = status
				m.data.schedules[i].UpdatedAt = time.Now()
				return nil
			}
		}
	}
	return ErrNotFound
}

func (m *mockStore) ListPendingTasks(userID string) ([]models.PendingTask, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	pending := []models.PendingTask{}
	for _, f := range m.data.farms {
		if f.UserID != userID {
			continue
		}
		for _, s := range m.data.schedules {
			if s.FarmID != f.ID {
				continue
			}
			for _, t := range s.Tasks {
				if t.Status != models.PendingTaskStatus {
					continue
				}
				pending = append(pending, models.PendingTask{
					TaskID:      t.ID,
					ScheduleID:  s.ID,
					FarmID:      f.ID,
					FarmName:    f.Name,
					Title:       t.Title,
					Description: t.Description,
					Category:    t.Category,
					StartDate:   t.StartDate,
					DueDate:     t.DueDate,
				})
			}
		}
	}
	return pending, nil
}

func (m *mockStore) SaveAlert(a models.Alert) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for _, existing := range m.data.alerts {
		if existing.ID == a.ID {
			return errors.New("alert already exists")
		}
	}
	m.data.alerts = append(m.data.alerts, a)
	return nil
}

func (m *mockStore) GetAlert(id string) (models.Alert, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	for _, a := range m.data.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Alert{}, ErrNotFound
}

func (m *mockStore) ListAlertsByUser(userID string) ([]models.Alert, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	alerts := []models.Alert{}
	for _, a := range m.data.alerts {
		if a.UserID == userID {
			alerts = append(alerts, a)
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

func (m *mockStore) MarkAlertRead(id string) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for i, a := range m.data.alerts {
		if a.ID == id {
			m.data.alerts[i].IsRead = true
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) DeleteAlert(id string) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for i, a := range m.data.alerts {
		if a.ID == id {
			m.data.alerts = append(m.data.alerts[:i], m.data.alerts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) SaveAlertIfAbsent(a models.Alert, text string) (bool, error) {
	if err := m.writable(); err != nil {
		return false, err
	}
	if a.FarmID == nil {
		return false, errors.New("conditional alert requires a farm")
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for _, existing := range m.data.alerts {
		if existing.FarmID != nil && *existing.FarmID == *a.FarmID && existing.Type == a.Type && strings.Contains(existing.Message, text) {
			return false, nil
		}
	}
	m.data.alerts = append(m.data.alerts, a)
	return true, nil
}

func (m *mockStore) SaveNote(n models.PlantNote) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for _, existing := range m.data.notes {
		if existing.ID == n.ID {
			return errors.Wrap(ErrConflict, "save note")
		}
	}
	m.data.notes = append(m.data.notes, n)
	return nil
}

func (m *mockStore) GetNote(id string) (models.PlantNote, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	for _, n := range m.data.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return models.PlantNote{}, ErrNotFound
}

func (m *mockStore) ListNotesByFarm(farmID string) ([]models.PlantNote, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	notes := []models.PlantNote{}
	for _, n := range m.data.notes {
		if n.FarmID == farmID {
			notes = append(notes, n)
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Row != notes[j].Row {
			return notes[i].Row < notes[j].Row
		}
		return notes[i].Col < notes[j].Col
	})
	return notes, nil
}

func (m *mockStore) UpdateNote(n models.PlantNote) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for i, existing := range m.data.notes {
		if existing.ID == n.ID {
			m.data.notes[i].Title = n.Title
			m.data.notes[i].Type = n.Type
			m.data.notes[i].Content = n.Content
			m.data.notes[i].UpdatedAt = n.UpdatedAt
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) DeleteNote(id string) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for i, n := range m.data.notes {
		if n.ID == id {
			m.data.notes = append(m.data.notes[:i], m.data.notes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) SaveConsultant(c models.Consultant) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for _, existing := range m.data.consultants {
		if existing.ID == c.ID || existing.Email == c.Email {
			return errors.Wrap(ErrConflict, "save consultant")
		}
	}
	m.data.consultants = append(m.data.consultants, c)
	return nil
}

func (m *mockStore) GetConsultant(id string) (models.Consultant, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	for _, c := range m.data.consultants {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Consultant{}, ErrNotFound
}

func (m *mockStore) ListConsultants(f models.ConsultantFilter) ([]models.Consultant, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	out := []models.Consultant{}
	for _, c := range m.data.consultants {
		if f.Location != "" && c.Location != f.Location {
			continue
		}
		if f.Specialization != "" && c.Specialization != f.Specialization {
			continue
		}
		if c.Experience < f.MinExperience {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockStore) AssignConsultant(userID, consultantID string) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	if m.data.assigned == nil {
		m.data.assigned = map[string]string{}
	}
	m.data.assigned[userID] = consultantID
	return nil
}

func (m *mockStore) GetAssignedConsultant(userID string) (string, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	id, ok := m.data.assigned[userID]
	if !ok {
		return "", ErrNotFound
	}
	return id, nil
}

func (m *mockStore) ListFarmsByConsultant(consultantID string) ([]models.Farm, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	farms := []models.Farm{}
	for _, f := range m.data.farms {
		if m.data.assigned[f.UserID] == consultantID {
			farms = append(farms, f)
		}
	}
	return farms, nil
}

func (m *mockStore) SaveComment(c models.Comment) error {
	if err := m.writable(); err != nil {
		return err
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	m.data.comments = append(m.data.comments, c)
	return nil
}

func (m *mockStore) ListCommentsByFarm(farmID string) ([]models.Comment, error) {
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	names := make(map[string]string, len(m.data.consultants))
	for _, c := range m.data.consultants {
		names[c.ID] = c.Name
	}
	comments := []models.Comment{}
	for _, c := range m.data.comments {
		if c.FarmID == farmID {
			c.ConsultantName = names[c.ConsultantID]
			comments = append(comments, c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}
