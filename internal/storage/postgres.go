package storage

import (
	"database/sql"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/storage"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

type DBInterface interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	QueryRowx(query string, args ...interface{}) *sqlx.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

type PostgresStore struct {
	db DBInterface
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Begin() (storage.Store, error) {
	if db, ok := s.db.(*sqlx.DB); ok {
		tx, err := db.Beginx()
		if err != nil {
			return nil, err
		}
		return &PostgresStore{db: tx}, nil
	}
	return nil, fmt.Errorf("cannot begin transaction on unknown type")
}

func (s *PostgresStore) Commit() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Commit()
	}
	return fmt.Errorf("cannot commit: not a transaction")
}

func (s *PostgresStore) Rollback() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Rollback()
	}
	return fmt.Errorf("cannot rollback: not a transaction")
}

func (s *PostgresStore) Close() error {
	if db, ok := s.db.(*sqlx.DB); ok {
		return db.Close()
	}
	return nil // No-op for *sqlx.Tx
}

// farmRow flattens plant spacing into columns
type farmRow struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	Name          string    `db:"farm_name"`
	Length        float64   `db:"length"`
	Width         float64   `db:"width"`
	GrapeVariety  string    `db:"grape_variety"`
	SpacingWidth  float64   `db:"spacing_width"`
	SpacingLength float64   `db:"spacing_length"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r farmRow) farm() models.Farm {
	return models.Farm{
		ID:           r.ID,
		UserID:       r.UserID,
		Name:         r.Name,
		Length:       r.Length,
		Width:        r.Width,
		GrapeVariety: r.GrapeVariety,
		PlantSpacing: models.PlantSpacing{Width: r.SpacingWidth, Length: r.SpacingLength},
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type scheduleRow struct {
	ID           string    `db:"id"`
	FarmID       string    `db:"farm_id"`
	PlantingDate time.Time `db:"planting_date"`
	EndDate      time.Time `db:"end_date"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type taskRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	StartDate   time.Time `db:"start_date"`
	DueDate     time.Time `db:"due_date"`
	Status      string    `db:"status"`
}

func (r taskRow) task() models.Task {
	return models.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    models.TaskCategory(r.Category),
		StartDate:   civil.DateOf(r.StartDate),
		DueDate:     civil.DateOf(r.DueDate),
		Status:      models.TaskStatus(r.Status),
	}
}

type pendingRow struct {
	taskRow
	ScheduleID string `db:"schedule_id"`
	FarmID     string `db:"farm_id"`
	FarmName   string `db:"farm_name"`
}

const farmColumns = "id, user_id, farm_name, length, width, grape_variety, spacing_width, spacing_length, created_at, updated_at"

// SaveFarm creates a new farm
func (s *PostgresStore) SaveFarm(f models.Farm) error {
	_, err := s.db.Exec("INSERT INTO farms ("+farmColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
		f.ID, f.UserID, f.Name, f.Length, f.Width, f.GrapeVariety, f.PlantSpacing.Width, f.PlantSpacing.Length, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "save farm")
	}
	return nil
}

func (s *PostgresStore) GetFarm(id string) (models.Farm, error) {
	var row farmRow
	err := s.db.Get(&row, "SELECT "+farmColumns+" FROM farms WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Farm{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Farm{}, errors.Wrapf(err, "get farm %s", id)
	}
	return row.farm(), nil
}

func (s *PostgresStore) ListFarmsByUser(userID string) ([]models.Farm, error) {
	return s.selectFarms("SELECT "+farmColumns+" FROM farms WHERE user_id = $1 ORDER BY created_at", userID)
}

func (s *PostgresStore) ListFarms() ([]models.Farm, error) {
	return s.selectFarms("SELECT " + farmColumns + " FROM farms ORDER BY created_at")
}

func (s *PostgresStore) selectFarms(query string, args ...interface{}) ([]models.Farm, error) {
	var rows []farmRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "list farms")
	}
	farms := make([]models.Farm, 0, len(rows))
	for _, r := range rows {
		farms = append(farms, r.farm())
	}
	return farms, nil
}

// DeleteFarm removes a farm; schedules, tasks and alerts cascade
func (s *PostgresStore) DeleteFarm(id string) error {
	res, err := s.db.Exec("DELETE FROM farms WHERE id = $1", id)
	if err != nil {
		return errors.Wrapf(err, "delete farm %s", id)
	}
	return expectAffected(res)
}

// SaveSchedule upserts on farm_id so a farm keeps a single schedule even
// when two generations race. It returns the id of the stored schedule.
func (s *PostgresStore) SaveSchedule(sc models.Schedule) (string, error) {
	var id string
	err := s.db.QueryRowx(`
		INSERT INTO schedules (id, farm_id, planting_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (farm_id) DO UPDATE
		SET planting_date = EXCLUDED.planting_date,
		end_date = EXCLUDED.end_date,
		updated_at = EXCLUDED.updated_at
		RETURNING id`,
		sc.ID, sc.FarmID, sc.PlantingDate.String(), sc.EndDate.String(), sc.CreatedAt, sc.UpdatedAt).Scan(&id)
	if err != nil {
		return "", errors.Wrapf(err, "save schedule of farm %s", sc.FarmID)
	}
	if _, err := s.db.Exec("DELETE FROM schedule_tasks WHERE schedule_id = $1", id); err != nil {
		return "", errors.Wrapf(err, "clear tasks of schedule %s", id)
	}
	for i, t := range sc.Tasks {
		_, err := s.db.Exec(`
			INSERT INTO schedule_tasks (schedule_id, id, position, title, description, category, start_date, due_date, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id, t.ID, i, t.Title, t.Description, t.Category, t.StartDate.String(), t.DueDate.String(), t.Status)
		if err != nil {
			return "", errors.Wrapf(err, "save task %s of schedule %s", t.ID, id)
		}
	}
	return id, nil
}

func (s *PostgresStore) GetSchedule(id string) (models.Schedule, error) {
	return s.getSchedule("id", id)
}

func (s *PostgresStore) GetScheduleByFarm(farmID string) (models.Schedule, error) {
	return s.getSchedule("farm_id", farmID)
}

// getSchedule loads a schedule by one of its unique columns, including tasks
func (s *PostgresStore) getSchedule(column, value string) (models.Schedule, error) {
	var row scheduleRow
	err := s.db.Get(&row, "SELECT id, farm_id, planting_date, end_date, created_at, updated_at FROM schedules WHERE "+column+" = $1", value)
	if err == sql.ErrNoRows {
		return models.Schedule{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Schedule{}, errors.Wrapf(err, "get schedule by %s", column)
	}

	var tasks []taskRow
	err = s.db.Select(&tasks, `
		SELECT id, title, description, category, start_date, due_date, status
		FROM schedule_tasks WHERE schedule_id = $1 ORDER BY position`, row.ID)
	if err != nil {
		return models.Schedule{}, errors.Wrapf(err, "get tasks of schedule %s", row.ID)
	}

	sc := models.Schedule{
		ID:           row.ID,
		FarmID:       row.FarmID,
		PlantingDate: civil.DateOf(row.PlantingDate),
		EndDate:      civil.DateOf(row.EndDate),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		Tasks:        make([]models.Task, 0, len(tasks)),
	}
	for _, t := range tasks {
		sc.Tasks = append(sc.Tasks, t.task())
	}
	return sc, nil
}

// UpdateTaskStatus sets the status of one task and touches its schedule
func (s *PostgresStore) UpdateTaskStatus(scheduleID, taskID string, status models.TaskStatus) error {
	res, err := s.db.Exec("UPDATE schedule_tasks SET status = $1 WHERE schedule_id = $2 AND id = $3", status, scheduleID, taskID)
	if err != nil {
		return errors.Wrapf(err, "update task %s", taskID)
	}
	if err := expectAffected(res); err != nil {
		return err
	}
	_, err = s.db.Exec("UPDATE schedules SET updated_at = CURRENT_TIMESTAMP WHERE id = $1", scheduleID)
	return err
}

func (s *PostgresStore) ListPendingTasks(userID string) ([]models.PendingTask, error) {
	var rows []pendingRow
	err := s.db.Select(&rows, `
		SELECT t.id, t.title, t.description, t.category, t.start_date, t.due_date, t.status,
		t.schedule_id, f.id AS farm_id, f.farm_name
		FROM schedule_tasks t
		JOIN schedules sc ON sc.id = t.schedule_id
		JOIN farms f ON f.id = sc.farm_id
		WHERE f.user_id = $1 AND t.status = $2
		ORDER BY f.created_at, t.position`, userID, models.PendingTaskStatus)
	if err != nil {
		return nil, errors.Wrap(err, "list pending tasks")
	}
	pending := make([]models.PendingTask, 0, len(rows))
	for _, r := range rows {
		t := r.task()
		pending = append(pending, models.PendingTask{
			TaskID:      t.ID,
			ScheduleID:  r.ScheduleID,
			FarmID:      r.FarmID,
			FarmName:    r.FarmName,
			Title:       t.Title,
			Description: t.Description,
			Category:    t.Category,
			StartDate:   t.StartDate,
			DueDate:     t.DueDate,
		})
	}
	return pending, nil
}

const alertColumns = "id, user_id, farm_id, message, type, date, is_read, created_at"

func (s *PostgresStore) SaveAlert(a models.Alert) error {
	_, err := s.db.Exec("INSERT INTO alerts ("+alertColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		a.ID, a.UserID, a.FarmID, a.Message, a.Type, a.Date, a.IsRead, a.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "save alert")
	}
	return nil
}

func (s *PostgresStore) GetAlert(id string) (models.Alert, error) {
	var a models.Alert
	err := s.db.Get(&a, "SELECT "+alertColumns+" FROM alerts WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Alert{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Alert{}, errors.Wrapf(err, "get alert %s", id)
	}
	return a, nil
}

func (s *PostgresStore) ListAlertsByUser(userID string) ([]models.Alert, error) {
	alerts := []models.Alert{}
	err := s.db.Select(&alerts, "SELECT "+alertColumns+" FROM alerts WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, errors.Wrap(err, "list alerts")
	}
	return alerts, nil
}

func (s *PostgresStore) MarkAlertRead(id string) error {
	res, err := s.db.Exec("UPDATE alerts SET is_read = TRUE WHERE id = $1", id)
	if err != nil {
		return errors.Wrapf(err, "mark alert %s read", id)
	}
	return expectAffected(res)
}

func (s *PostgresStore) DeleteAlert(id string) error {
	res, err := s.db.Exec("DELETE FROM alerts WHERE id = $1", id)
	if err != nil {
		return errors.Wrapf(err, "delete alert %s", id)
	}
	return expectAffected(res)
}

// SaveAlertIfAbsent inserts a unless its farm already has an alert of the
// same type whose message contains text. An advisory lock on (farm, type,
// text) serializes concurrent writers until the transaction ends, so it runs
// in its own transaction when the store is not already in one.
func (s *PostgresStore) SaveAlertIfAbsent(a models.Alert, text string) (created bool, err error) {
	if a.FarmID == nil {
		return false, errors.New("conditional alert requires a farm")
	}
	if _, ok := s.db.(*sqlx.Tx); !ok {
		txStore, beginErr := s.Begin()
		if beginErr != nil {
			return false, errors.Wrap(beginErr, "begin transaction")
		}
		defer func() {
			if err != nil {
				_ = txStore.Rollback()
				return
			}
			err = txStore.Commit()
		}()
		return txStore.SaveAlertIfAbsent(a, text)
	}

	lockKey := *a.FarmID + "|" + string(a.Type) + "|" + text
	if _, err := s.db.Exec("SELECT pg_advisory_xact_lock(hashtext($1))", lockKey); err != nil {
		return false, errors.Wrap(err, "lock alert key")
	}
	res, err := s.db.Exec(`
		INSERT INTO alerts (`+alertColumns+`)
		SELECT $1::text, $2::text, $3::text, $4::text, $5::text, $6::timestamptz, $7::boolean, $8::timestamptz
		WHERE NOT EXISTS (
			SELECT 1 FROM alerts WHERE farm_id = $3::text AND type = $5::text AND strpos(message, $9::text) > 0
		)`,
		a.ID, a.UserID, *a.FarmID, a.Message, a.Type, a.Date, a.IsRead, a.CreatedAt, text)
	if err != nil {
		return false, errors.Wrap(err, "save alert")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
