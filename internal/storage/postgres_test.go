package storage_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	internal_storage "github.com/ignatij/vineyard/internal/storage"
	"github.com/ignatij/vineyard/internal/testutil"
	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/planner"
	"github.com/ignatij/vineyard/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore(t *testing.T) {
	testDB := testutil.SetupTestDB(t, "../../migrations")
	defer testDB.Teardown(t)

	// Helper to create a transactional store
	newTxStore := func(t *testing.T) *internal_storage.PostgresStore {
		store, err := internal_storage.NewPostgresStore(testDB.ConnStr)
		require.NoError(t, err)
		txStore, err := store.Begin()
		require.NoError(t, err)
		t.Cleanup(func() {
			txStore.Rollback()
			store.Close()
		})
		return txStore.(*internal_storage.PostgresStore)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	newFarm := func(id, user string) models.Farm {
		return models.Farm{
			ID:           id,
			UserID:       user,
			Name:         "Farm " + id,
			Length:       20,
			Width:        10,
			GrapeVariety: "Thompson Seedless",
			PlantSpacing: models.PlantSpacing{Width: 1.8, Length: 2.4},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	newSchedule := func(t *testing.T, id, farmID string) models.Schedule {
		planting := civil.Date{Year: 2024, Month: 3, Day: 1}
		tasks, err := planner.GenerateTimeline("Thompson Seedless", planting)
		require.NoError(t, err)
		return models.Schedule{
			ID:           id,
			FarmID:       farmID,
			PlantingDate: planting,
			EndDate:      planner.EndDate(planting),
			CreatedAt:    now,
			UpdatedAt:    now,
			Tasks:        tasks,
		}
	}

	t.Run("SaveAndGetFarm", func(t *testing.T) {
		store := newTxStore(t)
		farm := newFarm("f1", "u1")
		require.NoError(t, store.SaveFarm(farm))

		got, err := store.GetFarm("f1")
		require.NoError(t, err)
		assert.Equal(t, farm.Name, got.Name)
		assert.Equal(t, farm.PlantSpacing, got.PlantSpacing)
		assert.Equal(t, "u1", got.UserID)
	})

	t.Run("GetNonExistingFarm", func(t *testing.T) {
		store := newTxStore(t)
		_, err := store.GetFarm("missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListFarmsByUser", func(t *testing.T) {
		store := newTxStore(t)
		require.NoError(t, store.SaveFarm(newFarm("f1", "u1")))
		require.NoError(t, store.SaveFarm(newFarm("f2", "u2")))

		farms, err := store.ListFarmsByUser("u1")
		require.NoError(t, err)
		assert.Len(t, farms, 1)
		assert.Equal(t, "f1", farms[0].ID)

		all, err := store.ListFarms()
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("ScheduleRoundTrip", func(t *testing.T) {
		store := newTxStore(t)
		require.NoError(t, store.SaveFarm(newFarm("f1", "u1")))
		sched := newSchedule(t, "s1", "f1")
		id, err := store.SaveSchedule(sched)
		require.NoError(t, err)
		assert.Equal(t, "s1", id)

		got, err := store.GetScheduleByFarm("f1")
		require.NoError(t, err)
		assert.Equal(t, "s1", got.ID)
		assert.Equal(t, sched.PlantingDate, got.PlantingDate)
		assert.Equal(t, sched.EndDate, got.EndDate)
		assert.Equal(t, sched.Tasks, got.Tasks)

		byID, err := store.GetSchedule("s1")
		require.NoError(t, err)
		assert.Len(t, byID.Tasks, len(sched.Tasks))
	})

	t.Run("SaveScheduleReplacesTasks", func(t *testing.T) {
		store := newTxStore(t)
		require.NoError(t, store.SaveFarm(newFarm("f1", "u1")))
		sched := newSchedule(t, "s1", "f1")
		_, err := store.SaveSchedule(sched)
		require.NoError(t, err)

		sched.PlantingDate = civil.Date{Year: 2025, Month: 4, Day: 1}
		sched.Tasks = sched.Tasks[:2]
		_, err = store.SaveSchedule(sched)
		require.NoError(t, err)

		got, err := store.GetSchedule("s1")
		require.NoError(t, err)
		assert.Len(t, got.Tasks, 2)
		assert.Equal(t, sched.PlantingDate, got.PlantingDate)
	})

	t.Run("SaveScheduleKeepsFarmSchedule", func(t *testing.T) {
		store := newTxStore(t)
		require.NoError(t, store.SaveFarm(newFarm("f1", "u1")))
		_, err := store.SaveSchedule(newSchedule(t, "s1", "f1"))
		require.NoError(t, err)

		second := newSchedule(t, "s2", "f1")
		second.Tasks = second.Tasks[:1]
		id, err := store.SaveSchedule(second)
		require.NoError(t, err)
		assert.Equal(t, "s1", id)

		got, err := store.GetScheduleByFarm("f1")
		require.NoError(t, err)
		assert.Equal(t, "s1", got.ID)
		assert.Len(t, got.Tasks, 1)
		_, err = store.GetSchedule("s2")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateTaskStatus", func(t *testing.T) {
		store := newTxStore(t)
		require.NoError(t, store.SaveFarm(newFarm("f1", "u1")))
		_, err := store.SaveSchedule(newSchedule(t, "s1", "f1"))
		require.NoError(t, err)

		require.NoError(t, store.UpdateTaskStatus("s1", "3", models.CompletedTaskStatus))
		got, err := store.GetSchedule("s1")
		require.NoError(t, err)
		task, ok := got.Task("3")
		require.True(t, ok)
		assert.Equal(t, models.CompletedTaskStatus, task.Status)

		err = store.UpdateTaskStatus("s1", "999", models.CompletedTaskStatus)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListPendingTasks", func(t *testing.T) {
		store := newTxStore(t)
		require.NoError(t, store.SaveFarm(newFarm("f1", "u1")))
		sched := newSchedule(t, "s1", "f1")
		_, err := store.SaveSchedule(sched)
		require.NoError(t, err)
		require.NoError(t, store.UpdateTaskStatus("s1", "1", models.CompletedTaskStatus))

		pending, err := store.ListPendingTasks("u1")
		require.NoError(t, err)
		assert.Len(t, pending, len(sched.Tasks)-1)
		assert.Equal(t, "2", pending[0].TaskID)
		assert.Equal(t, "Farm f1", pending[0].FarmName)
		assert.Equal(t, "s1", pending[0].ScheduleID)

		none, err := store.ListPendingTasks("u2")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Alerts", func(t *testing.T) {
		store := newTxStore(t)
		require.NoError(t, store.SaveFarm(newFarm("f1", "u1")))
		farmID := "f1"
		older := models.Alert{ID: "a1", UserID: "u1", FarmID: &farmID, Message: "Upcoming task reminder: Soil Testing", Type: models.TaskReminderAlertType, Date: now, CreatedAt: now.Add(-time.Hour)}
		newer := models.Alert{ID: "a2", UserID: "u1", Message: "General", Type: models.TaskAlertType, Date: now, CreatedAt: now}
		require.NoError(t, store.SaveAlert(older))
		require.NoError(t, store.SaveAlert(newer))

		alerts, err := store.ListAlertsByUser("u1")
		require.NoError(t, err)
		require.Len(t, alerts, 2)
		assert.Equal(t, "a2", alerts[0].ID)
		assert.Nil(t, alerts[0].FarmID)

		dup := models.Alert{ID: "a3", UserID: "u1", FarmID: &farmID, Message: "Upcoming task reminder: Soil Testing again", Type: models.TaskReminderAlertType, Date: now, CreatedAt: now}
		saved, err := store.SaveAlertIfAbsent(dup, "Soil Testing")
		require.NoError(t, err)
		assert.False(t, saved)
		fresh := models.Alert{ID: "a4", UserID: "u1", FarmID: &farmID, Message: "Upcoming task reminder: Planting Day", Type: models.TaskReminderAlertType, Date: now, CreatedAt: now}
		saved, err = store.SaveAlertIfAbsent(fresh, "Planting Day")
		require.NoError(t, err)
		assert.True(t, saved)
		_, err = store.SaveAlertIfAbsent(models.Alert{ID: "a5", UserID: "u1", Type: models.TaskReminderAlertType}, "x")
		assert.Error(t, err)
		require.NoError(t, store.DeleteAlert("a4"))

		require.NoError(t, store.MarkAlertRead("a1"))
		got, err := store.GetAlert("a1")
		require.NoError(t, err)
		assert.True(t, got.IsRead)

		require.NoError(t, store.DeleteAlert("a2"))
		assert.ErrorIs(t, store.DeleteAlert("a2"), storage.ErrNotFound)
		assert.ErrorIs(t, store.MarkAlertRead("a2"), storage.ErrNotFound)
	})

	t.Run("DeleteFarmCascades", func(t *testing.T) {
		store := newTxStore(t)
		require.NoError(t, store.SaveFarm(newFarm("f1", "u1")))
		_, err := store.SaveSchedule(newSchedule(t, "s1", "f1"))
		require.NoError(t, err)
		farmID := "f1"
		require.NoError(t, store.SaveAlert(models.Alert{ID: "a1", UserID: "u1", FarmID: &farmID, Message: "m", Type: models.TaskAlertType, Date: now, CreatedAt: now}))

		require.NoError(t, store.DeleteFarm("f1"))
		_, err = store.GetScheduleByFarm("f1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.GetAlert("a1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteFarm("f1"), storage.ErrNotFound)
	})
	t.Run("PlantNotes", func(t *testing.T) {
		store := newTxStore(t)
		require.NoError(t, store.SaveFarm(newFarm("f1", "u1")))
		n := models.PlantNote{ID: "n1", FarmID: "f1", Row: 2, Col: 1, Title: "Mildew", Type: "disease", Content: "Spots", CreatedAt: now, UpdatedAt: now}
		require.NoError(t, store.SaveNote(n))
		require.NoError(t, store.SaveNote(models.PlantNote{ID: "n2", FarmID: "f1", Row: 0, Col: 4, Title: "Corner", Type: "observation", Content: "Fine", CreatedAt: now, UpdatedAt: now}))

		notes, err := store.ListNotesByFarm("f1")
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "n2", notes[0].ID)
		assert.Equal(t, "n1", notes[1].ID)
		assert.Equal(t, 2, notes[1].Row)
		assert.Equal(t, 1, notes[1].Col)
		assert.Equal(t, "Spots", notes[1].Content)
		assert.True(t, now.Equal(notes[1].CreatedAt))

		n.Title, n.Type, n.Content, n.Row = "Treated", "treatment", "Sprayed", 9
		n.UpdatedAt = now.Add(time.Hour)
		require.NoError(t, store.UpdateNote(n))
		got, err := store.GetNote("n1")
		require.NoError(t, err)
		assert.Equal(t, "Treated", got.Title)
		assert.Equal(t, 2, got.Row, "position is not updatable")
		assert.ErrorIs(t, store.UpdateNote(models.PlantNote{ID: "missing"}), storage.ErrNotFound)

		require.NoError(t, store.DeleteNote("n2"))
		assert.ErrorIs(t, store.DeleteNote("n2"), storage.ErrNotFound)
		_, err = store.GetNote("n2")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		require.NoError(t, store.DeleteFarm("f1"))
		_, err = store.GetNote("n1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	newConsultant := func(id, email, location string, years int) models.Consultant {
		return models.Consultant{ID: id, Name: "Consultant " + id, Email: email, Location: location, Specialization: "Viticulture", Experience: years, CreatedAt: now}
	}

	t.Run("Consultants", func(t *testing.T) {
		store := newTxStore(t)
		require.NoError(t, store.SaveConsultant(newConsultant("c1", "c1@example.com", "Nashik", 12)))
		require.NoError(t, store.SaveConsultant(newConsultant("c2", "c2@example.com", "Pune", 3)))

		got, err := store.GetConsultant("c1")
		require.NoError(t, err)
		assert.Equal(t, "c1@example.com", got.Email)
		assert.Equal(t, "Nashik", got.Location)
		assert.Equal(t, 12, got.Experience)
		assert.True(t, now.Equal(got.CreatedAt))
		_, err = store.GetConsultant("missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		all, err := store.ListConsultants(models.ConsultantFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
		filtered, err := store.ListConsultants(models.ConsultantFilter{Location: "Nashik", Specialization: "Viticulture", MinExperience: 10})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, "c1", filtered[0].ID)

		require.NoError(t, store.SaveFarm(newFarm("f1", "u1")))
		require.NoError(t, store.SaveFarm(newFarm("f2", "u2")))
		_, err = store.GetAssignedConsultant("u1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		require.NoError(t, store.AssignConsultant("u1", "c1"))
		require.NoError(t, store.AssignConsultant("u1", "c2"))
		id, err := store.GetAssignedConsultant("u1")
		require.NoError(t, err)
		assert.Equal(t, "c2", id)

		farms, err := store.ListFarmsByConsultant("c2")
		require.NoError(t, err)
		require.Len(t, farms, 1)
		assert.Equal(t, "f1", farms[0].ID)
		farms, err = store.ListFarmsByConsultant("c1")
		require.NoError(t, err)
		assert.Empty(t, farms)

		// a unique violation aborts the transaction, so it goes last
		err = store.SaveConsultant(newConsultant("c3", "c1@example.com", "Nashik", 1))
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("Comments", func(t *testing.T) {
		store := newTxStore(t)
		require.NoError(t, store.SaveFarm(newFarm("f1", "u1")))
		require.NoError(t, store.SaveConsultant(newConsultant("c1", "c1@example.com", "Nashik", 12)))
		require.NoError(t, store.SaveComment(models.Comment{ID: "k2", FarmID: "f1", ConsultantID: "c1", Content: "Second", CreatedAt: now.Add(time.Minute), UpdatedAt: now}))
		require.NoError(t, store.SaveComment(models.Comment{ID: "k1", FarmID: "f1", ConsultantID: "c1", Content: "First", CreatedAt: now, UpdatedAt: now}))

		comments, err := store.ListCommentsByFarm("f1")
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "k1", comments[0].ID)
		assert.Equal(t, "Consultant c1", comments[0].ConsultantName)

		none, err := store.ListCommentsByFarm("missing")
		require.NoError(t, err)
		assert.Empty(t, none)

		require.NoError(t, store.DeleteFarm("f1"))
		comments, err = store.ListCommentsByFarm("f1")
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}
