package http

import (
	"net/http"

	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/service"
)

func createFarmHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req service.CreateFarmRequest
		if err := decodeJSON(r, w, &req); err != nil {
			writeError(w, r, err)
			return
		}
		farm, err := svc.CreateFarm(userID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, farm)
	}
}

func listFarmsHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		farms, err := svc.ListFarms(userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if farms == nil {
			farms = []models.Farm{}
		}
		writeJSON(w, http.StatusOK, farms)
	}
}

func farmDetailsHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		details, err := svc.FarmDetails(userID, r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, details)
	}
}

func deleteFarmHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		if err := svc.DeleteFarm(userID, r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type scheduleRequest struct {
	PlantingDate string `json:"planting_date"`
}

func generateScheduleHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req scheduleRequest
		if err := decodeJSON(r, w, &req); err != nil {
			writeError(w, r, err)
			return
		}
		sched, err := svc.GenerateSchedule(userID, r.PathValue("id"), req.PlantingDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, sched)
	}
}

func getScheduleHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		sched, err := svc.GetSchedule(userID, r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sched)
	}
}

func scheduleICSHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		ics, err := svc.ExportScheduleICS(userID, r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="schedule.ics"`)
		_, _ = w.Write([]byte(ics))
	}
}

type taskStatusRequest struct {
	Status string `json:"status"`
}

func updateTaskHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req taskStatusRequest
		if err := decodeJSON(r, w, &req); err != nil {
			writeError(w, r, err)
			return
		}
		scheduleID, taskID := r.PathValue("schedule_id"), r.PathValue("task_id")
		if err := svc.UpdateTaskStatus(userID, scheduleID, taskID, req.Status); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"schedule_id": scheduleID,
			"task_id":     taskID,
			"status":      req.Status,
		})
	}
}

func pendingTasksHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		tasks, err := svc.PendingTasks(userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if tasks == nil {
			tasks = []models.PendingTask{}
		}
		writeJSON(w, http.StatusOK, tasks)
	}
}

func listAlertsHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		alerts, err := svc.ListAlerts(userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if alerts == nil {
			alerts = []models.Alert{}
		}
		writeJSON(w, http.StatusOK, alerts)
	}
}

func markAlertReadHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		if err := svc.MarkAlertRead(userID, r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteAlertHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		if err := svc.DeleteAlert(userID, r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
