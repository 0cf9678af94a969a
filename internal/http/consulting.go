package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/service"
	"github.com/pkg/errors"
)

func listNotesHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		notes, err := svc.ListNotes(userID, r.PathValue("farm_id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, notes)
	}
}

func createNoteHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req service.NoteRequest
		if err := decodeJSON(r, w, &req); err != nil {
			writeError(w, r, err)
			return
		}
		note, err := svc.CreateNote(userID, r.PathValue("farm_id"), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, note)
	}
}

func updateNoteHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req service.NoteUpdate
		if err := decodeJSON(r, w, &req); err != nil {
			writeError(w, r, err)
			return
		}
		note, err := svc.UpdateNote(userID, r.PathValue("farm_id"), r.PathValue("note_id"), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, note)
	}
}

func deleteNoteHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		if err := svc.DeleteNote(userID, r.PathValue("farm_id"), r.PathValue("note_id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func registerConsultantHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req service.RegisterConsultantRequest
		if err := decodeJSON(r, w, &req); err != nil {
			writeError(w, r, err)
			return
		}
		c, err := svc.RegisterConsultant(userID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// listConsultantsHandler filters on the location, specialization and
// experience query parameters.
func listConsultantsHandler(svc *service.FarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := models.ConsultantFilter{
			Location:       strings.TrimSpace(q.Get("location")),
			Specialization: strings.TrimSpace(q.Get("specialization")),
		}
		if raw := q.Get("experience"); raw != "" {
			years, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, r, errors.Wrapf(service.ErrInvalidInput, "experience %q is not a number", raw))
				return
			}
			filter.MinExperience = years
		}
		consultants, err := svc.ListConsultants(filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, consultants)
	}
}

func getConsultantHandler(svc *service.FarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetConsultant(r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func assignConsultantHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		c, err := svc.AssignConsultant(userID, r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func myConsultantHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		c, err := svc.AssignedConsultant(userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func consultantFarmsHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		farms, err := svc.ConsultantFarms(userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, farms)
	}
}

func consultantFarmHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		details, err := svc.ConsultantFarmDetails(userID, r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, details)
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

func addCommentHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req commentRequest
		if err := decodeJSON(r, w, &req); err != nil {
			writeError(w, r, err)
			return
		}
		comment, err := svc.AddComment(userID, r.PathValue("id"), req.Content)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, comment)
	}
}

func listCommentsHandler(svc *service.FarmService) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		comments, err := svc.ListComments(userID, r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)
	}
}
