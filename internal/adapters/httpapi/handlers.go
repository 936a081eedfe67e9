package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mikey/eco-scheduler/internal/adapters/csvrows"
	"github.com/mikey/eco-scheduler/internal/adapters/store"
	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/mikey/eco-scheduler/internal/schedule"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, map[string]string{"error": fmt.Sprintf(format, args...)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generateDateRequest struct {
	WasteName string `json:"wasteName"`
}

type generateDateResponse struct {
	DisposalDate string `json:"disposalDate"`
	Degraded     bool   `json:"degraded,omitempty"`
}

func (s *Server) handleGenerateDate(w http.ResponseWriter, r *http.Request) {
	logger := s.loggerFrom(r)
	item := &core.WasteItem{}

	if isMultipart(r) {
		if err := s.parseForm(r); err != nil {
			s.badForm(w, err)
			return
		}
		item.Name = r.FormValue("wasteName")

		image, err := readImage(r, "wasteImage")
		if err != nil {
			logger.Warn("Rejected uploaded image", zap.Error(err))
			httpError(w, http.StatusBadRequest, "Failed to process uploaded image")
			return
		}
		item.Image = image
	} else {
		var req generateDateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if isTooLarge(err) {
				httpError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			httpError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		item.Name = req.WasteName
	}

	if err := item.Validate(); err != nil {
		httpError(w, http.StatusBadRequest, "Waste name or image is required")
		return
	}

	result := s.deps.Engine.InferDate(r.Context(), item)
	if result.Failed() {
		logger.Warn("Date inference failed",
			zap.String("waste_name", result.WasteName),
			zap.String("error", result.Error))
		httpError(w, http.StatusInternalServerError, "%s", result.Error)
		return
	}

	writeJSON(w, http.StatusOK, generateDateResponse{
		DisposalDate: result.DisposalDate,
		Degraded:     result.Degraded,
	})
}

type processCSVResponse struct {
	*core.BatchResult
	Scheduled *int `json:"scheduled,omitempty"`
}

func (s *Server) handleProcessCSV(w http.ResponseWriter, r *http.Request) {
	logger := s.loggerFrom(r)

	if err := s.parseForm(r); err != nil {
		s.badForm(w, err)
		return
	}

	file, _, err := r.FormFile("csvFile")
	if err != nil {
		httpError(w, http.StatusBadRequest, "CSV file is required")
		return
	}
	defer file.Close()

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		httpError(w, http.StatusBadRequest, "User email is required")
		return
	}

	table, err := csvrows.ParseTable(file)
	if err != nil {
		logger.Warn("Unreadable CSV upload", zap.Error(err))
		httpError(w, http.StatusBadRequest, "Invalid CSV format")
		return
	}

	result, err := s.deps.Batch.ProcessTable(r.Context(), table.Headers, table.Rows, s.deps.Resolver)
	if err != nil {
		if core.IsStructural(err) {
			httpError(w, http.StatusBadRequest, "%s", err.Error())
			return
		}
		logger.Error("Batch processing failed", zap.Error(err))
		httpError(w, http.StatusInternalServerError, "Bulk processing service error")
		return
	}

	logger.Info("Processed CSV batch",
		zap.String("email", email),
		zap.Int("rows", len(result.Results)),
		zap.Int("success", result.SuccessCount),
		zap.Int("errors", result.ErrorCount))

	resp := processCSVResponse{BatchResult: result}
	if persist, _ := strconv.ParseBool(r.FormValue("schedule")); persist {
		added, err := s.deps.Scheduler.AddResults(r.Context(), email, result.Results)
		if err != nil {
			logger.Error("Failed to schedule batch results", zap.Error(err))
			httpError(w, http.StatusInternalServerError, "Failed to add events to calendar")
			return
		}
		resp.Scheduled = &added
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	logger := s.loggerFrom(r)

	if err := s.parseForm(r); err != nil {
		s.badForm(w, err)
		return
	}

	image, err := readImage(r, "image")
	if err != nil {
		logger.Warn("Rejected uploaded image", zap.Error(err))
		httpError(w, http.StatusBadRequest, "Failed to process uploaded image")
		return
	}
	item := &core.WasteItem{Name: r.FormValue("product"), Image: image}
	if err := item.Validate(); err != nil {
		httpError(w, http.StatusBadRequest, "Product name or image is required")
		return
	}

	classification, err := s.deps.Classifier.Classify(r.Context(), item)
	if err != nil {
		if errors.Is(err, core.ErrNoClassification) {
			httpError(w, http.StatusInternalServerError, "%s", err.Error())
			return
		}
		logger.Error("Classification failed", zap.Error(err))
		httpError(w, http.StatusInternalServerError, "Classification service error")
		return
	}

	writeJSON(w, http.StatusOK, classification)
}

type createEventRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Email string `json:"email"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.deps.Scheduler.Events(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		s.eventError(w, r, err)
		return
	}
	if events == nil {
		events = []*core.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Date) == "" {
		httpError(w, http.StatusBadRequest, "Title and date are required")
		return
	}

	event, err := s.deps.Scheduler.AddEvent(r.Context(), req.Email, req.Title, req.Date)
	if err != nil {
		s.eventError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"event": event})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.deps.Scheduler.Remove(r.Context(), id, r.URL.Query().Get("email")); err != nil {
		s.eventError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if strings.TrimSpace(email) == "" {
		s.eventError(w, r, schedule.ErrOwnerRequired)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=waste-disposal.ics")
	if err := s.deps.Scheduler.ExportICS(r.Context(), email, w); err != nil {
		s.loggerFrom(r).Error("ICS export failed", zap.Error(err))
	}
}

func (s *Server) handleRunNotifications(w http.ResponseWriter, r *http.Request) {
	report := s.deps.Reminders.SendDailyReminders(r.Context())
	code := http.StatusOK
	if !report.Success {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, report)
}

func (s *Server) badForm(w http.ResponseWriter, err error) {
	if isTooLarge(err) {
		httpError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	httpError(w, http.StatusBadRequest, "Invalid form data")
}

func (s *Server) eventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, schedule.ErrOwnerRequired),
		errors.Is(err, schedule.ErrInvalidDate),
		errors.Is(err, store.ErrInvalidEvent):
		httpError(w, http.StatusBadRequest, "%s", err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpError(w, http.StatusNotFound, "%s", err.Error())
	default:
		s.loggerFrom(r).Error("Event store failure", zap.Error(err))
		httpError(w, http.StatusInternalServerError, "Event store failure")
	}
}
