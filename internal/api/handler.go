// Package api is the HTTP surface over the store, the event snapshot,
// and the reassignment engine. It holds no domain logic of its own:
// every endpoint loads, delegates, and encodes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/teampulse-io/teampulse/internal/availability"
	"github.com/teampulse-io/teampulse/internal/domain"
	"github.com/teampulse-io/teampulse/internal/metrics"
	"github.com/teampulse-io/teampulse/internal/reassign"
)

// DefaultReassignReason is stamped on commits whose request carries no
// reason of its own.
const DefaultReassignReason = "Reassigned via dashboard"

type Store interface {
	Employees() ([]domain.Employee, error)
	Tasks() ([]domain.Task, error)
	ExecuteReassignment(taskID, newAssigneeID, reason string) (domain.ReassignmentAudit, error)
}

// EventSource serves the canonical event snapshot and refreshes it on
// demand.
type EventSource interface {
	Snapshot() []domain.CanonicalEvent
	LastRefresh() time.Time
	Refresh(ctx context.Context) error
}

// AuditRecorder receives executed reassignments for trend counters.
// Recording is best effort; a failure never fails the commit.
type AuditRecorder interface {
	RecordReassignment(ctx context.Context, audit domain.ReassignmentAudit) error
}

type Handler struct {
	store    Store
	events   EventSource
	weights  reassign.Weights
	topN     int
	sink     metrics.Sink
	recorder AuditRecorder
	clock    func() time.Time
}

func NewHandler(store Store, events EventSource, weights reassign.Weights, topN int, sink metrics.Sink) *Handler {
	if topN <= 0 {
		topN = reassign.DefaultTopN
	}
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	return &Handler{
		store:   store,
		events:  events,
		weights: weights,
		topN:    topN,
		sink:    sink,
		clock:   time.Now,
	}
}

// WithAuditRecorder sets the optional analytics recorder for executed
// reassignments.
func (h *Handler) WithAuditRecorder(rec AuditRecorder) *Handler {
	h.recorder = rec
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/health" && r.Method == http.MethodGet:
		h.health(w, r)

	case path == "/api/status" && r.Method == http.MethodGet:
		h.status(w, r)

	case path == "/api/employees" && r.Method == http.MethodGet:
		h.employees(w, r)

	case path == "/api/tasks" && r.Method == http.MethodGet:
		h.tasks(w, r)

	case path == "/api/normalize" && r.Method == http.MethodGet:
		h.normalize(w, r)

	case path == "/api/availability" && r.Method == http.MethodGet:
		h.availability(w, r)

	case path == "/api/utilization" && r.Method == http.MethodGet:
		h.utilization(w, r)

	case path == "/api/reassignments" && r.Method == http.MethodGet:
		h.reassignments(w, r)

	case path == "/api/reassign" && r.Method == http.MethodPost:
		h.reassign(w, r)

	case path == "/api/refresh" && r.Method == http.MethodPost:
		h.refresh(w, r)

	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// HealthResponse represents the /health endpoint response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	verbose := r.URL.Query().Get("verbose") == "true"

	if !verbose {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
		return
	}

	resp := HealthResponse{
		Status:     "ok",
		Components: make(map[string]string),
	}

	if _, err := h.store.Employees(); err != nil {
		resp.Status = "degraded"
		resp.Components["store"] = "unhealthy: " + err.Error()
	} else {
		resp.Components["store"] = "healthy"
	}

	if h.events.LastRefresh().IsZero() {
		resp.Components["snapshot"] = "empty: no refresh has succeeded yet"
	} else {
		resp.Components["snapshot"] = "healthy"
	}

	statusCode := http.StatusOK
	if resp.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, resp)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{OK: true}

	if emps, err := h.store.Employees(); err == nil {
		resp.EmployeeCount = len(emps)
	} else {
		resp.OK = false
	}
	if tasks, err := h.store.Tasks(); err == nil {
		resp.TaskCount = len(tasks)
	} else {
		resp.OK = false
	}
	resp.EventCount = len(h.events.Snapshot())
	if last := h.events.LastRefresh(); !last.IsZero() {
		resp.LastRefresh = formatTime(last)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) employees(w http.ResponseWriter, r *http.Request) {
	emps, err := h.store.Employees()
	if err != nil {
		log.Printf("api: load employees error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load employees")
		return
	}
	writeJSON(w, http.StatusOK, EmployeesResponse{Employees: emps, Count: len(emps)})
}

func (h *Handler) tasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.Tasks()
	if err != nil {
		log.Printf("api: load tasks error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load tasks")
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]domain.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.Status == domain.TaskStatus(status) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	writeJSON(w, http.StatusOK, TasksResponse{Tasks: tasks, Count: len(tasks)})
}

func (h *Handler) normalize(w http.ResponseWriter, r *http.Request) {
	start := h.clock()
	defer func() { h.sink.QueryCompleted("normalize", h.clock().Sub(start)) }()

	events := h.events.Snapshot()

	bySource := make(map[string]int)
	byAvail := make(map[string]int)
	for _, ev := range events {
		bySource[string(ev.Source)]++
		byAvail[string(ev.Availability)]++
	}

	result := events
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		target, err := parseDate(dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		result = availability.EventsForDate(events, target)
	}

	writeJSON(w, http.StatusOK, NormalizeResponse{
		Events:          result,
		Count:           len(result),
		TotalNormalized: len(events),
		BySource:        bySource,
		ByAvailability:  byAvail,
	})
}

func (h *Handler) availability(w http.ResponseWriter, r *http.Request) {
	start := h.clock()
	defer func() { h.sink.QueryCompleted("availability", h.clock().Sub(start)) }()

	target, err := h.queryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	roster, err := h.store.Employees()
	if err != nil {
		log.Printf("api: load employees error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load employees")
		return
	}

	writeJSON(w, http.StatusOK, availability.ForDate(h.events.Snapshot(), roster, target))
}

func (h *Handler) utilization(w http.ResponseWriter, r *http.Request) {
	start := h.clock()
	defer func() { h.sink.QueryCompleted("utilization", h.clock().Sub(start)) }()

	target, err := h.queryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	roster, tasks, ok := h.loadRosterAndTasks(w)
	if !ok {
		return
	}

	util := reassign.Utilization(h.events.Snapshot(), roster, tasks, target)
	writeJSON(w, http.StatusOK, UtilizationResponse{
		Date:        target.UTC().Format("2006-01-02"),
		Utilization: util,
	})
}

func (h *Handler) reassignments(w http.ResponseWriter, r *http.Request) {
	start := h.clock()
	defer func() { h.sink.QueryCompleted("reassignments", h.clock().Sub(start)) }()

	target, err := h.queryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	topN, err := parseTopN(r, h.topN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	roster, tasks, ok := h.loadRosterAndTasks(w)
	if !ok {
		return
	}

	report := reassign.Suggest(h.events.Snapshot(), roster, tasks, target, topN, h.weights)
	writeJSON(w, http.StatusOK, report)
}

// maxRequestBodySize is the maximum allowed request body size (1MB).
const maxRequestBodySize = 1 << 20

func (h *Handler) reassign(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req ReassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := validateReassign(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = DefaultReassignReason
	}

	audit, err := h.store.ExecuteReassignment(req.TaskID, req.NewAssigneeID, reason)
	if err != nil {
		h.sink.ReassignmentExecuted(metrics.OutcomeRejected)
		if errors.Is(err, domain.ErrTaskNotFound) || errors.Is(err, domain.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("api: reassign error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to execute reassignment")
		return
	}

	h.sink.ReassignmentExecuted(metrics.OutcomeCommitted)
	if h.recorder != nil {
		if err := h.recorder.RecordReassignment(r.Context(), audit); err != nil {
			log.Printf("api: record reassignment: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, ReassignResponse{Success: true, Audit: audit})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Refresh(r.Context()); err != nil {
		log.Printf("api: refresh error: %v", err)
		writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, RefreshResponse{
		Message:     "snapshot refreshed",
		EventCount:  len(h.events.Snapshot()),
		LastRefresh: formatTime(h.events.LastRefresh()),
	})
}

// queryDate resolves the optional date parameter, defaulting to today.
func (h *Handler) queryDate(r *http.Request) (time.Time, error) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return h.clock().UTC(), nil
	}
	return parseDate(dateStr)
}

// loadRosterAndTasks handles the shared store-read prologue of the
// query endpoints, writing the error response itself on failure.
func (h *Handler) loadRosterAndTasks(w http.ResponseWriter) ([]domain.Employee, []domain.Task, bool) {
	roster, err := h.store.Employees()
	if err != nil {
		log.Printf("api: load employees error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load employees")
		return nil, nil, false
	}
	tasks, err := h.store.Tasks()
	if err != nil {
		log.Printf("api: load tasks error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load tasks")
		return nil, nil, false
	}
	return roster, tasks, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: json encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
