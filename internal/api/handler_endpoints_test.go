package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/teampulse-io/teampulse/internal/domain"
	"github.com/teampulse-io/teampulse/internal/reassign"
)

// mockStore implements api.Store for handler tests.
type mockStore struct {
	mu sync.Mutex

	employees    []domain.Employee
	tasks        []domain.Task
	employeesErr error
	tasksErr     error
	reassignFn   func(taskID, newAssigneeID, reason string) (domain.ReassignmentAudit, error)
	lastReason   string
}

func (s *mockStore) Employees() ([]domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.employees, s.employeesErr
}

func (s *mockStore) Tasks() ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks, s.tasksErr
}

func (s *mockStore) ExecuteReassignment(taskID, newAssigneeID, reason string) (domain.ReassignmentAudit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReason = reason
	if s.reassignFn != nil {
		return s.reassignFn(taskID, newAssigneeID, reason)
	}
	return domain.ReassignmentAudit{TaskID: taskID, ToEmployeeID: newAssigneeID, Reason: reason}, nil
}

// mockEvents implements api.EventSource for handler tests.
type mockEvents struct {
	mu         sync.Mutex
	snapshot   []domain.CanonicalEvent
	last       time.Time
	refreshErr error
	refreshes  int
}

func (m *mockEvents) Snapshot() []domain.CanonicalEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

func (m *mockEvents) LastRefresh() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *mockEvents) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
	if m.refreshErr != nil {
		return m.refreshErr
	}
	m.last = time.Date(2026, time.March, 2, 6, 0, 0, 0, time.UTC)
	return nil
}

type recordedAudit struct {
	mu     sync.Mutex
	audits []domain.ReassignmentAudit
	err    error
}

func (r *recordedAudit) RecordReassignment(ctx context.Context, audit domain.ReassignmentAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, audit)
	return r.err
}

func newTestHandler(store *mockStore, events *mockEvents) *Handler {
	return NewHandler(store, events, reassign.DefaultWeights(), 3, nil)
}

func testRoster() []domain.Employee {
	return []domain.Employee{
		{ID: "emp-001", Email: "alice@example.com", FirstName: "Alice", LastName: "Nguyen", MaxTasksPerDay: 4},
		{ID: "emp-002", Email: "bob@example.com", FirstName: "Bob", LastName: "Jones", MaxTasksPerDay: 4},
	}
}

func oofOn(employeeID string, day time.Time) domain.CanonicalEvent {
	return domain.CanonicalEvent{
		EventID:      "oof-" + employeeID,
		Source:       domain.SourceGoogle,
		EmployeeID:   employeeID,
		Availability: domain.AvailabilityOOF,
		StartUTC:     day,
		EndUTC:       day.AddDate(0, 0, 1),
		IsAllDay:     true,
	}
}

func TestHandler_Health(t *testing.T) {
	handler := newTestHandler(&mockStore{}, &mockEvents{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestHandler_Health_VerboseDegraded(t *testing.T) {
	store := &mockStore{employeesErr: errors.New("permission denied")}
	handler := newTestHandler(store, &mockEvents{})

	req := httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}

	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "degraded" {
		t.Errorf("status = %q, want degraded", resp.Status)
	}
	if !strings.HasPrefix(resp.Components["store"], "unhealthy") {
		t.Errorf("store component = %q, want unhealthy", resp.Components["store"])
	}
}

func TestHandler_Status(t *testing.T) {
	store := &mockStore{
		employees: testRoster(),
		tasks:     []domain.Task{{ID: "task-001"}},
	}
	events := &mockEvents{
		snapshot: []domain.CanonicalEvent{{EventID: "ev-1"}},
		last:     time.Date(2026, time.March, 2, 5, 0, 0, 0, time.UTC),
	}
	handler := newTestHandler(store, events)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !resp.OK || resp.EmployeeCount != 2 || resp.TaskCount != 1 || resp.EventCount != 1 {
		t.Errorf("unexpected status: %+v", resp)
	}
	if resp.LastRefresh != "2026-03-02T05:00:00Z" {
		t.Errorf("last_refresh = %q", resp.LastRefresh)
	}
}

func TestHandler_Tasks_StatusFilter(t *testing.T) {
	store := &mockStore{tasks: []domain.Task{
		{ID: "t1", Status: domain.TaskStatusTodo},
		{ID: "t2", Status: domain.TaskStatusDone},
		{ID: "t3", Status: domain.TaskStatusTodo},
	}}
	handler := newTestHandler(store, &mockEvents{})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?status=todo", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var resp TasksResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
	for _, task := range resp.Tasks {
		if task.Status != domain.TaskStatusTodo {
			t.Errorf("task %s leaked through the filter with status %s", task.ID, task.Status)
		}
	}
}

func TestHandler_Normalize_Counts(t *testing.T) {
	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	events := &mockEvents{snapshot: []domain.CanonicalEvent{
		oofOn("emp-001", day),
		{
			EventID:      "g-2",
			Source:       domain.SourceGoogle,
			EmployeeID:   "emp-002",
			Availability: domain.AvailabilityBusy,
			StartUTC:     day.AddDate(0, 0, 5),
			EndUTC:       day.AddDate(0, 0, 5),
		},
		{
			EventID:      "ms-1",
			Source:       domain.SourceMicrosoft,
			Availability: domain.AvailabilityBusy,
			StartUTC:     day,
			EndUTC:       day,
		},
	}}
	handler := newTestHandler(&mockStore{}, events)

	req := httptest.NewRequest(http.MethodGet, "/api/normalize?date=2026-03-02", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp NormalizeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	// The date filter drops the event five days out; counts cover all.
	if resp.Count != 2 || resp.TotalNormalized != 3 {
		t.Errorf("count = %d, total = %d, want 2 and 3", resp.Count, resp.TotalNormalized)
	}
	if resp.BySource["google"] != 2 || resp.BySource["microsoft"] != 1 {
		t.Errorf("by_source = %v", resp.BySource)
	}
	if resp.ByAvailability["oof"] != 1 || resp.ByAvailability["busy"] != 2 {
		t.Errorf("by_availability = %v", resp.ByAvailability)
	}
}

func TestHandler_Normalize_BadDate(t *testing.T) {
	handler := newTestHandler(&mockStore{}, &mockEvents{})

	req := httptest.NewRequest(http.MethodGet, "/api/normalize?date=03-02-2026", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandler_Availability(t *testing.T) {
	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	store := &mockStore{employees: testRoster()}
	events := &mockEvents{snapshot: []domain.CanonicalEvent{oofOn("emp-001", day)}}
	handler := newTestHandler(store, events)

	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2026-03-02", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Date             string            `json:"date"`
		Available        []domain.Employee `json:"available"`
		Unavailable      []domain.Employee `json:"unavailable"`
		AvailableCount   int               `json:"available_count"`
		UnavailableCount int               `json:"unavailable_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Date != "2026-03-02" {
		t.Errorf("date = %q", resp.Date)
	}
	if resp.AvailableCount != 1 || resp.UnavailableCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", resp.AvailableCount, resp.UnavailableCount)
	}
	if len(resp.Unavailable) != 1 || resp.Unavailable[0].ID != "emp-001" {
		t.Errorf("unexpected unavailable list: %+v", resp.Unavailable)
	}
}

func TestHandler_Utilization(t *testing.T) {
	store := &mockStore{
		employees: testRoster(),
		tasks: []domain.Task{
			{ID: "t1", Status: domain.TaskStatusInProgress, AssignedToID: "emp-001", EffortHours: 2},
		},
	}
	handler := newTestHandler(store, &mockEvents{})

	req := httptest.NewRequest(http.MethodGet, "/api/utilization?date=2026-03-02", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp UtilizationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Date != "2026-03-02" {
		t.Errorf("date = %q", resp.Date)
	}
	if len(resp.Utilization) != 2 {
		t.Fatalf("expected both roster members, got %d", len(resp.Utilization))
	}
	// emp-002 is idle and sorts first.
	if resp.Utilization[0].ID != "emp-002" {
		t.Errorf("first entry = %s, want emp-002", resp.Utilization[0].ID)
	}
}

func TestHandler_Reassignments(t *testing.T) {
	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	store := &mockStore{
		employees: testRoster(),
		tasks: []domain.Task{
			{ID: "t1", Status: domain.TaskStatusTodo, Priority: domain.PriorityHigh, AssignedToID: "emp-001"},
		},
	}
	events := &mockEvents{snapshot: []domain.CanonicalEvent{oofOn("emp-001", day)}}
	handler := newTestHandler(store, events)

	req := httptest.NewRequest(http.MethodGet, "/api/reassignments?date=2026-03-02", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp domain.SuggestionReport
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.NeedsReassignment != 1 {
		t.Errorf("needs_reassignment = %d, want 1", resp.NeedsReassignment)
	}
	if len(resp.Suggestions) != 1 || len(resp.Suggestions[0].Recommendations) != 1 {
		t.Fatalf("unexpected report: %+v", resp)
	}
	if resp.Suggestions[0].Recommendations[0].ID != "emp-002" {
		t.Errorf("candidate = %s, want emp-002", resp.Suggestions[0].Recommendations[0].ID)
	}
}

func TestHandler_Reassignments_BadTopN(t *testing.T) {
	handler := newTestHandler(&mockStore{}, &mockEvents{})

	for _, q := range []string{"top_n=0", "top_n=-3", "top_n=abc", "top_n=999"} {
		req := httptest.NewRequest(http.MethodGet, "/api/reassignments?"+q, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestHandler_Reassign_Success(t *testing.T) {
	store := &mockStore{}
	recorder := &recordedAudit{}
	handler := newTestHandler(store, &mockEvents{}).WithAuditRecorder(recorder)

	body := `{"task_id": "task-001", "new_assignee_id": "emp-002", "reason": "coverage"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reassign", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp ReassignResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !resp.Success || resp.Audit.TaskID != "task-001" {
		t.Errorf("unexpected response: %+v", resp)
	}

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.audits) != 1 {
		t.Errorf("recorder saw %d audits, want 1", len(recorder.audits))
	}
}

func TestHandler_Reassign_DefaultReason(t *testing.T) {
	store := &mockStore{}
	handler := newTestHandler(store, &mockEvents{})

	body := `{"task_id": "task-001", "new_assignee_id": "emp-002"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reassign", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if store.lastReason != DefaultReassignReason {
		t.Errorf("reason = %q, want %q", store.lastReason, DefaultReassignReason)
	}
}

func TestHandler_Reassign_NotFound(t *testing.T) {
	store := &mockStore{
		reassignFn: func(taskID, newAssigneeID, reason string) (domain.ReassignmentAudit, error) {
			return domain.ReassignmentAudit{}, fmt.Errorf("task %s: %w", taskID, domain.ErrTaskNotFound)
		},
	}
	handler := newTestHandler(store, &mockEvents{})

	body := `{"task_id": "task-999", "new_assignee_id": "emp-002"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reassign", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandler_Reassign_ValidationErrors(t *testing.T) {
	handler := newTestHandler(&mockStore{}, &mockEvents{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{broken`},
		{"missing task_id", `{"new_assignee_id": "emp-002"}`},
		{"missing assignee", `{"task_id": "task-001"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/reassign", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestHandler_Refresh(t *testing.T) {
	events := &mockEvents{snapshot: []domain.CanonicalEvent{{EventID: "ev-1"}}}
	handler := newTestHandler(&mockStore{}, events)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if events.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", events.refreshes)
	}

	var resp RefreshResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.EventCount != 1 || resp.LastRefresh == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandler_Refresh_Error(t *testing.T) {
	events := &mockEvents{refreshErr: errors.New("feeds unreachable")}
	handler := newTestHandler(&mockStore{}, events)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestHandler_UnknownRoute(t *testing.T) {
	handler := newTestHandler(&mockStore{}, &mockEvents{})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/nope"},
		{http.MethodPost, "/api/availability"},
		{http.MethodDelete, "/api/tasks"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tt.method, tt.path, w.Code)
		}
	}
}
