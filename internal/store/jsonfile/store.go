// Package jsonfile persists the shared roster and task list as a
// single JSON document on disk. It is the system of record for
// reassignment commits: validation happens before any byte is written,
// so a failed commit leaves the file untouched.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teampulse-io/teampulse/internal/domain"
)

// Document is the on-disk shape of the store.
type Document struct {
	Employees []domain.Employee `json:"employees"`
	Tasks     []domain.Task     `json:"tasks"`
}

// Store reads and rewrites one JSON document. Writes are serialized;
// reads always reload from disk so external edits are picked up.
type Store struct {
	mu    sync.Mutex
	path  string
	clock func() time.Time
}

// New creates a store backed by the JSON document at path.
func New(path string) *Store {
	return &Store{path: path, clock: time.Now}
}

// Load reads and decodes the whole document.
func (s *Store) Load() (Document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Document{}, fmt.Errorf("read store: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode store %s: %w", s.path, err)
	}
	return doc, nil
}

// Employees returns the current roster.
func (s *Store) Employees() ([]domain.Employee, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	return doc.Employees, nil
}

// Tasks returns the current task list.
func (s *Store) Tasks() ([]domain.Task, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	return doc.Tasks, nil
}

// ExecuteReassignment moves a task to a new assignee and rewrites the
// document. Both the task and the new assignee are resolved before the
// write; unknown IDs return domain.ErrTaskNotFound or
// domain.ErrEmployeeNotFound and leave the file unchanged.
func (s *Store) ExecuteReassignment(taskID, newAssigneeID, reason string) (domain.ReassignmentAudit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.Load()
	if err != nil {
		return domain.ReassignmentAudit{}, err
	}

	taskIdx := -1
	for i := range doc.Tasks {
		if doc.Tasks[i].ID == taskID {
			taskIdx = i
			break
		}
	}
	if taskIdx < 0 {
		return domain.ReassignmentAudit{}, fmt.Errorf("task %s: %w", taskID, domain.ErrTaskNotFound)
	}

	var newAssignee *domain.Employee
	for i := range doc.Employees {
		if doc.Employees[i].ID == newAssigneeID {
			newAssignee = &doc.Employees[i]
			break
		}
	}
	if newAssignee == nil {
		return domain.ReassignmentAudit{}, fmt.Errorf("employee %s: %w", newAssigneeID, domain.ErrEmployeeNotFound)
	}

	task := &doc.Tasks[taskIdx]

	// The previous holder may have left the roster; the audit still
	// records the stale ID.
	fromID := task.AssignedToID
	fromName := "Unknown"
	for _, emp := range doc.Employees {
		if emp.ID == fromID {
			fromName = emp.FullName()
			break
		}
	}

	now := s.clock().UTC()
	task.AssignedToID = newAssigneeID
	task.LastReassigned = &now
	task.ReassignmentReason = reason

	if err := s.write(doc); err != nil {
		return domain.ReassignmentAudit{}, err
	}

	return domain.ReassignmentAudit{
		ID:               uuid.NewString(),
		TaskID:           task.ID,
		TaskTitle:        task.Title,
		FromEmployeeID:   fromID,
		FromEmployeeName: fromName,
		ToEmployeeID:     newAssignee.ID,
		ToEmployeeName:   newAssignee.FullName(),
		Reason:           reason,
		ExecutedAt:       now,
	}, nil
}

func (s *Store) write(doc Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}
