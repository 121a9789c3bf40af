// Package seed generates a demo dataset: a roster with tasks plus
// Google and Microsoft calendar feeds shaped like real provider
// payloads. A fresh checkout can serve meaningful data without any
// provider credentials.
package seed

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teampulse-io/teampulse/internal/domain"
)

const (
	DefaultEmployees = 20
	DefaultDaysOut   = 14
)

var (
	firstNames = []string{
		"Alice", "Bob", "Carmen", "Deepak", "Elena", "Farid", "Grace",
		"Hiro", "Ingrid", "Jamal", "Katya", "Liam", "Mina", "Noah",
		"Olga", "Pedro", "Quinn", "Rosa", "Sam", "Tara", "Umar", "Vera",
	}
	lastNames = []string{
		"Nguyen", "Jones", "Diaz", "Patel", "Kovacs", "Rahimi", "Okafor",
		"Tanaka", "Larsen", "Hassan", "Ivanova", "Murphy", "Cho", "Weber",
		"Petrov", "Silva", "Byrne", "Moreno", "Clark", "Singh", "Aziz", "Romano",
	}
	skillPool = []string{
		"backend", "frontend", "payments", "k8s", "api", "sql",
		"security", "mobile", "data", "devops",
	}
	meetingTitles = []string{
		"Standup", "1:1", "Design Review", "Client Call", "Sprint Planning",
		"Retro", "Demo", "Project Sync", "Engineering Sync", "All Hands",
	}
	oooTitles  = []string{"OOO", "PTO", "Vacation", "Sick Leave", "Out of Office"}
	taskTitles = []string{
		"Fix checkout outage", "Deploy rate-limit patch", "Node pool upgrade",
		"Rotate API credentials", "Migrate billing schema", "Audit login flow",
		"Refactor webhook retries", "Ship dark mode", "Index slow queries",
		"Patch CSV export", "Tune cache TTLs", "Onboard new vendor feed",
	}
)

// Options controls dataset size and determinism. A non-zero Seed makes
// the output reproducible.
type Options struct {
	Employees int
	DaysOut   int
	Seed      int64
}

// Dataset is a generated demo dataset: the store document plus raw feed
// payloads ready to write to disk.
type Dataset struct {
	Roster []domain.Employee
	Tasks  []domain.Task

	GoogleJSON    []byte
	MicrosoftJSON []byte
	GoogleCSV     []byte
}

// Generate builds a full dataset. The first half of the roster gets
// Google events, the second half Microsoft events, mirroring a team
// split across two providers.
func Generate(opts Options) (Dataset, error) {
	if opts.Employees <= 0 {
		opts.Employees = DefaultEmployees
	}
	if opts.DaysOut <= 0 {
		opts.DaysOut = DefaultDaysOut
	}
	seedVal := opts.Seed
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedVal))

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}

	roster := generateRoster(rng, opts.Employees)
	tasks := generateTasks(rng, roster)

	today := time.Now().In(loc)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	half := len(roster) / 2
	googleEmps := roster[:half]
	msEmps := roster[half:]

	googleItems := generateGoogleEvents(rng, googleEmps, today, opts.DaysOut)
	googleJSON, err := json.MarshalIndent(googlePayload{
		Kind:     "calendar#events",
		Summary:  "TeamCalendar",
		Updated:  time.Now().UTC().Format(time.RFC3339),
		TimeZone: loc.String(),
		Items:    googleItems,
	}, "", "  ")
	if err != nil {
		return Dataset{}, fmt.Errorf("encode google feed: %w", err)
	}

	msItems := generateMicrosoftEvents(rng, msEmps, today, opts.DaysOut)
	msJSON, err := json.MarshalIndent(msPayload{Value: msItems}, "", "  ")
	if err != nil {
		return Dataset{}, fmt.Errorf("encode microsoft feed: %w", err)
	}

	return Dataset{
		Roster:        roster,
		Tasks:         tasks,
		GoogleJSON:    googleJSON,
		MicrosoftJSON: msJSON,
		GoogleCSV:     renderGoogleCSV(googleItems),
	}, nil
}

func generateRoster(rng *rand.Rand, n int) []domain.Employee {
	roster := make([]domain.Employee, 0, n)
	for i := 0; i < n; i++ {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i+rng.Intn(len(lastNames)))%len(lastNames)]

		skills := pickSkills(rng, 1+rng.Intn(3))
		roster = append(roster, domain.Employee{
			ID:             fmt.Sprintf("emp-%03d", i+1),
			Email:          strings.ToLower(first + "." + last + "@example.com"),
			FirstName:      first,
			LastName:       last,
			Role:           "Engineer",
			Skills:         skills,
			MaxTasksPerDay: 3 + rng.Intn(3),
		})
	}
	return roster
}

func pickSkills(rng *rand.Rand, n int) []string {
	perm := rng.Perm(len(skillPool))
	skills := make([]string, 0, n)
	for _, idx := range perm[:n] {
		skills = append(skills, skillPool[idx])
	}
	return skills
}

func generateTasks(rng *rand.Rand, roster []domain.Employee) []domain.Task {
	statuses := []domain.TaskStatus{
		domain.TaskStatusTodo, domain.TaskStatusTodo,
		domain.TaskStatusInProgress, domain.TaskStatusDone,
	}
	priorities := []domain.Priority{
		domain.PriorityCritical, domain.PriorityHigh,
		domain.PriorityMedium, domain.PriorityLow,
	}

	tasks := make([]domain.Task, 0, len(taskTitles))
	for i, title := range taskTitles {
		owner := roster[rng.Intn(len(roster))]
		skills := owner.Skills
		if len(skills) > 1 {
			skills = skills[:1]
		}
		due := time.Now().AddDate(0, 0, 1+rng.Intn(10)).Format("2006-01-02")
		tasks = append(tasks, domain.Task{
			ID:             fmt.Sprintf("task-%03d", i+1),
			Title:          title,
			Status:         statuses[rng.Intn(len(statuses))],
			Priority:       priorities[rng.Intn(len(priorities))],
			RequiredSkills: skills,
			EffortHours:    float64(1 + rng.Intn(8)),
			DueDate:        due,
			AssignedToID:   owner.ID,
		})
	}
	return tasks
}

// googlePayload and friends mirror the events.list response shape.
type googlePayload struct {
	Kind     string        `json:"kind"`
	Summary  string        `json:"summary"`
	Updated  string        `json:"updated"`
	TimeZone string        `json:"timeZone"`
	Items    []googleEvent `json:"items"`
}

type googleEvent struct {
	Kind               string         `json:"kind"`
	ID                 string         `json:"id"`
	Status             string         `json:"status"`
	HTMLLink           string         `json:"htmlLink"`
	Updated            string         `json:"updated"`
	Summary            string         `json:"summary"`
	Description        string         `json:"description,omitempty"`
	Creator            googleActor    `json:"creator"`
	Start              googleTime     `json:"start"`
	End                googleTime     `json:"end"`
	Transparency       string         `json:"transparency,omitempty"`
	ExtendedProperties googleExtProps `json:"extendedProperties"`
}

type googleActor struct {
	Email string `json:"email"`
}

type googleTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type googleExtProps struct {
	Private map[string]string `json:"private"`
}

func generateGoogleEvents(rng *rand.Rand, emps []domain.Employee, today time.Time, daysOut int) []googleEvent {
	var items []googleEvent
	for _, emp := range emps {
		n := 1 + rng.Intn(3)
		for i := 0; i < n; i++ {
			day := today.AddDate(0, 0, rng.Intn(daysOut))
			if rng.Intn(4) == 0 {
				items = append(items, googleAllDayOOO(rng, emp, day))
			} else {
				items = append(items, googleTimedBusy(rng, emp, day))
			}
		}
	}
	return items
}

func googleAllDayOOO(rng *rand.Rand, emp domain.Employee, day time.Time) googleEvent {
	id := uuid.NewString()
	title := oooTitles[rng.Intn(len(oooTitles))]
	// All-day blocks use date-only bounds with an exclusive end.
	end := day.AddDate(0, 0, 1+rng.Intn(2))

	return googleEvent{
		Kind:         "calendar#event",
		ID:           id,
		Status:       "confirmed",
		HTMLLink:     "https://www.google.com/calendar/event?eid=fake-" + id,
		Updated:      time.Now().UTC().Format(time.RFC3339),
		Summary:      title + " - " + emp.FullName(),
		Creator:      googleActor{Email: emp.Email},
		Start:        googleTime{Date: day.Format("2006-01-02")},
		End:          googleTime{Date: end.Format("2006-01-02")},
		Transparency: "transparent",
		ExtendedProperties: googleExtProps{Private: map[string]string{
			"employeeId":       emp.ID,
			"employeeEmail":    emp.Email,
			"availabilityKind": "oof",
		}},
	}
}

func googleTimedBusy(rng *rand.Rand, emp domain.Employee, day time.Time) googleEvent {
	id := uuid.NewString()
	title := meetingTitles[rng.Intn(len(meetingTitles))]

	start := day.Add(time.Duration(9+rng.Intn(8)) * time.Hour)
	if rng.Intn(2) == 0 {
		start = start.Add(30 * time.Minute)
	}
	end := start.Add(time.Duration(30+15*rng.Intn(5)) * time.Minute)
	tz := day.Location().String()

	return googleEvent{
		Kind:     "calendar#event",
		ID:       id,
		Status:   "confirmed",
		HTMLLink: "https://www.google.com/calendar/event?eid=fake-" + id,
		Updated:  time.Now().UTC().Format(time.RFC3339),
		Summary:  title + " - " + emp.FirstName,
		Creator:  googleActor{Email: emp.Email},
		Start:    googleTime{DateTime: start.Format(time.RFC3339), TimeZone: tz},
		End:      googleTime{DateTime: end.Format(time.RFC3339), TimeZone: tz},
		ExtendedProperties: googleExtProps{Private: map[string]string{
			"employeeId":       emp.ID,
			"employeeEmail":    emp.Email,
			"availabilityKind": "busy",
		}},
	}
}

// msPayload and friends mirror a Graph /events response.
type msPayload struct {
	Value []msEvent `json:"value"`
}

type msEvent struct {
	ID           string        `json:"id"`
	Subject      string        `json:"subject"`
	BodyPreview  string        `json:"bodyPreview,omitempty"`
	IsAllDay     bool          `json:"isAllDay"`
	ShowAs       string        `json:"showAs"`
	Start        msTime        `json:"start"`
	End          msTime        `json:"end"`
	Organizer    msOrganizer   `json:"organizer"`
	LastModified string        `json:"lastModifiedDateTime"`
	Extensions   []msExtension `json:"extensions"`
}

type msTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type msOrganizer struct {
	EmailAddress msEmailAddress `json:"emailAddress"`
}

type msEmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type msExtension struct {
	ODataType        string `json:"@odata.type"`
	ExtensionName    string `json:"extensionName"`
	EmployeeID       string `json:"employeeId"`
	EmployeeEmail    string `json:"employeeEmail"`
	AvailabilityKind string `json:"availabilityKind"`
}

func generateMicrosoftEvents(rng *rand.Rand, emps []domain.Employee, today time.Time, daysOut int) []msEvent {
	var items []msEvent
	for _, emp := range emps {
		n := 1 + rng.Intn(3)
		for i := 0; i < n; i++ {
			day := today.AddDate(0, 0, rng.Intn(daysOut))
			items = append(items, microsoftEvent(rng, emp, day, rng.Intn(4) == 0))
		}
	}
	return items
}

func microsoftEvent(rng *rand.Rand, emp domain.Employee, day time.Time, isOOO bool) msEvent {
	id := "AAMk" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	// Graph feeds label naive local times with Windows zone names.
	tz := "Pacific Standard Time"

	ev := msEvent{
		ID:           id,
		LastModified: time.Now().UTC().Format(time.RFC3339),
		Organizer: msOrganizer{EmailAddress: msEmailAddress{
			Name:    emp.FullName(),
			Address: emp.Email,
		}},
	}
	ext := msExtension{
		ODataType:     "microsoft.graph.openTypeExtension",
		ExtensionName: "com.teampulse.availability",
		EmployeeID:    emp.ID,
		EmployeeEmail: emp.Email,
	}

	if isOOO {
		end := day.AddDate(0, 0, 1+rng.Intn(2))
		ev.Subject = oooTitles[rng.Intn(len(oooTitles))] + " - " + emp.FullName()
		ev.BodyPreview = "Out of office block."
		ev.IsAllDay = true
		ev.ShowAs = "oof"
		ev.Start = msTime{DateTime: day.Format("2006-01-02T15:04:05"), TimeZone: tz}
		ev.End = msTime{DateTime: end.Format("2006-01-02T15:04:05"), TimeZone: tz}
		ext.AvailabilityKind = "oof"
	} else {
		start := day.Add(time.Duration(9+rng.Intn(8)) * time.Hour)
		end := start.Add(time.Duration(30+15*rng.Intn(5)) * time.Minute)
		ev.Subject = meetingTitles[rng.Intn(len(meetingTitles))] + " - " + emp.FirstName
		ev.BodyPreview = "Scheduled meeting."
		ev.ShowAs = "busy"
		ev.Start = msTime{DateTime: start.Format("2006-01-02T15:04:05"), TimeZone: tz}
		ev.End = msTime{DateTime: end.Format("2006-01-02T15:04:05"), TimeZone: tz}
		ext.AvailabilityKind = "busy"
	}

	ev.Extensions = []msExtension{ext}
	return ev
}

// renderGoogleCSV flattens the Google events into the same CSV layout
// the fetcher writes.
func renderGoogleCSV(items []googleEvent) []byte {
	var b strings.Builder
	b.WriteString("id,status,summary,description,start,end,htmlLink,updated\n")
	for _, ev := range items {
		start := ev.Start.DateTime
		if start == "" {
			start = ev.Start.Date
		}
		end := ev.End.DateTime
		if end == "" {
			end = ev.End.Date
		}
		row := []string{ev.ID, ev.Status, ev.Summary, ev.Description, start, end, ev.HTMLLink, ev.Updated}
		for i, f := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvEscape(f))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
