package task

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/taskly/core"
)

type (
	Type   string
	Status string
)

// Types
const (
	TypeAssignment   Type = "assignment"
	TypeExam         Type = "exam"
	TypeQuiz         Type = "quiz"
	TypePresentation Type = "presentation"
	TypeProject      Type = "project"
	TypeOther        Type = "other"
)

// Statuses
const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusCompleted Status = "completed"
)

var (
	Types    = []Type{TypeAssignment, TypeExam, TypeQuiz, TypePresentation, TypeProject, TypeOther}
	Statuses = []Status{StatusPending, StatusDelivered, StatusCompleted}
)

func (t Type) IsValid() bool {
	for _, typ := range Types {
		if t == typ {
			return true
		}
	}
	return false
}

func (s Status) IsValid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsDone reports whether the task was handed in or finished.
func (s Status) IsDone() bool {
	return s == StatusDelivered || s == StatusCompleted
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        Type      `json:"type"`
	Status      Status    `json:"status"`
	SubjectID   string    `json:"subjectId"`
	SubjectName string    `json:"subjectName"`
	DueOn       int       `json:"dueOn"` // YYYYMMDD
	Notes       string    `json:"notes"`
	IsOverdue   bool      `json:"isOverdue"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask contains information needed to create a new Task.
type NewTask struct {
	Title       string `json:"title" validate:"required,notblank"`
	Type        Type   `json:"type" validate:"required,oneof=assignment exam quiz presentation project other"`
	Status      Status `json:"status" validate:"required,oneof=pending delivered completed"`
	SubjectID   string `json:"subjectId" validate:"required,notblank"`
	SubjectName string `json:"subjectName"`
	DueOn       int    `json:"dueOn" validate:"required,yyyymmdd"`
	Notes       string `json:"notes"`
	// IsOverdue, when sent, is stored as is instead of being computed.
	IsOverdue *bool `json:"isOverdue"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.SubjectID = core.CleanString(nt.SubjectID)
	nt.SubjectName = core.CleanString(nt.SubjectName)
	return validate.Struct(nt)
}

// UpdateTask defines what information may be provided to modify an existing Task.
type UpdateTask struct {
	ID          *json.RawMessage `json:"id,omitempty" validate:"readonly"`
	CreatedAt   *json.RawMessage `json:"createdAt,omitempty" validate:"readonly"`
	Title       *string          `json:"title,omitempty" validate:"omitnil,notblank"`
	Type        *Type            `json:"type,omitempty" validate:"omitnil,oneof=assignment exam quiz presentation project other"`
	Status      *Status          `json:"status,omitempty" validate:"omitnil,oneof=pending delivered completed"`
	SubjectID   *string          `json:"subjectId,omitempty" validate:"omitnil,notblank"`
	SubjectName *string          `json:"subjectName,omitempty"`
	DueOn       *int             `json:"dueOn,omitempty" validate:"omitnil,yyyymmdd"`
	Notes       *string          `json:"notes,omitempty"`
	IsOverdue   *bool            `json:"isOverdue,omitempty"`
}

func (ut *UpdateTask) IsEmpty() bool {
	return ut.ID == nil && ut.CreatedAt == nil && ut.Title == nil && ut.Type == nil && ut.Status == nil &&
		ut.SubjectID == nil && ut.SubjectName == nil && ut.DueOn == nil && ut.Notes == nil && ut.IsOverdue == nil
}

func (ut *UpdateTask) Validate(validate *validator.Validate) error {
	if ut.IsEmpty() {
		return core.NewValidationError(errEmptyUpdate)
	}
	return validate.Struct(ut)
}

// QueryFilter narrows down a task listing. Zero values are ignored.
type QueryFilter struct {
	SubjectID  string `json:"subjectId"`
	Status     Status `json:"status"`
	Type       Type   `json:"type"`
	IsOverdue  *bool  `json:"isOverdue"`
	DueOnStart int    `json:"dueOnStart"`
	DueOnEnd   int    `json:"dueOnEnd"`
}

func (qf *QueryFilter) Clean() {
	qf.SubjectID = core.CleanString(qf.SubjectID)
	qf.Status = Status(core.CleanString(string(qf.Status)))
	qf.Type = Type(core.CleanString(string(qf.Type)))
}
