package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/taskly/core"
)

type Status string

// Statuses
const (
	StatusPresent   Status = "present"
	StatusAbsent    Status = "absent"
	StatusLate      Status = "late"
	StatusJustified Status = "justified"
)

var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusJustified}

// Attendance is the record of one class day of a subject. Its ID is its Date.
type Attendance struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Status      Status    `json:"status"`
	SubjectID   string    `json:"subjectId"`
	SubjectName string    `json:"subjectName"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewAttendance contains information needed to record a class day.
// Recording the same date twice overwrites the first record.
type NewAttendance struct {
	Date        string `json:"date" validate:"required,isodate"`
	Status      Status `json:"status" validate:"required,oneof=present absent late justified"`
	SubjectID   string `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	Notes       string `json:"notes"`
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	na.Date = core.CleanString(na.Date)
	na.SubjectName = core.CleanString(na.SubjectName)
	return validate.Struct(na)
}

// QueryFilter narrows down an attendance listing. Zero values are ignored.
type QueryFilter struct {
	Status    Status `json:"status" validate:"omitempty,oneof=present absent late justified"`
	DateStart string `json:"dateStart" validate:"omitempty,isodate"`
	DateEnd   string `json:"dateEnd" validate:"omitempty,isodate"`
	Limit     int    `json:"limit"`
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.Status = Status(core.CleanString(string(qf.Status)))
	qf.DateStart = core.CleanString(qf.DateStart)
	qf.DateEnd = core.CleanString(qf.DateEnd)
	return validate.Struct(qf)
}
