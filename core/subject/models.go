package subject

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/taskly/core"
)

// DaysOfWeek accepted in Subject.DaysOfWeek, Monday first.
var DaysOfWeek = []string{"SEG", "TER", "QUA", "QUI", "SEX", "SAB", "DOM"}

type Subject struct {
	ID            string    `json:"id"`
	SubjectName   string    `json:"subjectName"`
	TeacherName   string    `json:"teacherName"`
	Color         string    `json:"color"`
	Icon          string    `json:"icon"`
	TotalClasses  int       `json:"totalClasses"`
	ClassTime     string    `json:"classTime"`
	ClassEndTime  string    `json:"classEndTime"`
	Semester      string    `json:"semester"`
	Year          int       `json:"year"`
	CollegePeriod string    `json:"collegePeriod"`
	DaysOfWeek    []string  `json:"daysOfWeek"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	SubjectName   string   `json:"subjectName" validate:"required,notblank"`
	TeacherName   string   `json:"teacherName" validate:"required,notblank"`
	Color         string   `json:"color" validate:"required,notblank"`
	Icon          string   `json:"icon" validate:"required,notblank"`
	TotalClasses  *int     `json:"totalClasses" validate:"required,min=0"`
	ClassTime     string   `json:"classTime" validate:"required,notblank"`
	ClassEndTime  string   `json:"classEndTime"`
	Semester      string   `json:"semester" validate:"required,notblank"`
	Year          int      `json:"year" validate:"required,min=1900,max=2100"`
	CollegePeriod string   `json:"collegePeriod" validate:"required,notblank"`
	DaysOfWeek    []string `json:"daysOfWeek" validate:"omitempty,dive,oneof=SEG TER QUA QUI SEX SAB DOM"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.SubjectName = core.CleanString(ns.SubjectName)
	ns.TeacherName = core.CleanString(ns.TeacherName)
	ns.Semester = core.CleanString(ns.Semester)
	ns.CollegePeriod = core.CleanString(ns.CollegePeriod)
	return validate.Struct(ns)
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
type UpdateSubject struct {
	ID            *json.RawMessage `json:"id,omitempty" validate:"readonly"`
	CreatedAt     *json.RawMessage `json:"createdAt,omitempty" validate:"readonly"`
	SubjectName   *string          `json:"subjectName,omitempty" validate:"omitnil,notblank"`
	TeacherName   *string          `json:"teacherName,omitempty" validate:"omitnil,notblank"`
	Color         *string          `json:"color,omitempty" validate:"omitnil,notblank"`
	Icon          *string          `json:"icon,omitempty" validate:"omitnil,notblank"`
	TotalClasses  *int             `json:"totalClasses,omitempty" validate:"omitnil,min=0"`
	ClassTime     *string          `json:"classTime,omitempty" validate:"omitnil,notblank"`
	ClassEndTime  *string          `json:"classEndTime,omitempty"`
	Semester      *string          `json:"semester,omitempty" validate:"omitnil,notblank"`
	Year          *int             `json:"year,omitempty" validate:"omitnil,min=1900,max=2100"`
	CollegePeriod *string          `json:"collegePeriod,omitempty" validate:"omitnil,notblank"`
	DaysOfWeek    *[]string        `json:"daysOfWeek,omitempty" validate:"omitnil,dive,oneof=SEG TER QUA QUI SEX SAB DOM"`
}

func (us *UpdateSubject) IsEmpty() bool {
	return us.ID == nil && us.CreatedAt == nil && us.SubjectName == nil && us.TeacherName == nil &&
		us.Color == nil && us.Icon == nil && us.TotalClasses == nil && us.ClassTime == nil &&
		us.ClassEndTime == nil && us.Semester == nil && us.Year == nil && us.CollegePeriod == nil &&
		us.DaysOfWeek == nil
}

func (us *UpdateSubject) Validate(validate *validator.Validate) error {
	if us.IsEmpty() {
		return core.NewValidationError(errEmptyUpdate)
	}
	return validate.Struct(us)
}
