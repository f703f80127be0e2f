package note

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/taskly/core"
)

type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	SubjectID   string    `json:"subjectId"`
	SubjectName string    `json:"subjectName"`
	Pinned      bool      `json:"pinned"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewNote contains information needed to create a new Note.
type NewNote struct {
	Title       string `json:"title" validate:"required,notblank"`
	Content     string `json:"content" validate:"required,notblank"`
	SubjectID   string `json:"subjectId" validate:"required,notblank"`
	SubjectName string `json:"subjectName"`
	Pinned      bool   `json:"pinned"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.SubjectID = core.CleanString(nn.SubjectID)
	nn.SubjectName = core.CleanString(nn.SubjectName)
	return validate.Struct(nn)
}

// UpdateNote defines what information may be provided to modify an existing Note.
type UpdateNote struct {
	ID          *json.RawMessage `json:"id,omitempty" validate:"readonly"`
	CreatedAt   *json.RawMessage `json:"createdAt,omitempty" validate:"readonly"`
	Title       *string          `json:"title,omitempty" validate:"omitnil,notblank"`
	Content     *string          `json:"content,omitempty" validate:"omitnil,notblank"`
	SubjectID   *string          `json:"subjectId,omitempty" validate:"omitnil,notblank"`
	SubjectName *string          `json:"subjectName,omitempty"`
	Pinned      *bool            `json:"pinned,omitempty"`
}

func (un *UpdateNote) IsEmpty() bool {
	return un.ID == nil && un.CreatedAt == nil && un.Title == nil && un.Content == nil &&
		un.SubjectID == nil && un.SubjectName == nil && un.Pinned == nil
}

func (un *UpdateNote) Validate(validate *validator.Validate) error {
	if un.IsEmpty() {
		return core.NewValidationError(errEmptyUpdate)
	}
	return validate.Struct(un)
}

// QueryFilter narrows down a note listing. Zero values are ignored.
type QueryFilter struct {
	SubjectID string `json:"subjectId"`
	Pinned    *bool  `json:"pinned"`
	// Search does a case-insensitive match on the title or the content.
	Search string `json:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.SubjectID = core.CleanString(qf.SubjectID)
	qf.Search = core.CleanString(qf.Search)
}
