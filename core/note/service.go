package note

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
)

var (
	// errors
	ErrNotFound    = errors.New("note not found")
	errEmptyUpdate = errors.New("at least one field must be provided for update")
)

type (
	Repository interface {
		CreateNote(ctx context.Context, userID string, n Note) (Note, error)
		// QueryNotes applies QueryFilter.SubjectID & QueryFilter.Pinned.
		QueryNotes(ctx context.Context, userID string, filter QueryFilter) ([]Note, error)
		GetNoteByID(ctx context.Context, userID, id string) (Note, error)
		UpdateNote(ctx context.Context, userID, id string, un UpdateNote) (Note, error)
		DeleteNote(ctx context.Context, userID, id string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, userID string, nn NewNote) (Note, error)
		Query(ctx context.Context, userID string, filter QueryFilter) ([]Note, error)
		GetByID(ctx context.Context, userID, id string) (Note, error)
		Update(ctx context.Context, userID, id string, un UpdateNote) (Note, error)
		Delete(ctx context.Context, userID, id string) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func checkUserID(userID string) error {
	if core.CleanString(userID) == "" {
		return core.NewArgumentError("userId", "user ID is required")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, userID string, nn NewNote) (Note, error) {
	if err := checkUserID(userID); err != nil {
		return Note{}, err
	}
	n := Note{
		Title:       nn.Title,
		Content:     nn.Content,
		SubjectID:   nn.SubjectID,
		SubjectName: nn.SubjectName,
		Pinned:      nn.Pinned,
	}
	n, err := svc.repo.CreateNote(ctx, userID, n)
	return n, errors.Wrap(err, "creating note")
}

// Query lists the user's notes: pinned ones first, then the most recently updated.
func (svc *Service) Query(ctx context.Context, userID string, filter QueryFilter) ([]Note, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	filter.Clean()

	notes, err := svc.repo.QueryNotes(ctx, userID, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}

	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		kept := notes[:0]
		for _, n := range notes {
			if strings.Contains(strings.ToLower(n.Title), search) || strings.Contains(strings.ToLower(n.Content), search) {
				kept = append(kept, n)
			}
		}
		notes = kept
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Pinned != notes[j].Pinned {
			return notes[i].Pinned
		}
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

func (svc *Service) GetByID(ctx context.Context, userID, id string) (Note, error) {
	if err := checkUserID(userID); err != nil {
		return Note{}, err
	}
	return svc.repo.GetNoteByID(ctx, userID, id)
}

func (svc *Service) Update(ctx context.Context, userID, id string, un UpdateNote) (Note, error) {
	if err := checkUserID(userID); err != nil {
		return Note{}, err
	}
	un.ID, un.CreatedAt = nil, nil

	n, err := svc.repo.UpdateNote(ctx, userID, id, un)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Note{}, ErrNotFound
		}
		return Note{}, errors.Wrap(err, "updating note")
	}
	return n, nil
}

func (svc *Service) Delete(ctx context.Context, userID, id string) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteNote(ctx, userID, id), "deleting note")
}
