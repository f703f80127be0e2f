package docrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/note"
)

type noteRepository struct {
	store core.DocumentStore
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(store core.DocumentStore) *noteRepository {
	return &noteRepository{store: store}
}

type noteDoc struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	SubjectID   string `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	Pinned      bool   `json:"pinned"`
}

func notesCollection(userID string) string {
	return core.Collection(usersCollection, userID, "notes")
}

func (repo noteRepository) toDoc(n note.Note) noteDoc {
	return noteDoc{
		Title:       n.Title,
		Content:     n.Content,
		SubjectID:   n.SubjectID,
		SubjectName: n.SubjectName,
		Pinned:      n.Pinned,
	}
}

func (repo noteRepository) fromDoc(doc core.Document) (note.Note, error) {
	var d noteDoc
	if err := doc.Decode(&d); err != nil {
		return note.Note{}, err
	}
	return note.Note{
		ID:          doc.ID,
		Title:       d.Title,
		Content:     d.Content,
		SubjectID:   d.SubjectID,
		SubjectName: d.SubjectName,
		Pinned:      d.Pinned,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func (repo noteRepository) CreateNote(ctx context.Context, userID string, n note.Note) (note.Note, error) {
	doc, err := repo.store.Add(ctx, notesCollection(userID), repo.toDoc(n))
	if err != nil {
		return note.Note{}, err
	}
	return repo.fromDoc(doc)
}

func (repo noteRepository) QueryNotes(ctx context.Context, userID string, filter note.QueryFilter) ([]note.Note, error) {
	var q core.Query
	if filter.SubjectID != "" {
		q = q.Where("subjectId", core.OpEqual, filter.SubjectID)
	}
	if filter.Pinned != nil {
		q = q.Where("pinned", core.OpEqual, *filter.Pinned)
	}

	docs, err := repo.store.Query(ctx, notesCollection(userID), q)
	if err != nil {
		return nil, err
	}
	notes := make([]note.Note, 0, len(docs))
	for _, doc := range docs {
		n, err := repo.fromDoc(doc)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func (repo noteRepository) GetNoteByID(ctx context.Context, userID, id string) (note.Note, error) {
	doc, err := repo.store.Get(ctx, notesCollection(userID), id)
	if err != nil {
		if errors.Cause(err) == core.ErrDocumentNotFound {
			return note.Note{}, note.ErrNotFound
		}
		return note.Note{}, err
	}
	return repo.fromDoc(doc)
}

func (repo noteRepository) UpdateNote(ctx context.Context, userID, id string, un note.UpdateNote) (note.Note, error) {
	un.ID, un.CreatedAt = nil, nil
	doc, err := repo.store.Update(ctx, notesCollection(userID), id, un)
	if err != nil {
		if errors.Cause(err) == core.ErrDocumentNotFound {
			return note.Note{}, note.ErrNotFound
		}
		return note.Note{}, err
	}
	return repo.fromDoc(doc)
}

func (repo noteRepository) DeleteNote(ctx context.Context, userID, id string) error {
	return repo.store.Delete(ctx, notesCollection(userID), id)
}
