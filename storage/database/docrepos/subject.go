package docrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/subject"
)

type subjectRepository struct {
	store core.DocumentStore
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(store core.DocumentStore) *subjectRepository {
	return &subjectRepository{store: store}
}

type subjectDoc struct {
	SubjectName   string   `json:"subjectName"`
	TeacherName   string   `json:"teacherName"`
	Color         string   `json:"color"`
	Icon          string   `json:"icon"`
	TotalClasses  int      `json:"totalClasses"`
	ClassTime     string   `json:"classTime"`
	ClassEndTime  string   `json:"classEndTime"`
	Semester      string   `json:"semester"`
	Year          int      `json:"year"`
	CollegePeriod string   `json:"collegePeriod"`
	DaysOfWeek    []string `json:"daysOfWeek"`
}

func subjectsCollection(userID string) string {
	return core.Collection(usersCollection, userID, "subjects")
}

func (repo subjectRepository) toDoc(s subject.Subject) subjectDoc {
	days := s.DaysOfWeek
	if days == nil {
		days = []string{}
	}
	return subjectDoc{
		SubjectName:   s.SubjectName,
		TeacherName:   s.TeacherName,
		Color:         s.Color,
		Icon:          s.Icon,
		TotalClasses:  s.TotalClasses,
		ClassTime:     s.ClassTime,
		ClassEndTime:  s.ClassEndTime,
		Semester:      s.Semester,
		Year:          s.Year,
		CollegePeriod: s.CollegePeriod,
		DaysOfWeek:    days,
	}
}

func (repo subjectRepository) fromDoc(doc core.Document) (subject.Subject, error) {
	var d subjectDoc
	if err := doc.Decode(&d); err != nil {
		return subject.Subject{}, err
	}
	if d.DaysOfWeek == nil {
		d.DaysOfWeek = []string{}
	}
	return subject.Subject{
		ID:            doc.ID,
		SubjectName:   d.SubjectName,
		TeacherName:   d.TeacherName,
		Color:         d.Color,
		Icon:          d.Icon,
		TotalClasses:  d.TotalClasses,
		ClassTime:     d.ClassTime,
		ClassEndTime:  d.ClassEndTime,
		Semester:      d.Semester,
		Year:          d.Year,
		CollegePeriod: d.CollegePeriod,
		DaysOfWeek:    d.DaysOfWeek,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

func (repo subjectRepository) CreateSubject(ctx context.Context, userID string, s subject.Subject) (subject.Subject, error) {
	doc, err := repo.store.Add(ctx, subjectsCollection(userID), repo.toDoc(s))
	if err != nil {
		return subject.Subject{}, err
	}
	return repo.fromDoc(doc)
}

func (repo subjectRepository) QueryAllSubjects(ctx context.Context, userID string) ([]subject.Subject, error) {
	docs, err := repo.store.Query(ctx, subjectsCollection(userID), core.Query{})
	if err != nil {
		return nil, err
	}
	subjects := make([]subject.Subject, 0, len(docs))
	for _, doc := range docs {
		s, err := repo.fromDoc(doc)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}

func (repo subjectRepository) GetSubjectByID(ctx context.Context, userID, id string) (subject.Subject, error) {
	doc, err := repo.store.Get(ctx, subjectsCollection(userID), id)
	if err != nil {
		if errors.Cause(err) == core.ErrDocumentNotFound {
			return subject.Subject{}, subject.ErrNotFound
		}
		return subject.Subject{}, err
	}
	return repo.fromDoc(doc)
}

func (repo subjectRepository) UpdateSubject(ctx context.Context, userID, id string, us subject.UpdateSubject) (subject.Subject, error) {
	us.ID, us.CreatedAt = nil, nil
	doc, err := repo.store.Update(ctx, subjectsCollection(userID), id, us)
	if err != nil {
		if errors.Cause(err) == core.ErrDocumentNotFound {
			return subject.Subject{}, subject.ErrNotFound
		}
		return subject.Subject{}, err
	}
	return repo.fromDoc(doc)
}

func (repo subjectRepository) DeleteSubject(ctx context.Context, userID, id string) error {
	return repo.store.Delete(ctx, subjectsCollection(userID), id)
}
