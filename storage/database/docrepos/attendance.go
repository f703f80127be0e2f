package docrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/attendance"
)

type attendanceRepository struct {
	store core.DocumentStore
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(store core.DocumentStore) *attendanceRepository {
	return &attendanceRepository{store: store}
}

type attendanceDoc struct {
	Date        string            `json:"date"`
	Status      attendance.Status `json:"status"`
	SubjectID   string            `json:"subjectId"`
	SubjectName string            `json:"subjectName"`
	Notes       string            `json:"notes"`
}

// attendanceCollection is nested under its subject; records are keyed by date.
func attendanceCollection(userID, subjectID string) string {
	return core.Collection(subjectsCollection(userID), subjectID, "attendance")
}

func (repo attendanceRepository) toDoc(a attendance.Attendance) attendanceDoc {
	return attendanceDoc{
		Date:        a.Date,
		Status:      a.Status,
		SubjectID:   a.SubjectID,
		SubjectName: a.SubjectName,
		Notes:       a.Notes,
	}
}

func (repo attendanceRepository) fromDoc(doc core.Document) (attendance.Attendance, error) {
	var d attendanceDoc
	if err := doc.Decode(&d); err != nil {
		return attendance.Attendance{}, err
	}
	return attendance.Attendance{
		ID:          doc.ID,
		Date:        d.Date,
		Status:      d.Status,
		SubjectID:   d.SubjectID,
		SubjectName: d.SubjectName,
		Notes:       d.Notes,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func (repo attendanceRepository) UpsertAttendance(ctx context.Context, userID, subjectID string, a attendance.Attendance) (attendance.Attendance, error) {
	a.SubjectID = subjectID
	doc, err := repo.store.Set(ctx, attendanceCollection(userID, subjectID), a.Date, repo.toDoc(a))
	if err != nil {
		return attendance.Attendance{}, err
	}
	return repo.fromDoc(doc)
}

func (repo attendanceRepository) QueryAttendance(ctx context.Context, userID, subjectID string, filter attendance.QueryFilter) ([]attendance.Attendance, error) {
	q := core.Query{OrderBy: "date", Desc: true, Limit: filter.Limit}
	if filter.Status != "" {
		q = q.Where("status", core.OpEqual, filter.Status)
	}
	if filter.DateStart != "" {
		q = q.Where("date", core.OpGreaterOrEqual, filter.DateStart)
	}
	if filter.DateEnd != "" {
		q = q.Where("date", core.OpLessOrEqual, filter.DateEnd)
	}

	docs, err := repo.store.Query(ctx, attendanceCollection(userID, subjectID), q)
	if err != nil {
		return nil, err
	}
	records := make([]attendance.Attendance, 0, len(docs))
	for _, doc := range docs {
		a, err := repo.fromDoc(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, nil
}

func (repo attendanceRepository) GetAttendanceByDate(ctx context.Context, userID, subjectID, date string) (attendance.Attendance, error) {
	doc, err := repo.store.Get(ctx, attendanceCollection(userID, subjectID), date)
	if err != nil {
		if errors.Cause(err) == core.ErrDocumentNotFound {
			return attendance.Attendance{}, attendance.ErrNotFound
		}
		return attendance.Attendance{}, err
	}
	return repo.fromDoc(doc)
}

func (repo attendanceRepository) DeleteAttendance(ctx context.Context, userID, subjectID, date string) error {
	return repo.store.Delete(ctx, attendanceCollection(userID, subjectID), date)
}
