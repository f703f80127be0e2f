package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/taskly/core/attendance"
	"github.com/trezcool/taskly/core/subject"
)

func Test_subjectApi(t *testing.T) {
	app := setup(t)

	t.Run("create: validation", func(t *testing.T) {
		app.do(t, httpTest{
			method: http.MethodPost, path: "/subjects", body: []byte(`{"id":"u1","subject":{"subjectName":"Math"}}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"Validation failed","details":{
				"teacherName":"teacherName is required",
				"color":"color is required",
				"icon":"icon is required",
				"totalClasses":"totalClasses is required",
				"classTime":"classTime is required",
				"semester":"semester is required",
				"year":"year is required",
				"collegePeriod":"collegePeriod is required"
			}}`),
		})

		rec := app.do(t, httpTest{
			method: http.MethodPost, path: "/subjects", wantCode: http.StatusBadRequest,
			body: []byte(`{"id":"u1","subject":{"subjectName":"Math","teacherName":"Ana","color":"#fff","icon":"calc",
				"totalClasses":-1,"classTime":"08:00","semester":"1","year":1800,"collegePeriod":"3","daysOfWeek":["SEG","MON"]}}`),
		})
		var res struct {
			Details map[string]string `json:"details"`
		}
		unmarshalBody(t, rec, &res)
		assert.Len(t, res.Details, 3)
		assert.Contains(t, res.Details, "totalClasses")
		assert.Contains(t, res.Details, "year")
		assert.Contains(t, res.Details, "daysOfWeek[1]")
	})

	var created subject.Subject
	t.Run("create", func(t *testing.T) {
		rec := app.do(t, httpTest{
			method: http.MethodPost, path: "/subjects", wantCode: http.StatusCreated,
			body: []byte(`{"id":"u1","subject":{"subjectName":" Math ","teacherName":"Ana","color":"#fff","icon":"calc",
				"totalClasses":0,"classTime":"08:00","semester":"1","year":2025,"collegePeriod":"3"}}`),
		})
		var res struct {
			Message string          `json:"message"`
			Subject subject.Subject `json:"subject"`
		}
		unmarshalBody(t, rec, &res)
		created = res.Subject

		assert.Equal(t, "Subject created successfully", res.Message)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Math", created.SubjectName)
		assert.Equal(t, 0, created.TotalClasses)
		assert.Equal(t, []string{}, created.DaysOfWeek)
	})
	require.NotEmpty(t, created.ID)

	t.Run("query", func(t *testing.T) {
		createSubject(t, app.subRepo, "u2", "bio")

		rec := app.do(t, httpTest{path: "/subjects?userId=u1"})
		var res struct {
			Subjects []subject.Subject `json:"subjects"`
			Count    int               `json:"count"`
		}
		unmarshalBody(t, rec, &res)
		require.Len(t, res.Subjects, 1)
		assert.Equal(t, created.ID, res.Subjects[0].ID)
		assert.Equal(t, 1, res.Count)
	})

	t.Run("update", func(t *testing.T) {
		app.do(t, httpTest{
			method: http.MethodPatch, path: "/subjects/" + created.ID, body: []byte(`{"id":"u1","subject":{"daysOfWeek":["SEG","QUA"],"totalClasses":40}}`),
			wantData: []byte(`{"message":"Subject updated successfully"}`),
		})
		app.do(t, httpTest{
			method: http.MethodPatch, path: "/subjects/missing", body: []byte(`{"id":"u1","subject":{"color":"#000"}}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Subject not found"}),
		})

		rec := app.do(t, httpTest{path: "/subjects/" + created.ID + "?userId=u1"})
		var res struct {
			Subject subject.Subject `json:"subject"`
		}
		unmarshalBody(t, rec, &res)
		assert.Equal(t, []string{"SEG", "QUA"}, res.Subject.DaysOfWeek)
		assert.Equal(t, 40, res.Subject.TotalClasses)
		assert.Equal(t, "Ana", res.Subject.TeacherName)
	})

	t.Run("delete keeps attendance", func(t *testing.T) {
		saveAttendance(t, app.attRepo, "u1", created.ID, "2025-11-20", attendance.StatusPresent)

		app.do(t, httpTest{
			method: http.MethodDelete, path: "/subjects/" + created.ID, body: []byte(`{"id":"u1"}`),
			wantData: []byte(`{"message":"Subject deleted successfully"}`),
		})
		app.do(t, httpTest{path: "/subjects/" + created.ID + "?userId=u1", wantCode: http.StatusNotFound})

		records, err := app.attRepo.QueryAttendance(context.Background(), "u1", created.ID, attendance.QueryFilter{})
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}
