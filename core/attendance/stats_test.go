package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func records(statuses ...Status) []Attendance {
	out := make([]Attendance, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Attendance{Status: s})
	}
	return out
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name       string
		records    []Attendance
		want       Stats
		wantAtRisk bool
	}{
		{name: "no records", want: Stats{}, wantAtRisk: false},
		{
			name:    "all present",
			records: records(StatusPresent, StatusPresent),
			want:    Stats{Total: 2, Present: 2, AttendanceRate: 100},
		},
		{
			name:       "late counts as attended",
			records:    records(StatusPresent, StatusLate, StatusAbsent, StatusJustified),
			want:       Stats{Total: 4, Present: 1, Late: 1, Absent: 1, Justified: 1, AttendanceRate: 50},
			wantAtRisk: true,
		},
		{
			name:    "rounded to 2 decimals",
			records: records(StatusPresent, StatusPresent, StatusAbsent),
			want:    Stats{Total: 3, Present: 2, Absent: 1, AttendanceRate: 66.67},
			// 66.67 < 75
			wantAtRisk: true,
		},
		{
			name:    "exactly at threshold is not at risk",
			records: records(StatusPresent, StatusPresent, StatusLate, StatusAbsent),
			want:    Stats{Total: 4, Present: 2, Late: 1, Absent: 1, AttendanceRate: 75},
		},
		{
			name:       "unknown status counts toward total only",
			records:    records(StatusPresent, Status("excused")),
			want:       Stats{Total: 2, Present: 1, AttendanceRate: 50},
			wantAtRisk: true,
		},
		{
			name:       "only absences",
			records:    records(StatusAbsent),
			want:       Stats{Total: 1, Absent: 1, AttendanceRate: 0},
			wantAtRisk: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.records)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAtRisk, got.IsAtRisk())
		})
	}
}

func TestStats_Merge(t *testing.T) {
	a := ComputeStats(records(StatusPresent, StatusPresent, StatusAbsent)) // 66.67
	b := ComputeStats(records(StatusLate))                                 // 100
	empty := ComputeStats(nil)

	got := a.Merge(b).Merge(empty)
	// the global rate comes from the summed counts, not the mean of the rates
	assert.Equal(t, Stats{Total: 4, Present: 2, Late: 1, Absent: 1, AttendanceRate: 75}, got)
	assert.False(t, got.IsAtRisk())

	assert.Equal(t, Stats{}, empty.Merge(empty))
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0.0, Rate(0, 0, 0))
	assert.Equal(t, 33.33, Rate(1, 0, 3))
	assert.Equal(t, 85.71, Rate(5, 1, 7))
}
