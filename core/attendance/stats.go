package attendance

import "math"

// AtRiskThreshold is the attendance rate (in %) under which a subject is at risk.
const AtRiskThreshold = 75.0

// Stats aggregates attendance records. Records with an unknown status only count toward Total.
type Stats struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	Justified      int     `json:"justified"`
	AttendanceRate float64 `json:"attendanceRate"`
}

// ComputeStats counts records per status. Late counts as attended.
func ComputeStats(records []Attendance) Stats {
	var s Stats
	for _, r := range records {
		s.Total++
		switch r.Status {
		case StatusPresent:
			s.Present++
		case StatusAbsent:
			s.Absent++
		case StatusLate:
			s.Late++
		case StatusJustified:
			s.Justified++
		}
	}
	s.AttendanceRate = Rate(s.Present, s.Late, s.Total)
	return s
}

// Merge sums the counts of s & other and recomputes the rate from them.
func (s Stats) Merge(other Stats) Stats {
	m := Stats{
		Total:     s.Total + other.Total,
		Present:   s.Present + other.Present,
		Absent:    s.Absent + other.Absent,
		Late:      s.Late + other.Late,
		Justified: s.Justified + other.Justified,
	}
	m.AttendanceRate = Rate(m.Present, m.Late, m.Total)
	return m
}

// IsAtRisk is only ever true once at least one class was recorded.
func (s Stats) IsAtRisk() bool {
	return s.Total > 0 && s.AttendanceRate < AtRiskThreshold
}

// Rate is (present+late)/total as a percentage rounded to 2 decimals; 0 when total is 0.
func Rate(present, late, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round2(float64(present+late) / float64(total) * 100)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
