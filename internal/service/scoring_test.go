package service

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		key        map[string]string
		answers    map[string]string
		score      int
		total      int
		percentage float64
	}{
		{
			name:       "all correct",
			key:        map[string]string{"q1": "A", "q2": "B", "q3": "C"},
			answers:    map[string]string{"q1": "A", "q2": "B", "q3": "C"},
			score:      3,
			total:      3,
			percentage: 100,
		},
		{
			name:       "partial",
			key:        map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "D"},
			answers:    map[string]string{"q1": "A", "q2": "X", "q3": "C", "q4": "A"},
			score:      2,
			total:      4,
			percentage: 50,
		},
		{
			name:       "missing answers count as wrong",
			key:        map[string]string{"q1": "A", "q2": "B"},
			answers:    map[string]string{"q1": "A"},
			score:      1,
			total:      2,
			percentage: 50,
		},
		{
			name:       "extra answers ignored",
			key:        map[string]string{"q1": "A"},
			answers:    map[string]string{"q1": "A", "q99": "B"},
			score:      1,
			total:      1,
			percentage: 100,
		},
		{
			name:       "no answers at all",
			key:        map[string]string{"q1": "A", "q2": "B"},
			answers:    nil,
			score:      0,
			total:      2,
			percentage: 0,
		},
		{
			name:       "empty key yields zero not NaN",
			key:        map[string]string{},
			answers:    map[string]string{"q1": "A"},
			score:      0,
			total:      0,
			percentage: 0,
		},
		{
			name:       "blank correct answer never matches",
			key:        map[string]string{"q1": "", "q2": "B"},
			answers:    map[string]string{"q1": "", "q2": "B"},
			score:      1,
			total:      2,
			percentage: 50,
		},
		{
			name:       "seven of ten",
			key:        map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "D", "q5": "A", "q6": "B", "q7": "C", "q8": "D", "q9": "A", "q10": "B"},
			answers:    map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "D", "q5": "A", "q6": "B", "q7": "C", "q8": "A", "q9": "B", "q10": "C"},
			score:      7,
			total:      10,
			percentage: 70,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, total, percentage := Score(tc.key, tc.answers)
			if score != tc.score {
				t.Errorf("score = %d, want %d", score, tc.score)
			}
			if total != tc.total {
				t.Errorf("total = %d, want %d", total, tc.total)
			}
			if math.Abs(percentage-tc.percentage) > 1e-9 {
				t.Errorf("percentage = %v, want %v", percentage, tc.percentage)
			}
		})
	}
}
