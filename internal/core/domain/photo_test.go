package domain

import (
	"testing"
	"time"
)

func TestAssignMainFlags(t *testing.T) {
	tests := []struct {
		name            string
		hasExistingMain bool
		count           int
		want            []bool
	}{
		{"first photo of listing becomes main", false, 3, []bool{true, false, false}},
		{"existing main keeps new photos secondary", true, 2, []bool{false, false}},
		{"single photo without main", false, 1, []bool{true}},
		{"empty batch", false, 0, []bool{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignMainFlags(tt.hasExistingMain, tt.count)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d flags, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("flag[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPromoteCandidate(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no photos left", func(t *testing.T) {
		if got := PromoteCandidate(nil); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("earliest upload wins", func(t *testing.T) {
		photos := []Photo{
			{ID: 3, CreatedAt: base.Add(2 * time.Hour)},
			{ID: 1, CreatedAt: base},
			{ID: 2, CreatedAt: base.Add(time.Hour)},
		}
		got := PromoteCandidate(photos)
		if got == nil || got.ID != 1 {
			t.Errorf("got %+v, want photo 1", got)
		}
	})

	t.Run("equal timestamps break by id", func(t *testing.T) {
		photos := []Photo{
			{ID: 7, CreatedAt: base},
			{ID: 4, CreatedAt: base},
		}
		got := PromoteCandidate(photos)
		if got == nil || got.ID != 4 {
			t.Errorf("got %+v, want photo 4", got)
		}
	})
}
