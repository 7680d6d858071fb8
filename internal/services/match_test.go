package services

import (
	"errors"
	"testing"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

func TestMatchTask(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "aaaa1111-0000", Title: "Write quarterly report"},
		{ID: "bbbb2222-0000", Title: "Call dentist"},
		{ID: "bbbc3333-0000", Title: "Email dentist"},
		{ID: "cccc4444-0000", Title: "Buy milk"},
	}

	tests := []struct {
		name    string
		ref     string
		wantID  string
		wantErr error
	}{
		{"exact id", "bbbb2222-0000", "bbbb2222-0000", nil},
		{"id prefix", "cccc", "cccc4444-0000", nil},
		{"title ignoring case", "buy MILK", "cccc4444-0000", nil},
		{"fuzzy title", "quarterly", "aaaa1111-0000", nil},
		{"ambiguous fuzzy title", "dentist", "", ErrAmbiguousTask},
		{"no match", "zzzz", "", domain.ErrTaskNotFound},
		{"empty", "  ", "", domain.ErrInvalidTaskID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchTask(tasks, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("MatchTask(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("MatchTask(%q) error = %v", tt.ref, err)
			}
			if got.ID != tt.wantID {
				t.Errorf("MatchTask(%q) = %s, want %s", tt.ref, got.ID, tt.wantID)
			}
		})
	}
}

func TestFuzzyTitles(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "1", Title: "Call dentist"},
		{ID: "2", Title: "Buy milk"},
		{ID: "3", Title: "Email dentist"},
	}

	got := FuzzyTitles(tasks, "dentist")
	if len(got) != 2 {
		t.Fatalf("FuzzyTitles() = %d matches, want 2", len(got))
	}
	for _, task := range got {
		if task.ID == "2" {
			t.Error("FuzzyTitles() should not match Buy milk")
		}
	}

	if got := FuzzyTitles(tasks, "xyz"); len(got) != 0 {
		t.Errorf("FuzzyTitles(xyz) = %d matches, want 0", len(got))
	}
}
