package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// ErrAmbiguousTask is returned when a title fragment matches several tasks.
var ErrAmbiguousTask = errors.New("task reference is ambiguous")

// MatchTask resolves a reference to one task: an exact or prefix ID match
// first, then an exact title, then a fuzzy title match.
func MatchTask(tasks []*domain.Task, ref string) (*domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrInvalidTaskID
	}

	var byPrefix []*domain.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if len(ref) >= 4 && strings.HasPrefix(t.ID, ref) {
			byPrefix = append(byPrefix, t)
		}
	}
	if len(byPrefix) == 1 {
		return byPrefix[0], nil
	}

	for _, t := range tasks {
		if strings.EqualFold(t.Title, ref) {
			return t, nil
		}
	}

	matches := FuzzyTitles(tasks, ref)
	switch len(matches) {
	case 0:
		return nil, domain.ErrTaskNotFound
	case 1:
		return matches[0], nil
	}
	return nil, fmt.Errorf("%w: %d tasks match %q", ErrAmbiguousTask, len(matches), ref)
}

// FuzzyTitles returns the tasks whose titles fuzzily match query, best first.
func FuzzyTitles(tasks []*domain.Task, query string) []*domain.Task {
	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}

	var result []*domain.Task
	for _, match := range fuzzy.Find(query, titles) {
		if match.Score > 0 {
			result = append(result, tasks[match.Index])
		}
	}
	return result
}
