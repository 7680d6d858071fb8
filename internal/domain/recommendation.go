package domain

import (
	"fmt"
	"sort"
)

// MaxRecommendedDifficulty bounds how hard a suggested switch may be.
const MaxRecommendedDifficulty = 6

// NoRecommendationMessage is shown when nothing suitable exists.
const NoRecommendationMessage = "No suitable tasks found. Time for a break?"

// Recommendation is the answer to "what else could I do right now".
type Recommendation struct {
	Found   bool
	TaskID  string
	Message string
}

// Recommend picks an easier task than the current one: any other open task
// with difficulty at most MaxRecommendedDifficulty, most interesting first.
// Tasks without analysis are skipped.
func Recommend(tasks []*Task, currentID string) Recommendation {
	var candidates []*Task
	for _, t := range tasks {
		if t == nil || t.ID == currentID || t.Analysis == nil {
			continue
		}
		switch t.Status {
		case StatusPending, StatusPaused, StatusActive:
		default:
			continue
		}
		if t.Analysis.Difficulty > MaxRecommendedDifficulty {
			continue
		}
		candidates = append(candidates, t)
	}

	if len(candidates) == 0 {
		return Recommendation{Message: NoRecommendationMessage}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Analysis.Interest > candidates[j].Analysis.Interest
	})

	alt := candidates[0]
	return Recommendation{
		Found:  true,
		TaskID: alt.ID,
		Message: fmt.Sprintf(
			"How about '%s'? It's fairly easy (Diff: %g) and might help you reset.",
			alt.Title, alt.Analysis.Difficulty,
		),
	}
}
