package services

import (
	"math"
	"strings"
	"unicode"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// lexicon groups the cue words for each pole of a scoring axis.
type lexicon map[string][]string

var anchors = lexicon{
	"urgency": {
		"urgent", "asap", "now", "today", "tonight", "tomorrow", "deadline", "due",
		"overdue", "late", "immediately", "quick", "quickly", "emergency", "exam",
		"final", "submit", "pay", "renew", "expires", "soon", "rush",
	},
	"calm": {
		"someday", "eventually", "maybe", "later", "whenever", "backlog",
		"idea", "explore", "optional", "wishlist", "browse",
	},
	"fear": {
		"tax", "taxes", "exam", "interview", "doctor", "dentist", "call", "boss",
		"presentation", "debt", "bill", "bills", "confront", "apologize", "apology",
		"thesis", "review", "audit", "fix", "bug", "crash", "lawyer", "landlord",
		"complaint", "court", "visa",
	},
	"comfort": {
		"read", "watch", "relax", "walk", "play", "tidy", "organize", "sort",
		"plan", "sketch", "listen", "music", "garden", "coffee",
	},
	"interest": {
		"build", "design", "learn", "create", "game", "write", "draw", "paint",
		"prototype", "experiment", "travel", "cook", "music", "side", "project",
		"explore", "hack", "play",
	},
	"boredom": {
		"clean", "laundry", "dishes", "email", "emails", "paperwork", "form",
		"forms", "file", "filing", "admin", "invoice", "report", "spreadsheet",
		"chores", "vacuum", "iron", "timesheet",
	},
	"trivial": {
		"buy", "milk", "groceries", "text", "reply", "water", "plants", "trash",
		"bin", "feed", "charge", "print", "post", "mail", "pick", "drop",
	},
}

// LexiconPredictor estimates urgency, fear and interest from cue words in a
// task title. Each axis starts neutral and moves toward whichever pole has
// more cues.
type LexiconPredictor struct {
	words lexicon
}

// NewLexiconPredictor creates a predictor with the built-in cue lists.
func NewLexiconPredictor() *LexiconPredictor {
	return &LexiconPredictor{words: anchors}
}

var _ ports.Predictor = (*LexiconPredictor)(nil)

// Predict implements ports.Predictor.
func (p *LexiconPredictor) Predict(title string) domain.Metrics {
	tokens := tokenize(title)
	hits := func(pole string) float64 {
		n := 0
		for _, tok := range tokens {
			for _, cue := range p.words[pole] {
				if tok == cue {
					n++
					break
				}
			}
		}
		return float64(n)
	}

	urgency := axisScore(hits("urgency"), hits("calm"))
	fear := axisScore(hits("fear"), hits("comfort"))
	interest := axisScore(hits("interest"), hits("boredom"))

	// Dread dampens interest.
	interest = math.Max(1, interest-fear*0.3)

	// Small errands should not feel scary.
	if trivial := math.Min(1, hits("trivial")*0.35); trivial > 0.4 {
		fear = math.Max(1, fear-trivial*8)
		urgency = math.Max(1, urgency-trivial*2)
	}

	return domain.Metrics{
		Urgency:  domain.Round(urgency, 1),
		Fear:     domain.Round(fear, 1),
		Interest: domain.Round(interest, 1),
	}.Clamp()
}

// axisScore maps cue counts to [1, 10] around a neutral 5.5.
func axisScore(pos, neg float64) float64 {
	score := 5.5 + 1.5*(pos-neg)
	return math.Max(1, math.Min(10, score))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
