package domain

import "fmt"

const (
	// CompletionBonusXP is granted for every completed task.
	CompletionBonusXP = 50
	// XPPerLevel is the experience needed for each level.
	XPPerLevel = 1000
)

// Profile is the single local user's progression.
type Profile struct {
	TotalXP int
	Level   int
}

// Reward is what completing a task earned.
type Reward struct {
	XPGained  int
	TotalXP   int
	LeveledUp bool
	NewLevel  int
}

// Message renders the reward as a one-line notice.
func (r Reward) Message() string {
	msg := fmt.Sprintf("+%d XP (total %d)", r.XPGained, r.TotalXP)
	if r.LeveledUp {
		msg += fmt.Sprintf(" · LEVEL UP! You are now level %d", r.NewLevel)
	}
	return msg
}

// ComputeXP scales worked minutes by priority and adds the completion bonus.
func ComputeXP(seconds int64, priority float64) int {
	minutes := float64(seconds) / 60
	return int(minutes*10*(1+priority/100)) + CompletionBonusXP
}

// LevelFor returns the level reached at a total XP.
func LevelFor(totalXP int) int {
	return 1 + totalXP/XPPerLevel
}

// Grant adds xp to the profile and reports the resulting reward.
func (p *Profile) Grant(xp int) Reward {
	if p.Level == 0 {
		p.Level = LevelFor(p.TotalXP)
	}
	before := p.Level
	p.TotalXP += xp
	p.Level = LevelFor(p.TotalXP)
	return Reward{
		XPGained:  xp,
		TotalXP:   p.TotalXP,
		LeveledUp: p.Level > before,
		NewLevel:  p.Level,
	}
}
