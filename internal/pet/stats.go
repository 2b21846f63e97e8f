package pet

import (
	"fmt"
	"log"
	"strings"
)

// Stats holds the pet's four bounded counters
type Stats struct {
	Happiness   int `json:"happiness"`
	Hunger      int `json:"hunger"`
	Cleanliness int `json:"cleanliness"`
	Health      int `json:"health"`
}

// Action is a player interaction with the pet
type Action string

const (
	ActionFeed  Action = "feed"
	ActionPlay  Action = "play"
	ActionClean Action = "clean"
	ActionSleep Action = "sleep"
	ActionHeal  Action = "heal"
)

// Actions lists every action in menu order
var Actions = []Action{ActionFeed, ActionPlay, ActionClean, ActionSleep, ActionHeal}

// ParseAction resolves an action by name
func ParseAction(name string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", name)
}

// Title is the menu label for an action
func (a Action) Title() string {
	if a == "" {
		return ""
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}

// NewStats returns a pet with every stat at its default
func NewStats() Stats {
	return Stats{
		Happiness:   DefaultStat,
		Hunger:      DefaultStat,
		Cleanliness: DefaultStat,
		Health:      DefaultStat,
	}
}

// Clamp returns s with every stat pulled into [MinStat, MaxStat]
func (s Stats) Clamp() Stats {
	return Stats{
		Happiness:   clamp(s.Happiness),
		Hunger:      clamp(s.Hunger),
		Cleanliness: clamp(s.Cleanliness),
		Health:      clamp(s.Health),
	}
}

// Feed lowers hunger and cheers the pet up
func (s *Stats) Feed() {
	s.Hunger = clamp(s.Hunger - FeedHungerDecrease)
	s.Happiness = clamp(s.Happiness + FeedHappinessIncrease)
}

// Play makes the pet happier and hungrier
func (s *Stats) Play() {
	s.Happiness = clamp(s.Happiness + PlayHappinessIncrease)
	s.Hunger = clamp(s.Hunger + PlayHungerIncrease)
}

// Clean restores full cleanliness
func (s *Stats) Clean() {
	s.Cleanliness = MaxStat
	s.Happiness = clamp(s.Happiness + CleanHappinessIncrease)
}

// Sleep restores some health at the cost of hunger
func (s *Stats) Sleep() {
	s.Health = clamp(s.Health + SleepHealthIncrease)
	s.Hunger = clamp(s.Hunger + SleepHungerIncrease)
}

// Heal restores full health
func (s *Stats) Heal() {
	s.Health = MaxStat
	s.Happiness = clamp(s.Happiness + HealHappinessIncrease)
}

// Decay lowers every stat by amount, flooring at zero
func (s *Stats) Decay(amount int) {
	if amount < 0 {
		amount = 0
	}
	s.Happiness = clamp(s.Happiness - amount)
	s.Hunger = clamp(s.Hunger - amount)
	s.Cleanliness = clamp(s.Cleanliness - amount)
	s.Health = clamp(s.Health - amount)
}

// Apply performs a named action. Unknown actions leave the stats untouched.
func (s *Stats) Apply(a Action) bool {
	switch a {
	case ActionFeed:
		s.Feed()
	case ActionPlay:
		s.Play()
	case ActionClean:
		s.Clean()
	case ActionSleep:
		s.Sleep()
	case ActionHeal:
		s.Heal()
	default:
		return false
	}
	log.Printf("Applied %s. Happiness %d, Hunger %d, Cleanliness %d, Health %d",
		a, s.Happiness, s.Hunger, s.Cleanliness, s.Health)
	return true
}

func clamp(v int) int {
	return max(MinStat, min(v, MaxStat))
}
