package pet

// GetStatus returns the emoji for the pet's most pressing need
func GetStatus(s Stats) string {
	emoji, _ := worstNeed(s)
	return emoji
}

// GetStatusWithLabel returns status with a text label for the UI
func GetStatusWithLabel(s Stats) string {
	emoji, label := worstNeed(s)
	return emoji + " " + label
}

// worstNeed picks the lowest of the "more is better" stats, or hunger when it
// is the more urgent problem
func worstNeed(s Stats) (string, string) {
	lowest := s.Health
	emoji, label := StatusEmojiSick, "Sick"

	if s.Cleanliness < lowest {
		lowest = s.Cleanliness
		emoji, label = StatusEmojiDirty, "Dirty"
	}
	if s.Happiness < lowest {
		lowest = s.Happiness
		emoji, label = StatusEmojiSad, "Sad"
	}

	// hunger counts up, so compare its distance from full
	if MaxStat-s.Hunger < lowest && s.Hunger > HungryThreshold {
		return StatusEmojiHungry, "Hungry"
	}

	if lowest < LowThreshold {
		return emoji, label
	}
	if s.Hunger > HungryThreshold {
		return StatusEmojiHungry, "Hungry"
	}
	return StatusEmojiHappy, "Happy"
}
