package pet

// Stat bounds
const (
	MaxStat      = 100
	MinStat      = 0
	DefaultStat  = 50
	LowThreshold = 30

	// Hunger runs the other way: high means hungry
	HungryThreshold = 70
)

// Action effects
const (
	FeedHungerDecrease    = 15
	FeedHappinessIncrease = 5

	PlayHappinessIncrease = 10
	PlayHungerIncrease    = 5

	CleanHappinessIncrease = 5

	SleepHealthIncrease = 10
	SleepHungerIncrease = 10

	HealHappinessIncrease = 5

	DefaultDecayAmount = 1
	MaxDecayAmount     = 2
)

// Storage keys
const (
	StoreObject   = "pet"
	StoreProperty = "stats"
)

// Status emojis
const (
	StatusEmojiHappy  = "😸"
	StatusEmojiHungry = "🙀"
	StatusEmojiDirty  = "😾"
	StatusEmojiSad    = "😿"
	StatusEmojiSick   = "🤢"
)

// SyncTagFeed is the background sync tag registered after every feed
const SyncTagFeed = "sync-feed-pet"
