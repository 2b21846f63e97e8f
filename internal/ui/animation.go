package ui

import (
	"time"

	"hoppet/internal/pet"
)

// AnimationType represents the type of action animation
type AnimationType int

const (
	AnimNone AnimationType = iota
	AnimFeed
	AnimPlay
	AnimClean
	AnimSleep
	AnimHeal
)

// Animation holds the current animation state
type Animation struct {
	Type      AnimationType
	Frame     int
	StartTime time.Time
}

// AnimationFrames contains ASCII art frames for each animation type
var AnimationFrames = map[AnimationType][]string{
	AnimFeed: {
		`
   🍖
     \
      😺
`,
		`

   🍖→😺

`,
		`

     😸
   *nom*
`,
		`

     😋
   *munch*
`,
	},
	AnimPlay: {
		`
  🧶        😺
`,
		`
     🧶     😸
`,
		`
        🧶  😺
`,
		`
     🧶     😸
              *pounce*
`,
	},
	AnimClean: {
		`
  🫧       😾
`,
		`
     🫧    😾
`,
		`
       🫧🫧 😺
`,
		`
           😸
        ✨ sparkly ✨
`,
	},
	AnimSleep: {
		`
     😺
`,
		`
     😪
      z
`,
		`
     😴
     z
      z
`,
		`
     😴
    z
     z
      z
`,
	},
	AnimHeal: {
		`
  💊       🤢
`,
		`
     💊    😿
`,
		`
       💊→ 😺
`,
		`
           😸
        ✨ 100 ✨
`,
	},
}

// AnimationFrameDuration is how long each frame displays
const AnimationFrameDuration = 200 * time.Millisecond

var actionAnimations = map[pet.Action]AnimationType{
	pet.ActionFeed:  AnimFeed,
	pet.ActionPlay:  AnimPlay,
	pet.ActionClean: AnimClean,
	pet.ActionSleep: AnimSleep,
	pet.ActionHeal:  AnimHeal,
}

// AnimationFor returns the animation played after an action
func AnimationFor(a pet.Action) AnimationType {
	return actionAnimations[a]
}

// GetAnimationFrame returns the current frame for an animation
func GetAnimationFrame(anim Animation) string {
	frames := AnimationFrames[anim.Type]
	if len(frames) == 0 {
		return ""
	}
	if anim.Frame >= len(frames) {
		return frames[len(frames)-1]
	}
	return frames[anim.Frame]
}

// IsAnimationComplete returns true if the animation has finished
func IsAnimationComplete(anim Animation) bool {
	frames := AnimationFrames[anim.Type]
	return anim.Frame >= len(frames)
}

// AnimationTotalFrames returns the number of frames for an animation type
func AnimationTotalFrames(animType AnimationType) int {
	return len(AnimationFrames[animType])
}
