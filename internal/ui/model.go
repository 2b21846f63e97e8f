package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"hoppet/internal/motion"
	"hoppet/internal/pet"
	"hoppet/internal/platform"
	"hoppet/internal/sprite"
	"hoppet/internal/stage"
)

const (
	// DefaultCanvasCols x DefaultCanvasRows covers a 600x300 canvas
	DefaultCanvasCols = 60
	DefaultCanvasRows = 15

	messageDuration   = 3 * time.Second
	spriteLoadTimeout = 10 * time.Second
	syncTimeout       = 5 * time.Second
	pushTimeout       = 30 * time.Second
)

// SpriteLoader fetches the pet's art
type SpriteLoader func(ctx context.Context) (*sprite.Sprite, error)

// Options wires the game to its collaborators. Nil collaborators are skipped.
type Options struct {
	Store         pet.Store
	Motion        motion.Config
	CanvasCols    int
	CanvasRows    int
	LoadSprite    SpriteLoader
	Sync          *platform.SyncManager
	Push          *platform.PushManager
	VAPIDKey      string
	DecayInterval time.Duration
	DecayAmount   int
}

// Model represents the game state
type Model struct {
	Stats          pet.Stats
	Art            stage.Art
	Sim            *motion.Simulator
	State          motion.State
	Frame          int
	Choice         int
	Quitting       bool
	Subscribed     bool
	Message        string
	MessageExpires time.Time
	Animation      Animation

	opts Options
}

var timeNow = time.Now

type spriteLoadedMsg struct {
	sprite *sprite.Sprite
	err    error
}

type decayMsg time.Time

type animTickMsg struct {
	started time.Time
}

type syncResultMsg struct {
	tag string
	err error
}

type pushSubscribedMsg struct {
	sub *platform.Subscription
	err error
}

// NewModel creates a new game model with the stats from opts.Store
func NewModel(opts Options) Model {
	if opts.CanvasCols <= 0 {
		opts.CanvasCols = DefaultCanvasCols
	}
	if opts.CanvasRows <= 0 {
		opts.CanvasRows = DefaultCanvasRows
	}
	if opts.DecayInterval <= 0 {
		opts.DecayInterval = 30 * time.Second
	}
	if opts.DecayAmount <= 0 {
		opts.DecayAmount = pet.DefaultDecayAmount
	}

	stats := pet.NewStats()
	if opts.Store != nil {
		stats = pet.LoadOrDefault(opts.Store)
	}
	return Model{Stats: stats, opts: opts}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadSprite(), decayTick(m.opts.DecayInterval)}
	if m.opts.Push != nil && m.opts.VAPIDKey != "" {
		cmds = append(cmds, m.subscribe())
	}
	return tea.Batch(cmds...)
}

func decayTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return decayMsg(t)
	})
}

func animTick(start time.Time) tea.Cmd {
	return tea.Tick(AnimationFrameDuration, func(t time.Time) tea.Msg {
		return animTickMsg{started: start}
	})
}

func (m Model) loadSprite() tea.Cmd {
	load := m.opts.LoadSprite
	if load == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), spriteLoadTimeout)
		defer cancel()
		sp, err := load(ctx)
		return spriteLoadedMsg{sprite: sp, err: err}
	}
}

func (m Model) subscribe() tea.Cmd {
	push, key := m.opts.Push, m.opts.VAPIDKey
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		sub, err := push.Subscribe(ctx, key)
		return pushSubscribedMsg{sub: sub, err: err}
	}
}

func (m Model) registerSync(tag string) tea.Cmd {
	mgr := m.opts.Sync
	if mgr == nil {
		return nil
	}
	return func() tea.Msg {
		if err := mgr.Register(tag); err != nil {
			return syncResultMsg{tag: tag, err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		return syncResultMsg{tag: tag, err: mgr.Replay(ctx)}
	}
}

// alert raises a local push when the pet starts needing something
func (m Model) alert(status string) tea.Cmd {
	push := m.opts.Push
	if push == nil || !m.Subscribed {
		return nil
	}
	return func() tea.Msg {
		payload, err := json.Marshal(platform.Notification{
			Title: "hoppet",
			Body:  fmt.Sprintf("%s needs you", status),
		})
		if err == nil {
			_, err = push.Receive(payload)
		}
		if err != nil {
			log.Printf("Failed to raise notification: %v", err)
		}
		return nil
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While an animation is playing, ignore inputs except quit keys
		if m.Animation.Type != AnimNone {
			switch msg.String() {
			case "ctrl+c", "q":
				m.Quitting = true
				return m, tea.Quit
			default:
				return m, nil
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.Choice > 0 {
				m.Choice--
			}
		case "down", "j":
			if m.Choice < len(pet.Actions) {
				m.Choice++
			}
		case "enter", " ":
			if m.Choice == len(pet.Actions) {
				m.Quitting = true
				return m, tea.Quit
			}
			return m, m.act(pet.Actions[m.Choice])
		}

	case spriteLoadedMsg:
		if msg.err != nil {
			log.Printf("Failed to load sprite: %v", msg.err)
			return m, nil
		}
		m.Art = stage.NewArt(msg.sprite)
		sim, err := stage.NewSimulator(m.opts.Motion, m.opts.CanvasCols, m.opts.CanvasRows, m.Art)
		if err != nil {
			log.Printf("Failed to start motion: %v", err)
			return m, nil
		}
		m.Sim = sim
		m.State = sim.Start()
		return m, stage.Frame()

	case stage.FrameMsg:
		if m.Sim == nil {
			return m, nil
		}
		m.Frame++
		m.State = m.Sim.Step(m.State)
		return m, stage.Frame()

	case decayMsg:
		before := pet.GetStatus(m.Stats)
		m.Stats.Decay(m.opts.DecayAmount)
		m.save()
		next := decayTick(m.opts.DecayInterval)
		if after := pet.GetStatus(m.Stats); after != before && after != pet.StatusEmojiHappy {
			return m, tea.Batch(next, m.alert(pet.GetStatusWithLabel(m.Stats)))
		}
		return m, next

	case animTickMsg:
		// Drop ticks that belong to an older animation
		if m.Animation.Type == AnimNone || !m.Animation.StartTime.Equal(msg.started) {
			return m, nil
		}

		m.Animation.Frame++
		if IsAnimationComplete(m.Animation) {
			m.Animation = Animation{}
			return m, nil
		}
		return m, animTick(m.Animation.StartTime)

	case syncResultMsg:
		switch {
		case errors.Is(msg.err, platform.ErrUnsupported):
			log.Printf("Background sync unavailable for %s", msg.tag)
		case msg.err != nil:
			log.Printf("Background sync registration failed: %v", msg.err)
		}
		return m, nil

	case pushSubscribedMsg:
		switch {
		case errors.Is(msg.err, platform.ErrUnsupported):
			log.Printf("Push messaging not supported")
		case errors.Is(msg.err, platform.ErrPermissionDenied):
			log.Printf("Push permission denied")
		case msg.err != nil:
			log.Printf("Failed to subscribe user: %v", msg.err)
		default:
			m.Subscribed = msg.sub != nil
		}
		return m, nil

	case platform.Notification:
		m.setMessage("🔔 " + msg.Title + ": " + msg.Body)
		return m, nil
	}

	return m, nil
}

var actionMessages = map[pet.Action]string{
	pet.ActionFeed:  "🍖 Yum!",
	pet.ActionPlay:  "🧶 Wheee!",
	pet.ActionClean: "🫧 Squeaky clean!",
	pet.ActionSleep: "💤 Zzz...",
	pet.ActionHeal:  "💊 All better!",
}

// act applies an action, saves and starts its animation
func (m *Model) act(a pet.Action) tea.Cmd {
	if !m.Stats.Apply(a) {
		return nil
	}
	m.save()
	m.setMessage(actionMessages[a])
	m.startAnimation(AnimationFor(a))

	cmds := []tea.Cmd{animTick(m.Animation.StartTime)}
	if a == pet.ActionFeed {
		cmds = append(cmds, m.registerSync(pet.SyncTagFeed))
	}
	return tea.Batch(cmds...)
}

func (m *Model) save() {
	if m.opts.Store != nil {
		pet.SaveOrLog(m.opts.Store, m.Stats)
	}
}

func (m *Model) setMessage(msg string) {
	m.Message = msg
	m.MessageExpires = timeNow().Add(messageDuration)
}

func (m *Model) startAnimation(animType AnimationType) {
	m.Animation = Animation{
		Type:      animType,
		Frame:     0,
		StartTime: timeNow(),
	}
}

// ProgramNotifier forwards notifications into a running program
type ProgramNotifier struct {
	mu      sync.Mutex
	program *tea.Program
}

// Attach sets the program that receives notifications
func (n *ProgramNotifier) Attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

// Notify implements platform.Notifier
func (n *ProgramNotifier) Notify(note platform.Notification) {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()
	if p == nil {
		log.Printf("Notification dropped, no program: %s", note.Title)
		return
	}
	p.Send(note)
}

// Run starts the game. notifier may be nil.
func Run(m Model, notifier *ProgramNotifier) error {
	program := tea.NewProgram(m)
	if notifier != nil {
		notifier.Attach(program)
	}
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
