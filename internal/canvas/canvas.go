// Package canvas draws the pet in a fixed-size ebiten window.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"hoppet/internal/motion"
	"hoppet/internal/pet"
	"hoppet/internal/platform"
	"hoppet/internal/sprite"
)

const (
	spriteLoadTimeout = 10 * time.Second
	syncTimeout       = 5 * time.Second
	messageTicks      = 3 * ebiten.DefaultTPS
)

var (
	background = color.RGBA{0xFF, 0xF0, 0xF5, 0xFF}
	ink        = color.RGBA{0xFF, 0x75, 0xB5, 0xFF}
	groundInk  = color.RGBA{0x87, 0x4B, 0xFD, 0xFF}
)

var actionKeys = map[ebiten.Key]pet.Action{
	ebiten.KeyF: pet.ActionFeed,
	ebiten.KeyP: pet.ActionPlay,
	ebiten.KeyC: pet.ActionClean,
	ebiten.KeyS: pet.ActionSleep,
	ebiten.KeyH: pet.ActionHeal,
}

// Options configures the window
type Options struct {
	Width        int
	Height       int
	SpriteWidth  int
	SpriteHeight int
	Motion       motion.Config
	LoadSprite   func(ctx context.Context) (*sprite.Sprite, error)
	Store        pet.Store
	Sync         *platform.SyncManager
	DecayEvery   time.Duration
	DecayAmount  int
}

type loadResult struct {
	sprite *sprite.Sprite
	err    error
}

// Game implements ebiten.Game
type Game struct {
	opts   Options
	sim    *motion.Simulator
	state  motion.State
	img    *ebiten.Image
	loaded chan loadResult
	failed bool

	stats      pet.Stats
	ticks      int
	decayTicks int
	message    string
	messageTTL int
}

// New creates the game. Sprite loading starts right away.
func New(opts Options) (*Game, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("canvas must have positive size, got %dx%d", opts.Width, opts.Height)
	}
	if opts.SpriteWidth <= 0 || opts.SpriteHeight <= 0 {
		return nil, fmt.Errorf("sprite must have positive size, got %dx%d", opts.SpriteWidth, opts.SpriteHeight)
	}
	if opts.LoadSprite == nil {
		return nil, errors.New("no sprite loader")
	}
	if opts.DecayAmount <= 0 {
		opts.DecayAmount = pet.DefaultDecayAmount
	}

	bounds := opts.Motion.Bounds(float64(opts.Width), float64(opts.Height),
		float64(opts.SpriteWidth), float64(opts.SpriteHeight))
	sim, err := motion.New(opts.Motion, bounds)
	if err != nil {
		return nil, err
	}

	g := &Game{
		opts:       opts,
		sim:        sim,
		loaded:     make(chan loadResult, 1),
		stats:      pet.NewStats(),
		decayTicks: int(opts.DecayEvery.Seconds() * ebiten.DefaultTPS),
	}
	if opts.Store != nil {
		g.stats = pet.LoadOrDefault(opts.Store)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), spriteLoadTimeout)
		defer cancel()
		sp, err := opts.LoadSprite(ctx)
		g.loaded <- loadResult{sprite: sp, err: err}
	}()
	return g, nil
}

// Run opens the window and blocks until it closes
func Run(opts Options) error {
	g, err := New(opts)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle("hoppet")
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

// Update advances one tick. Motion waits for the sprite.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if g.img == nil && !g.failed {
		select {
		case res := <-g.loaded:
			g.onLoaded(res)
		default:
		}
	}

	for k, a := range actionKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.act(a)
		}
	}

	g.ticks++
	if g.decayTicks > 0 && g.ticks%g.decayTicks == 0 {
		g.stats.Decay(g.opts.DecayAmount)
		g.save()
	}
	if g.messageTTL > 0 {
		g.messageTTL--
	}

	if g.img == nil {
		return nil
	}
	g.state = g.sim.Step(g.state)
	return nil
}

func (g *Game) onLoaded(res loadResult) {
	if res.err != nil {
		log.Printf("Failed to load sprite: %v", res.err)
		g.failed = true
		return
	}
	cellW := max(1, g.opts.SpriteWidth/res.sprite.Width)
	cellH := max(1, g.opts.SpriteHeight/res.sprite.Height)
	g.img = ebiten.NewImageFromImage(res.sprite.Raster(cellW, cellH, ink))
	g.state = g.sim.Start()
}

func (g *Game) act(a pet.Action) {
	if !g.stats.Apply(a) {
		return
	}
	g.save()
	g.message = a.Title()
	g.messageTTL = messageTicks

	if a == pet.ActionFeed && g.opts.Sync != nil {
		if err := g.opts.Sync.Register(pet.SyncTagFeed); err != nil {
			log.Printf("Background sync registration failed: %v", err)
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
			defer cancel()
			if err := g.opts.Sync.Replay(ctx); err != nil {
				log.Printf("Background sync replay failed: %v", err)
			}
		}()
	}
}

func (g *Game) save() {
	if g.opts.Store != nil {
		pet.SaveOrLog(g.opts.Store, g.stats)
	}
}

// Draw clears the canvas and draws the pet
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	groundY := int(g.sim.Bounds().GroundY()) + g.opts.SpriteHeight
	if groundY < g.opts.Height {
		ground := screen.SubImage(image.Rect(0, groundY, g.opts.Width, groundY+2)).(*ebiten.Image)
		ground.Fill(groundInk)
	}

	if g.img != nil {
		screen.DrawImage(g.img, g.spriteOptions())
	} else if !g.failed {
		ebitenutil.DebugPrintAt(screen, "Loading...", g.opts.Width/2-30, g.opts.Height/2)
	}

	hud := fmt.Sprintf("%s  H:%d U:%d C:%d HP:%d\n[F]eed [P]lay [C]lean [S]leep [H]eal",
		pet.GetStatus(g.stats), g.stats.Happiness, g.stats.Hunger, g.stats.Cleanliness, g.stats.Health)
	if g.messageTTL > 0 {
		hud += "\n" + g.message
	}
	ebitenutil.DebugPrint(screen, hud)
}

// spriteOptions scales the raster to the sprite box and mirrors it about
// its own midpoint when facing right
func (g *Game) spriteOptions() *ebiten.DrawImageOptions {
	b := g.img.Bounds()
	p := sprite.Place(b.Dx(), b.Dy(),
		float64(g.opts.SpriteWidth), float64(g.opts.SpriteHeight),
		g.state.Pos.X, g.state.Pos.Y, g.state.Facing == motion.Right)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.SetElement(0, 0, p.A)
	op.GeoM.SetElement(0, 1, p.B)
	op.GeoM.SetElement(0, 2, p.TX)
	op.GeoM.SetElement(1, 0, p.C)
	op.GeoM.SetElement(1, 1, p.D)
	op.GeoM.SetElement(1, 2, p.TY)
	return op
}

// Layout keeps the canvas at its configured size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.opts.Width, g.opts.Height
}
