package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quasilyte/gdata/v2"
	"github.com/spf13/cobra"

	"hoppet/internal/canvas"
	"hoppet/internal/config"
	"hoppet/internal/motion"
	"hoppet/internal/offline"
	"hoppet/internal/pet"
	"hoppet/internal/platform"
	"hoppet/internal/sprite"
	"hoppet/internal/stage"
	"hoppet/internal/ui"
)

const Version = "v0.1.0"

var (
	configPath string
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "hoppet",
		Short:         "A hopping virtual pet for your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Println(Version)
				return nil
			}
			return runGame()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.config/hoppet/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write logs to debug.log")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(decayCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(initConfigCmd)
	for _, a := range pet.Actions {
		rootCmd.AddCommand(actionCmd(a))
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends log output to debug.log with --debug and drops it
// otherwise, so it never lands on top of the TUI
func setupLogging() (func(), error) {
	if !debug {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile("debug.log", "hoppet")
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return func() { f.Close() }, nil
}

// app holds the collaborators every command shares
type app struct {
	cfg    config.Config
	motion motion.Config
	cache  *offline.Cache
	store  pet.Store
	sync   *platform.SyncManager
	push   *platform.PushManager
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	path, err := config.Path()
	if err != nil {
		log.Printf("Using built-in config: %v", err)
		return ""
	}
	return path
}

func newApp(ctx context.Context, notifier platform.Notifier) (*app, error) {
	cfg := config.Default()
	if path := resolveConfigPath(); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	motionCfg, err := motion.LoadConfig(cfg.MotionFile)
	if err != nil {
		return nil, err
	}

	var origin fs.FS = sprite.Assets()
	if cfg.Cache.AssetDir != "" {
		origin = os.DirFS(cfg.Cache.AssetDir)
	}
	saveData := openSaveData(cfg.Store.AppName)
	storage, err := offline.OpenStorage(saveData)
	if err != nil {
		log.Printf("[Cache] Warning: saved cache unreadable, starting empty: %v", err)
		storage = offline.NewStorage()
	}
	cache, err := offline.New(storage, cfg.Manifest(), origin, cfg.Cache.Strategy)
	if err != nil {
		return nil, err
	}
	if err := cache.Install(ctx); err != nil {
		log.Printf("[Cache] Install failed, serving from origin: %v", err)
	} else {
		cache.Activate()
	}

	var store pet.Store
	if cfg.Store.StateFile != "" {
		store = pet.FileStore{Path: cfg.Store.StateFile}
	} else {
		store = pet.NewKVStore(saveData)
	}

	caps := platform.Capabilities{
		Sync:          cfg.Sync.Enabled,
		Push:          cfg.Push.Enabled,
		Notifications: cfg.Push.Enabled,
	}
	syncMgr := platform.NewSyncManager(caps.Sync)
	syncMgr.Handle(pet.SyncTagFeed, func(ctx context.Context) error {
		s, err := store.Load()
		if err != nil {
			return err
		}
		log.Printf("Synced feed: hunger is %d", s.Hunger)
		return nil
	})

	return &app{
		cfg:    cfg,
		motion: motionCfg,
		cache:  cache,
		store:  store,
		sync:   syncMgr,
		push:   platform.NewPushManager(caps, nil, notifier),
	}, nil
}

// openSaveData opens the platform save directory shared by the stats store
// and the asset cache. A nil manager keeps both in memory.
func openSaveData(appName string) *gdata.Manager {
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("Warning: save data unavailable: %v (progress will not persist)", err)
		return nil
	}
	return manager
}

func (a *app) loadSprite(ctx context.Context) (*sprite.Sprite, error) {
	return sprite.Load(ctx, a.cache, a.cfg.Sprite.Path)
}

// withApp sets up logging and the shared collaborators around fn
func withApp(notifier platform.Notifier, fn func(ctx context.Context, a *app) error) error {
	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()
	a, err := newApp(ctx, notifier)
	if err != nil {
		return err
	}
	return fn(ctx, a)
}

func runGame() error {
	notifier := &ui.ProgramNotifier{}
	return withApp(notifier, func(ctx context.Context, a *app) error {
		m := ui.NewModel(ui.Options{
			Store:         a.store,
			Motion:        a.motion,
			CanvasCols:    a.cfg.Canvas.Width / stage.CellWidth,
			CanvasRows:    a.cfg.Canvas.Height / stage.CellHeight,
			LoadSprite:    a.loadSprite,
			Sync:          a.sync,
			Push:          a.push,
			VAPIDKey:      a.cfg.Push.VAPIDKey,
			DecayInterval: a.cfg.DecayInterval(),
			DecayAmount:   a.cfg.Decay.Amount,
		})
		return ui.Run(m, notifier)
	})
}

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Watch your pet hop across the whole terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(nil, func(ctx context.Context, a *app) error {
			sp, err := a.loadSprite(ctx)
			if err != nil {
				return err
			}
			return stage.Run(a.motion, sp)
		})
	},
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open your pet in a desktop window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(nil, func(ctx context.Context, a *app) error {
			return canvas.Run(canvas.Options{
				Width:        a.cfg.Canvas.Width,
				Height:       a.cfg.Canvas.Height,
				SpriteWidth:  a.cfg.Sprite.Width,
				SpriteHeight: a.cfg.Sprite.Height,
				Motion:       a.motion,
				LoadSprite:   a.loadSprite,
				Store:        a.store,
				Sync:         a.sync,
				DecayEvery:   a.cfg.DecayInterval(),
				DecayAmount:  a.cfg.Decay.Amount,
			})
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your pet's stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		return withApp(nil, func(ctx context.Context, a *app) error {
			s := pet.LoadOrDefault(a.store)
			if plain {
				fmt.Print(ui.StatsCard(s))
				return nil
			}
			return ui.DisplayStats(s)
		})
	},
}

func init() {
	statsCmd.Flags().Bool("plain", false, "Print the stats card instead of opening it full screen")
	decayCmd.Flags().Int("amount", 0, "Points to remove from every stat (default from config)")
}

var actionDone = map[pet.Action]string{
	pet.ActionFeed:  "Fed your pet!",
	pet.ActionPlay:  "Played with your pet!",
	pet.ActionClean: "Cleaned your pet!",
	pet.ActionSleep: "Your pet had a nap.",
	pet.ActionHeal:  "Healed your pet!",
}

func actionCmd(action pet.Action) *cobra.Command {
	return &cobra.Command{
		Use:   string(action),
		Short: action.Title() + " your pet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(nil, func(ctx context.Context, a *app) error {
				s := pet.LoadOrDefault(a.store)
				s.Apply(action)
				if err := a.store.Save(s); err != nil {
					return err
				}

				if action == pet.ActionFeed {
					if err := a.sync.Register(pet.SyncTagFeed); err != nil {
						log.Printf("Background sync registration failed: %v", err)
					} else if err := a.sync.Replay(ctx); err != nil {
						log.Printf("Background sync replay failed: %v", err)
					}
				}

				fmt.Println(actionDone[action])
				fmt.Printf("Status: %s\n", pet.GetStatusWithLabel(s))
				return nil
			})
		},
	}
}

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Let time pass: lower every stat once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, _ := cmd.Flags().GetInt("amount")
		return withApp(nil, func(ctx context.Context, a *app) error {
			if amount <= 0 {
				amount = a.cfg.Decay.Amount
			}
			if amount > pet.MaxDecayAmount {
				return fmt.Errorf("decay amount must be at most %d, got %d", pet.MaxDecayAmount, amount)
			}
			s := pet.LoadOrDefault(a.store)
			s.Decay(amount)
			if err := a.store.Save(s); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", pet.GetStatusWithLabel(s))
			return nil
		})
	},
}

var pushCmd = &cobra.Command{
	Use:   "push <payload>",
	Short: `Deliver a push message such as '{"title":"hi","body":"feed me"}'`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := platform.NotifierFunc(func(n platform.Notification) {
			fmt.Printf("🔔 %s\n%s\n", n.Title, n.Body)
		})
		return withApp(printer, func(ctx context.Context, a *app) error {
			subCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if _, err := a.push.Subscribe(subCtx, a.cfg.Push.VAPIDKey); err != nil {
				if errors.Is(err, platform.ErrUnsupported) {
					return fmt.Errorf("push is disabled; set [push] enabled and vapid_key in the config")
				}
				return err
			}
			_, err := a.push.Receive([]byte(args[0]))
			return err
		})
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath()
		if path == "" {
			return fmt.Errorf("no config path; pass --config")
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}
