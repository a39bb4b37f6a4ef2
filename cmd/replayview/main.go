package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/danielsamuels/Rocket-League-Replays/internal/config"
	"github.com/danielsamuels/Rocket-League-Replays/internal/core/event"
	coresys "github.com/danielsamuels/Rocket-League-Replays/internal/core/system"
	"github.com/danielsamuels/Rocket-League-Replays/internal/data"
	"github.com/danielsamuels/Rocket-League-Replays/internal/factory"
	"github.com/danielsamuels/Rocket-League-Replays/internal/overlay"
	"github.com/danielsamuels/Rocket-League-Replays/internal/persist"
	"github.com/danielsamuels/Rocket-League-Replays/internal/playback"
	"github.com/danielsamuels/Rocket-League-Replays/internal/present"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
	"github.com/danielsamuels/Rocket-League-Replays/internal/scripting"
	"github.com/danielsamuels/Rocket-League-Replays/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           Replay Viewer  v0.1.0           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      Rocket League match playback         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mInstance:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main playback logic ───────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/replayview.toml"
	if p := os.Getenv("REPLAYVIEW_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Optional catalog database
	var repo *persist.ReplayRepo
	if cfg.Database.Enabled {
		printSection("Database")
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		db, err := persist.NewDB(dbCtx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")
		if err := persist.RunMigrations(dbCtx, db.Pool); err != nil {
			cancel()
			return fmt.Errorf("migrations: %w", err)
		}
		version, err := persist.SchemaVersion(dbCtx, db.Pool)
		cancel()
		if err != nil {
			return err
		}
		printStat("Schema version", int(version))
		repo = persist.NewReplayRepo(db)
		fmt.Println()
	}

	// 4. Assets and scripts
	printSection("Assets")
	models, err := data.LoadModelTable(cfg.Assets.ModelTable)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	printStat("Models", models.Count())

	engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer engine.Close()
	if engine.HasHook("format_timer") {
		printOK("Lua timer hook loaded")
	}
	fmt.Println()

	// 5. Scene, factory and viewer hub
	scene := present.NewScene()
	meshes := factory.NewMeshFactory(models, cfg.Assets.MeshDir, scene, cfg.Assets.LoadWorkers, log)
	defer meshes.Close()

	hub := present.NewHub(cfg.Presentation.OutQueueSize, cfg.Presentation.WriteTimeout, log)
	defer hub.Close()

	// 6. Player and systems
	bus := event.NewBus()
	system.RegisterJournal(bus, log)
	player := playback.NewPlayer(meshes, scene, overlay.New(engine), bus, playback.Options{
		RecordFPS: cfg.Playback.RecordFPS,
		Plane:     cfg.Playback.Plane,
	}, log)

	src, err := newSource(cfg.Source, repo)
	if err != nil {
		return fmt.Errorf("replay source: %w", err)
	}
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Source.Timeout)
	defer cancelLoad()
	results := playback.StartLoad(loadCtx, src)

	runner := coresys.NewRunner()
	runner.Register(system.NewLoadSystem(results, player, cfg.Playback.StartFrame, log))
	runner.Register(system.NewInputSystem(hub.Commands(), player, 0, log))
	runner.Register(system.NewEventSystem(bus))
	runner.Register(system.NewSyncSystem(player))
	runner.Register(system.NewOverlaySystem(player))
	runner.Register(system.NewOutputSystem(hub, scene, player, log))
	runner.Register(system.NewAdvanceSystem(player, cfg.Playback.Autoplay, log))

	// 7. HTTP listener for viewers
	ln, err := net.Listen("tcp", cfg.Presentation.BindAddress)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{
		Handler:           hub.Handler(func() any { return player.PublishedStatus() }),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", zap.Error(err))
		}
	}()
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	// 8. Start playback loop
	ticker := time.NewTicker(cfg.Playback.TickRate)
	defer ticker.Stop()

	printSection("Playback")
	printReady(fmt.Sprintf("Loading %s", src))
	printReady(fmt.Sprintf("Viewers on ws://%s/ws", ln.Addr().String()))
	printReady(fmt.Sprintf("Loop started (tick: %s)", cfg.Playback.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			if err := runner.Tick(cfg.Playback.TickRate); err != nil {
				return err
			}
		case <-ctx.Done():
			log.Info("shutdown signal received")
			player.Unload()
			log.Info("replay viewer stopped")
			return nil
		}
	}
}

// newSource picks where the replay document comes from.
func newSource(cfg config.SourceConfig, repo *persist.ReplayRepo) (replay.Source, error) {
	switch cfg.Kind {
	case config.SourceHTTP:
		return replay.HTTPSource{Client: &http.Client{Timeout: cfg.Timeout}, URL: cfg.URL}, nil
	case config.SourceFile:
		return replay.FileSource{Path: cfg.Path}, nil
	case config.SourceCatalog:
		if repo == nil {
			return nil, errors.New("catalog source needs the database")
		}
		id, err := uuid.Parse(cfg.ReplayID)
		if err != nil {
			return nil, fmt.Errorf("replay_id: %w", err)
		}
		return persist.NewCatalogSource(repo, id), nil
	}
	return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
