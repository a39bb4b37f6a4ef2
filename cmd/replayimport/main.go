// replayimport stores replay documents in the catalog database.
//
// Usage:
//
//	go run ./cmd/replayimport [-config path] [-title name] [-fps n] file.json...
//	go run ./cmd/replayimport [-config path] -list
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielsamuels/Rocket-League-Replays/internal/config"
	"github.com/danielsamuels/Rocket-League-Replays/internal/overlay"
	"github.com/danielsamuels/Rocket-League-Replays/internal/persist"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

func main() {
	cfgPath := flag.String("config", "config/replayview.toml", "config file with the [database] section")
	title := flag.String("title", "", "catalog title (defaults to the file name)")
	fps := flag.Float64("fps", 0, "recording frame rate (defaults to playback.record_fps)")
	list := flag.Bool("list", false, "list the catalog instead of importing")
	flag.Parse()

	if err := run(*cfgPath, *title, *fps, *list, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, title string, fps float64, list bool, files []string) error {
	if !list && len(files) == 0 {
		return fmt.Errorf("no replay files given")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if fps <= 0 {
		fps = cfg.Playback.RecordFPS
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	repo := persist.NewReplayRepo(db)

	if list {
		return printCatalog(ctx, repo)
	}

	for _, path := range files {
		ds, raw, err := replay.LoadFile(path)
		if err != nil {
			return err
		}
		name := title
		if name == "" || len(files) > 1 {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		meta := persist.MetaFromDataset(ds, overlay.CleanLabel(name), fps)
		id, err := repo.Save(ctx, meta, raw)
		if err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		fmt.Printf("%s  %s  %d frames  %d-%d\n", id, meta.Title, meta.NumFrames, meta.BlueScore, meta.OrangeScore)
	}
	return nil
}

func printCatalog(ctx context.Context, repo *persist.ReplayRepo) error {
	entries, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	for _, e := range entries {
		fmt.Printf("%s  %-30s %6d frames  %d-%d  %s\n",
			e.ID, e.Title, e.NumFrames, e.BlueScore, e.OrangeScore, e.CreatedAt.Format(time.DateTime))
	}
	fmt.Printf("%d replays\n", len(entries))
	return nil
}
