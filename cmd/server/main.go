package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"chaindepth.gg/internal/persistence/indexdb"
	"chaindepth.gg/internal/persistence/snapshot"
	"chaindepth.gg/internal/sim/dungeon"
	"chaindepth.gg/internal/sim/tuning"
	"chaindepth.gg/internal/transport/ws"
)

func main() {
	var (
		addr      = flag.String("addr", ":8080", "listen address")
		configPth = flag.String("config", "configs/tuning.yaml", "tuning config path")
		dataDir   = flag.String("data", "data", "directory for snapshots and the event index")
		seasonID  = flag.String("season", "", "season id (default derived from start time)")
		seed      = flag.Uint64("seed", 0, "season seed (default derived from start time)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	tun, err := tuning.Load(*configPth)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("[config] %v", err)
		}
		logger.Printf("[config] %s not found, using defaults", *configPth)
		tun = tuning.Defaults()
	}

	idx, err := indexdb.Open(filepath.Join(*dataDir, "index.db"), logger)
	if err != nil {
		logger.Fatalf("[indexdb] %v", err)
	}
	defer idx.Close()

	snapPath := filepath.Join(*dataDir, "season.snap")
	saveSnap := func(exp dungeon.SeasonExport) {
		if err := snapshot.Save(snapPath, exp); err != nil {
			logger.Printf("[snapshot] save: %v", err)
			return
		}
		logger.Printf("[snapshot] saved at tick %d", exp.Tick)
	}

	engine, err := openEngine(snapPath, *seasonID, *seed, tun, logger, idx, saveSnap)
	if err != nil {
		logger.Fatalf("[engine] %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engineDone := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(engineDone)
	}()

	srv := &http.Server{Addr: *addr, Handler: ws.NewServer(engine, logger).Handler()}
	go func() {
		logger.Printf("[http] listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("[http] %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Printf("[main] shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	srv.Shutdown(shutdownCtx)

	// The loop has exited; a final export is safe now.
	<-engineDone
	saveSnap(engine.Export())
}

// openEngine resumes from an existing snapshot when one is present,
// otherwise starts a fresh season.
func openEngine(
	snapPath, seasonID string,
	seed uint64,
	tun tuning.Tuning,
	logger *log.Logger,
	idx *indexdb.DB,
	saveSnap func(dungeon.SeasonExport),
) (*dungeon.Dungeon, error) {
	cfg := dungeon.Config{
		Tuning:     tun,
		Logger:     logger,
		Sink:       idx,
		OnSnapshot: saveSnap,
	}
	if _, err := os.Stat(snapPath); err == nil {
		var exp dungeon.SeasonExport
		if err := snapshot.Load(snapPath, &exp); err != nil {
			return nil, err
		}
		return dungeon.Restore(cfg, exp)
	}
	now := time.Now()
	cfg.SeasonID = seasonID
	if cfg.SeasonID == "" {
		cfg.SeasonID = "season-" + now.Format("20060102-150405")
	}
	cfg.Seed = seed
	if cfg.Seed == 0 {
		cfg.Seed = uint64(now.UnixNano())
	}
	return dungeon.New(cfg)
}
