package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/rewind/pkg/api"
	"github.com/cbodonnell/rewind/pkg/board"
	"github.com/cbodonnell/rewind/pkg/catalog"
	"github.com/cbodonnell/rewind/pkg/config"
	"github.com/cbodonnell/rewind/pkg/game"
	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/messages"
	"github.com/cbodonnell/rewind/pkg/network"
	"github.com/cbodonnell/rewind/pkg/queue"
	"github.com/cbodonnell/rewind/pkg/repositories"
	"github.com/cbodonnell/rewind/pkg/repositories/models"
	"github.com/cbodonnell/rewind/pkg/rng"
	"github.com/cbodonnell/rewind/pkg/state"
	"github.com/cbodonnell/rewind/pkg/workers"
	"github.com/google/uuid"
)

func main() {
	logLevel := flag.String("log-level", "", "Log level, overrides REWIND_LOG_LEVEL")
	resume := flag.Bool("resume", false, "Resume the most recently archived run")
	resumeRun := flag.String("resume-run", "", "Resume the archived run with this ID")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *logLevel == "" {
		*logLevel = cfg.LogLevel
	}

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameCatalog, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load catalog: %v", err))
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = rng.NewSeed(); err != nil {
			panic(fmt.Sprintf("Failed to generate seed: %v", err))
		}
	}
	log.Info("Using seed %d", seed)

	clientManager := network.NewClientManager()
	broadcastMessageChanSize := 1000
	broadcastMessageChan := make(chan workers.BroadcastMessage, broadcastMessageChanSize)
	broadcastMessageWorker := workers.NewBroadcastMessageWorker(workers.NewBroadcastMessageWorkerOptions{
		ClientManager:        clientManager,
		BroadcastMessageChan: broadcastMessageChan,
	})
	go broadcastMessageWorker.Start(ctx)

	var repository repositories.Repository
	var saveCheckpointChan chan workers.SaveCheckpointRequest
	if cfg.DatabaseURL != "" {
		repository, err = repositories.NewRepository(ctx, cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil {
			panic(fmt.Sprintf("Failed to open repository: %v", err))
		}
		defer repository.Close(context.Background())

		saveCheckpointChanSize := 100
		saveCheckpointChan = make(chan workers.SaveCheckpointRequest, saveCheckpointChanSize)
		saveCheckpointWorker := workers.NewSaveCheckpointWorker(workers.NewSaveCheckpointWorkerOptions{
			Repository:         repository,
			SaveCheckpointChan: saveCheckpointChan,
		})
		go saveCheckpointWorker.Start(ctx)
	} else {
		log.Info("No database configured, checkpoints will not be archived")
	}

	commandQueue := queue.NewInMemoryQueue(10000)
	stateManager := state.NewInMemoryStateManager()

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		CommandQueue:         commandQueue,
		StateManager:         stateManager,
		Catalog:              gameCatalog,
		Random:               rng.New(seed),
		Board:                board.NewBoard(cfg.GridWidth, cfg.GridHeight),
		DrawCount:            cfg.DrawCount,
		SpawnCeiling:         cfg.SpawnCeiling,
		SaveCheckpointChan:   saveCheckpointChan,
		BroadcastMessageChan: broadcastMessageChan,
		GameLoopInterval:     cfg.GameLoopInterval,
	})

	if *resume || *resumeRun != "" {
		if repository == nil {
			panic("Cannot resume without a database")
		}
		if err := resumeGame(ctx, gameManager, repository, *resumeRun); err != nil {
			panic(fmt.Sprintf("Failed to resume: %v", err))
		}
	}

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:         cfg.APIPort,
		StateManager: stateManager,
		CommandQueue: commandQueue,
		Repository:   repository,
		Feed: network.NewWSServer(network.NewWSServerOptions{
			ClientManager: clientManager,
			StateManager:  stateManager,
		}),
	})
	go apiServer.Start()

	log.Info("Starting game manager")
	if err := gameManager.Start(ctx); err != nil {
		log.Error("Game manager stopped: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
}

// resumeGame loads the latest checkpoint of a run, or of the most recent
// run when runID is empty, and installs it in the game manager.
func resumeGame(ctx context.Context, gameManager *game.GameManager, repository repositories.Repository, runID string) error {
	var checkpoint *models.Checkpoint
	var err error
	if runID == "" {
		checkpoint, err = repository.LoadMostRecentCheckpoint(ctx)
	} else {
		id, parseErr := uuid.Parse(runID)
		if parseErr != nil {
			return fmt.Errorf("failed to parse run id: %v", parseErr)
		}
		checkpoint, err = repository.LoadLatestCheckpoint(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %v", err)
	}

	snapshot, err := messages.DeserializeSnapshot(checkpoint.Data)
	if err != nil {
		return fmt.Errorf("failed to decode checkpoint: %v", err)
	}
	return gameManager.Resume(checkpoint.RunID, checkpoint.Level, snapshot)
}
