package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/clipfile/clipper/internal/config"
	"github.com/clipfile/clipper/internal/httpapi"
	"github.com/clipfile/clipper/internal/jobs"
	"github.com/clipfile/clipper/internal/media"
	"github.com/clipfile/clipper/internal/persistence"
	"github.com/clipfile/clipper/internal/pipeline"
	"github.com/clipfile/clipper/internal/retention"
	"github.com/clipfile/clipper/internal/storage"
	"github.com/clipfile/clipper/internal/transcribe"
	"github.com/clipfile/clipper/pkg/log"
)

// cronEngine and httpServer are the narrow surfaces runWithComponents
// drives, so tests can substitute fakes.
type cronEngine interface {
	Start()
	Stop() context.Context
}

type httpServer interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.InitLogger(log.ParseLevel(cfg.LogLevel))

	layout, err := storage.NewLayout(cfg.Storage.DataDir)
	if err != nil {
		log.Fatal("Failed to prepare data directories: %v", err)
	}

	var store jobs.Store = jobs.NewMemoryStore()
	if cfg.Storage.DBPath != "" {
		sqlStore, err := persistence.NewSQLiteStore(cfg.Storage.DBPath)
		if err != nil {
			log.Fatal("Failed to open job store: %v", err)
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	queue := jobs.NewQueue(cfg.Jobs.WorkerCount, store)

	tool := media.NewFFmpeg(cfg.MediaTool.FFmpegPath, cfg.MediaTool.FFprobePath)
	transcriber := transcribe.NewClient(cfg.Transcriber.URL,
		time.Duration(cfg.Transcriber.TimeoutSec)*time.Second)

	pipe := pipeline.New(tool, transcriber, layout, pipeline.Config{
		Selector:  cfg.SelectorConfig(),
		GroupSize: cfg.Captions.GroupSize,
		Style:     cfg.CaptionStyle(),
		FontsDir:  cfg.MediaTool.FontsDir,
	})
	queue.Start(pipe.Execute)
	defer queue.Stop()

	sweeper := retention.NewSweeper(queue, layout,
		time.Duration(cfg.Jobs.RetentionTTLHours)*time.Hour)
	cronSvc := cron.New()
	if err := sweeper.Schedule(cronSvc, cfg.Jobs.RetentionCron); err != nil {
		log.Fatal("Failed to schedule retention sweep: %v", err)
	}

	server := httpapi.NewServer(queue, layout,
		httpapi.WithCORSOrigins(cfg.HTTP.CORSOrigins))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runWithComponents(ctx, cfg, cronSvc, server); err != nil {
		log.Fatal("Server exited: %v", err)
	}
}

// runWithComponents starts the cron engine and the HTTP server and blocks
// until the context is cancelled or the server fails, then shuts both down.
func runWithComponents(ctx context.Context, cfg *config.Config, cronSvc cronEngine, server httpServer) error {
	cronSvc.Start()
	defer cronSvc.Stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Listening on %s", cfg.HTTP.Addr)
		if err := server.ListenAndServe(cfg.HTTP.Addr); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
