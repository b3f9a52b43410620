package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/v-zq/media-to-GIF/internal/config"
	"github.com/v-zq/media-to-GIF/internal/service"
	"github.com/v-zq/media-to-GIF/pkg/log"
)

var (
	flagInput    string
	flagOutput   string
	flagMode     string
	flagWorkers  int
	flagCron     string
	flagNoSkip   bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "mediatogif",
	Short: "Convert subtitled videos into per-caption GIF clips",
	Long: `mediatogif scans an input directory for video files paired with
subtitle files, cuts one clip per retained subtitle line, burns the caption
into the frame and writes the clips plus a metadata record per pair.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagInput, "input", "i", "", "input directory (overrides INPUT_DIR)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output directory (overrides OUTPUT_DIR)")
	rootCmd.Flags().StringVarP(&flagMode, "mode", "m", "", "pairing mode: same-name or subfolder")
	rootCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "parallel conversions (overrides MAX_WORKERS)")
	rootCmd.Flags().StringVar(&flagCron, "cron", "", "rerun schedule, standard cron syntax (overrides CRON_EXPR)")
	rootCmd.Flags().BoolVar(&flagNoSkip, "no-skip", false, "convert every caption, disabling the skip filter")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
}

func run(ctx context.Context) error {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	level := flagLogLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	log.InitLogger(log.ParseLevel(level))

	cfg, err := config.NewFromEnv(
		config.WithInputDir(flagInput),
		config.WithOutputDir(flagOutput),
		config.WithMode(flagMode),
		config.WithWorkers(flagWorkers),
		config.WithSkipDisabled(flagNoSkip),
		config.WithCronExpr(flagCron),
	)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.CronExpr == "" {
		return runOnce(ctx, *cfg)
	}
	return runScheduled(ctx, *cfg)
}

func runOnce(ctx context.Context, cfg config.Config) error {
	svc, err := service.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	summary, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	if summary.Halted {
		return fmt.Errorf("run halted: resource exhaustion")
	}
	return nil
}

// runScheduled runs one pass immediately, then reruns on the configured
// schedule until interrupted. Overlapping runs are not started; a tick that
// arrives while a pass is active is dropped.
func runScheduled(ctx context.Context, cfg config.Config) error {
	if err := runOnce(ctx, cfg); err != nil {
		log.Error("Scheduled pass failed: %v", err)
	}

	running := make(chan struct{}, 1)
	scheduler := cron.New()
	_, err := scheduler.AddFunc(cfg.CronExpr, func() {
		select {
		case running <- struct{}{}:
		default:
			log.Warn("Previous pass still running, skipping this tick")
			return
		}
		defer func() { <-running }()

		log.Info("Scheduled pass starting")
		if err := runOnce(ctx, cfg); err != nil {
			log.Error("Scheduled pass failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", cfg.CronExpr, err)
	}

	log.Info("Watching on schedule %q, press Ctrl+C to stop", cfg.CronExpr)
	scheduler.Start()
	<-ctx.Done()

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	return nil
}
