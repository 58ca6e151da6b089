package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/captcha"
	"github.com/frahmantamala/hiring-gateway/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background maintenance workers that run outside the HTTP server.`,
}

// Captcha sweep worker command
var captchaSweepCmd = &cobra.Command{
	Use:   "captcha-sweep",
	Short: "Remove expired captcha sessions",
	Long:  `Periodically delete expired captcha sessions from the shared postgres store. Use --once for a single pass.`,
	Run: func(cmd *cobra.Command, args []string) {
		startCaptchaSweeper()
	},
}

var (
	sweepInterval time.Duration
	sweepOnce     bool
)

func startCaptchaSweeper() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if config.Captcha.Store != internal.CaptchaStorePostgres {
		fmt.Fprintln(os.Stderr, "captcha-sweep needs captcha.store=postgres; the memory store is swept by the server itself")
		os.Exit(1)
	}

	logger.Init(config.Environment, config.Logging.Level, config.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := newCaptchaStore(config, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize captcha store: %v\n", err)
		os.Exit(1)
	}
	service := captcha.NewService(store, captcha.Config{TTL: config.Captcha.TTL, MaxAttempts: config.Captcha.MaxAttempts}, log)

	if sweepOnce {
		n, err := service.Sweep(context.Background())
		if err != nil {
			log.Error("captcha sweep failed", "error", err)
			os.Exit(1)
		}
		log.Info("captcha sweep complete", "removed", n)
		return
	}

	interval := sweepInterval
	if interval <= 0 {
		interval = config.Captcha.SweepInterval
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("captcha sweeper is running. Press Ctrl+C to stop.", "interval", interval)
	service.RunSweeper(ctx, interval)
	log.Info("captcha sweeper stopped")
}

func init() {
	captchaSweepCmd.Flags().DurationVar(&sweepInterval, "interval", 0, "Sweep interval (overrides config)")
	captchaSweepCmd.Flags().BoolVar(&sweepOnce, "once", false, "Run a single sweep and exit")

	workerCmd.AddCommand(captchaSweepCmd)

	rootCmd.AddCommand(workerCmd)
}
