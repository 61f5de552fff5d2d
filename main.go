package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/giygas/immunization-calendar/calendar"
	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/config"
	"github.com/giygas/immunization-calendar/data"
	"github.com/giygas/immunization-calendar/logging"
	"github.com/giygas/immunization-calendar/scheduler"
	"github.com/giygas/immunization-calendar/server"
	"github.com/giygas/immunization-calendar/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "immunization-calendar",
		Short:         "Immunization calendar plan engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadEnvFile()
			return nil
		},
	}
	rootCmd.AddCommand(newServeCmd(), newPlansCmd())
	return rootCmd
}

// loadEnvFile reads .env from the working directory, then from the executable's directory
func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		return
	}

	ex, err := os.Executable()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(filepath.Dir(ex), ".env"))
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logging.InitLoggerWithOptions(logging.Options{
		LogDir:         cfg.LogDir,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer logging.Close()

	composerCfg, err := cfg.ComposerConfig()
	if err != nil {
		logging.Error("Invalid composer configuration", "error", err)
		return err
	}

	dataContainer := data.NewDataContainer()

	sched := scheduler.NewScheduler(
		dataContainer,
		catalog.FixtureLoader{},
		validation.NewDataValidator(),
		composerCfg,
		cfg.SnapshotInterval(),
	)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		return err
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, dataContainer)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		if err != nil {
			logging.Error("Server failed to start", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Print the composed base schemes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			composerCfg, err := cfg.ComposerConfig()
			if err != nil {
				return err
			}

			logging.InitLoggerWithOptions(logging.Options{Level: "warn", Console: cmd.ErrOrStderr()})

			src, err := catalog.FixtureLoader{}.LoadCatalog()
			if err != nil {
				return err
			}
			p, err := calendar.NewProvider(src, composerCfg)
			if err != nil {
				return fmt.Errorf("composing schemes: %w", err)
			}
			printPlans(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func printPlans(w io.Writer, p *calendar.Provider) {
	for _, s := range p.Schemes() {
		fmt.Fprintf(w, "[%d] %s\n", s.ID, s.Name)

		diseases := make([]string, 0, len(s.Diseases()))
		for _, d := range s.Diseases() {
			diseases = append(diseases, d.Name)
		}
		vaccines := make([]string, 0, len(s.Vaccines()))
		for _, v := range s.Vaccines() {
			vaccines = append(vaccines, v.Name)
		}

		fmt.Fprintf(w, "  diseases: %s\n", joinOrNone(diseases))
		fmt.Fprintf(w, "  vaccines: %s\n", joinOrNone(vaccines))
	}
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
