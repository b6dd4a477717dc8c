package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/processhub-backend/internal/app"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "processhub",
		Short:         "Process catalog and execution API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newServeCommand(), newMigrateCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, log)
			if err != nil {
				log.Error("App init failed", "error", err)
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return a.Run(gctx)
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info("Shutting down...")
				return nil
			})
			runErr := g.Wait()

			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.Close(closeCtx)

			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				log.Error("Server exited", "error", runErr)
				return runErr
			}
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			return app.Migrate(log)
		},
	}
}
