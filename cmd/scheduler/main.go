package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/ereshiii/pet-connect/internal/app"
	"github.com/ereshiii/pet-connect/internal/config"
	dbpkg "github.com/ereshiii/pet-connect/internal/db"
	"github.com/ereshiii/pet-connect/internal/usecase/jobs"
)

func main() {
	var dryRun bool

	rootCmd := &cobra.Command{
		Use:          "scheduler",
		Short:        "PetConnect appointment batch jobs",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "report planned changes without writing or notifying")

	for _, name := range jobs.Names() {
		rootCmd.AddCommand(jobCmd(name, &dryRun))
	}
	rootCmd.AddCommand(runCmd(&dryRun))
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var jobDescriptions = map[string]string{
	jobs.CheckClosures:     "Reschedule today's appointments of clinics closed today",
	jobs.StartAppointments: "Move scheduled appointments that reached their start to in_progress",
	jobs.UpdateOverdue:     "Close appointments left open past their start",
	jobs.NotifyOverdue:     "Notify clinics about confirmed or started visits a day past their start",
	jobs.SendReminders:     "Send 24h and 1h reminders to owners",
}

func jobCmd(name string, dryRun *bool) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: jobDescriptions[name],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				res, err := a.Jobs().Run(ctx, name, jobs.Options{DryRun: *dryRun})
				printResult(cmd, res)
				return err
			})
		},
	}
}

func runCmd(dryRun *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run every job on its cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				runner := a.Jobs()
				opts := jobs.Options{DryRun: *dryRun}

				c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
				for name, spec := range a.Config.CronSpecs() {
					name := name
					if _, err := c.AddFunc(spec, func() {
						if _, err := runner.Run(ctx, name, opts); err != nil {
							a.Log.Error().Err(err).Str("job", name).Msg("job failed")
						}
					}); err != nil {
						return fmt.Errorf("schedule %s: %w", name, err)
					}
					a.Log.Info().Str("job", name).Str("spec", spec).Msg("job scheduled")
				}

				c.Start()
				<-ctx.Done()
				a.Log.Info().Msg("stopping scheduler")
				<-c.Stop().Done()
				return nil
			})
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := dbpkg.Migrate(a.DB); err != nil {
					return err
				}
				a.Log.Info().Msg("migrations applied")
				return nil
			})
		},
	}
}

func withApp(parent context.Context, fn func(ctx context.Context, a *app.App) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, "scheduler")
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printResult(cmd *cobra.Command, res jobs.Result) {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	_ = enc.Encode(res)
}
