package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/wardroom/internal/app"
	"github.com/zulandar/wardroom/internal/config"
	"github.com/zulandar/wardroom/internal/db"
)

const defaultConfigPath = "wardroom.yaml"

// openApp loads the config at configPath and builds the engines for a
// one-shot command. Replies and transitions that fell due while no process
// was running are applied before the command sees any state.
func openApp(configPath string) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a, err := app.New(cfg, app.Options{})
	if err != nil {
		return nil, err
	}
	a.Loop.RunDue()
	return a, nil
}

// settle runs the scheduler until nothing is pending or timeout passes,
// so simulated replies and transitions land before the process exits.
func settle(a *app.App, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	go a.Loop.Run(ctx)
	if err := a.Loop.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for scheduled work: %w", err)
	}
	return nil
}

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Snapshot database commands",
	}

	cmd.AddCommand(newDBInitCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize snapshot storage",
		Long:  "Creates the snapshots table (sqlite, mysql) or directory (file) and writes seed data for every engine.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fmt.Fprintf(out, "Loaded config from %s (storage: %s)\n", configPath, cfg.Storage.Driver)

	a, err := app.New(cfg, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	switch cfg.Storage.Driver {
	case "sqlite", "mysql":
		fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))
	case "file":
		fmt.Fprintf(out, "Snapshot directory %s ready\n", cfg.Storage.Path)
	}

	a.Checkpoint()
	if errs := a.PersistErrors(); len(errs) > 0 {
		for slot, err := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", slot, err)
		}
		return fmt.Errorf("write snapshots: %d slot(s) failed", len(errs))
	}
	fmt.Fprintln(out, "Wrote snapshots for messaging, notes, requests and announcements")
	return nil
}
