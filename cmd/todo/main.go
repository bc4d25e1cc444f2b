package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"todo/internal/config"
	"todo/internal/storage"
	"todo/internal/ui"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Task lists in the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/todo/config.toml)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", os.Getenv("DEBUG") != "", "write a debug log")

	cmd.AddCommand(listsCmd(opts))
	return cmd
}

func (o *rootOptions) load() (config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) open() (config.Config, *storage.Store, error) {
	cfg, err := o.load()
	if err != nil {
		return config.Config{}, nil, err
	}
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, store, nil
}

func runTUI(opts *rootOptions) error {
	cfg, store, err := opts.open()
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.debug {
		f, err := tea.LogToFile(cfg.LogPath, "todo")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	if err := ui.Run(store, cfg); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
