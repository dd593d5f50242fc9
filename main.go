package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"embliss/config"
	"embliss/debug"
	"embliss/screens"
	"embliss/setstore"
)

var (
	configPath string
	verbose    bool

	cfg *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "embliss",
	Short: "Browse and edit set files from a MIDI controller",
	Long: `embliss drives a two-line MIDI controller display to browse, create,
rename and edit set files, move and copy tracks between sets, and remap banks.

Examples:
  embliss run
  embliss sim
  embliss sets ab
  embliss serve --addr :8080
  embliss clock --bpm 128`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug.SetVerbose(verbose)
		return loadConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/embliss/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(runCmd, simCmd, serveCmd, clockCmd, setsCmd, initCmd)
}

func loadConfig() error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	return cfg.Validate()
}

func newStore() *setstore.Store {
	store := setstore.New(cfg.Sets.Dir, cfg.Sets.Extension, cfg.Sets.MaxVersion)
	if cfg.Sets.DefaultContent != "" {
		store.Template = cfg.Sets.DefaultContent
	}
	return store
}

func newEnv(nav *screens.Navigator, scanner screens.Scanner) *screens.Env {
	return &screens.Env{
		Nav:     nav,
		Store:   newStore(),
		Scanner: scanner,
		UI:      cfg.UI,
	}
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := config.ConfigPath()
			if err != nil {
				return err
			}
			path = p
		}
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("%s already exists", path)
		}
		if err := config.DefaultConfig().SaveFile(path); err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	},
}
