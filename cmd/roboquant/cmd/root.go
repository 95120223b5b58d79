package cmd

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/roboquant/config"
)

type rootOptions struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
}

// NewRootCmd assembles the roboquant command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "roboquant",
		Short: "Multi-currency trading toolkit: assets, money, calendars and journals",
		Long: `Roboquant works with the building blocks of a trading system.

It provides tools for:
  - Valuing positions in stocks, options, futures, forex and crypto
  - Converting multi-currency amounts with configured exchange rates
  - Inspecting exchange trading calendars and sessions
  - Splitting timeframes for walk-forward and train/test runs
  - Sizing trades by risk and checking them against a policy
  - Replaying and querying trade journals (CSV or SQLite)`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	root.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newValueCmd(opts),
		newConvertCmd(opts),
		newExchangesCmd(),
		newCalendarCmd(),
		newTimeframeCmd(),
		newJournalCmd(opts),
		newReplayCmd(opts),
		newSizeCmd(opts),
	)
	return root
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) load() error {
	cfg := config.Default()
	if o.cfgFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(o.cfgFile); err != nil {
			return err
		}
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	setupLogging(cfg.Log, os.Stderr)

	if err := cfg.Apply(); err != nil {
		return err
	}
	o.cfg = cfg
	log.Debug().Str("config", o.cfgFile).Str("base", cfg.Account.BaseCurrency).Msg("config loaded")
	return nil
}

func setupLogging(lc config.LogConfig, out io.Writer) {
	level, err := zerolog.ParseLevel(strings.ToLower(lc.Level))
	if err != nil || lc.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if lc.Format == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"})
}
