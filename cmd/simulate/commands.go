package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/phoenix/internal/config"
	"github.com/cory-johannsen/phoenix/internal/game/anomaly"
	"github.com/cory-johannsen/phoenix/internal/game/battle"
	"github.com/cory-johannsen/phoenix/internal/game/character"
	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/game/region"
	"github.com/cory-johannsen/phoenix/internal/observability"
	"github.com/cory-johannsen/phoenix/internal/scripting"
	"github.com/cory-johannsen/phoenix/internal/simulate"
)

// options are the flags shared by every subcommand.
type options struct {
	seed       uint64
	catalogDir string
	scriptDir  string
	logLevel   string
}

func (o *options) source(logger *zap.Logger) *dice.Roller {
	var src dice.Source = dice.NewCryptoSource()
	if o.seed != 0 {
		src = dice.NewSeededSource(o.seed)
	}
	return dice.NewLoggedRoller(src, logger)
}

func (o *options) catalog() (*anomaly.Catalog, error) {
	if o.catalogDir == "" {
		return anomaly.DefaultCatalog(), nil
	}
	return anomaly.LoadCatalog(o.catalogDir)
}

func (o *options) logger() (*zap.Logger, error) {
	return observability.NewLogger(config.LoggingConfig{Level: o.logLevel, Format: "console"}, "simulate")
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "simulate",
		Short:         "Play unattended battles against generated anomalies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 = crypto random)")
	root.PersistentFlags().StringVar(&opts.catalogDir, "catalog", "", "anomaly catalog directory (empty = built-in)")
	root.PersistentFlags().StringVar(&opts.scriptDir, "scripts", "", "behaviour script directory (empty = always attack)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newBattleCmd(opts), newAnomalyCmd(opts))
	return root
}

func newBattleCmd(opts *options) *cobra.Command {
	var (
		class    string
		level    int
		where    string
		battles  int
		maxTurns int
	)
	cmd := &cobra.Command{
		Use:   "battle",
		Short: "Fight many battles and report the win rate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := character.ParseClass(class)
			if err != nil {
				return err
			}
			rt, err := region.ParseType(where)
			if err != nil {
				return err
			}
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			defer observability.Sync(logger) //nolint:errcheck

			catalog, err := opts.catalog()
			if err != nil {
				return err
			}
			roller := opts.source(logger)

			var behaviour battle.Behaviour
			if opts.scriptDir != "" {
				mgr := scripting.NewManager(roller, logger)
				defer mgr.Close()
				if _, err := mgr.LoadDir(opts.scriptDir, 0); err != nil {
					return err
				}
				behaviour = mgr
			}

			sim := simulate.New(
				anomaly.NewGenerator(catalog, roller),
				battle.NewController(roller, battle.ControllerConfig{MaxTurns: maxTurns}, logger),
				battle.NewAnomalyAI(behaviour, logger),
				roller,
				logger,
			)
			rep, err := sim.Run(cmd.Context(), simulate.Config{Class: c, Level: level, Region: rt, Battles: battles})
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	cmd.Flags().StringVar(&class, "class", string(character.Knight), "character class")
	cmd.Flags().IntVar(&level, "level", 1, "character level")
	cmd.Flags().StringVar(&where, "region", string(region.Forest), "region type")
	cmd.Flags().IntVarP(&battles, "count", "n", 100, "number of battles")
	cmd.Flags().IntVar(&maxTurns, "max-turns", 1000, "rounds after which a battle is aborted")
	return cmd
}

func newAnomalyCmd(opts *options) *cobra.Command {
	var (
		level int
		where string
		count int
	)
	cmd := &cobra.Command{
		Use:   "anomaly",
		Short: "Generate anomalies and print their stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := region.ParseType(where)
			if err != nil {
				return err
			}
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			catalog, err := opts.catalog()
			if err != nil {
				return err
			}
			gen := anomaly.NewGenerator(catalog, opts.source(logger))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLEVEL\tHEALTH\tMANA\tSTR\tAGI\tINT\tREWARDS")
			for i := 0; i < count; i++ {
				a, err := gen.Generate(level, rt)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d xp, %d gold\n",
					a.Name(), a.Level, a.Health.Max, a.Mana.Max, a.Strength, a.Agility, a.Intelligence,
					a.Rewards.XP, a.Rewards.Gold)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&level, "level", 1, "player level")
	cmd.Flags().StringVar(&where, "region", string(region.Forest), "region type")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of anomalies")
	return cmd
}

func printReport(out io.Writer, rep simulate.Report) {
	fmt.Fprintf(out, "%s level %d in %s: %d battles\n",
		rep.Config.Class, rep.Config.Level, rep.Config.Region, rep.Config.Battles)
	fmt.Fprintf(out, "won %d, lost %d, aborted %d (win rate %.1f%%)\n",
		rep.Wins, rep.Losses, rep.Aborted, rep.WinRate()*100)
	fmt.Fprintf(out, "rounds: avg %.1f, min %d, max %d\n", rep.AverageRounds(), rep.MinRounds, rep.MaxRounds)
	fmt.Fprintf(out, "rewards: %d xp, %d gold\n", rep.Rewards.XP, rep.Rewards.Gold)

	types := make([]string, 0, len(rep.ByType))
	for t := range rep.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ANOMALY\tENCOUNTERS\tWINS")
	for _, t := range types {
		s := rep.ByType[anomaly.Type(t)]
		fmt.Fprintf(w, "%s\t%d\t%d\n", t, s.Encounters, s.Wins)
	}
	w.Flush() //nolint:errcheck
}
