// Package cmd implements the CLI described in §6. Grounded on the
// teacher's cmd/cmd.go "commander" pattern: a struct embedding
// *cobra.Command plus injectable Streams so tests never spoof os.Exit.
// The teacher's CLI has subcommands built for a distributed multi-process
// deployment (crawl/fetch/dispatch/seed/console/readlink/schema); since
// this spec's non-goals exclude distributed coordination, the surface
// collapses to the single root command in §6 while keeping the
// commander/Streams shape.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rpalermodrums/distributed-web-crawler/config"
	"github.com/rpalermodrums/distributed-web-crawler/crawler"
)

// Streams lets tests observe CLI output/exit behavior without touching
// the real os.Exit, matching the teacher's CommanderStreams.
type Streams struct {
	Printf func(format string, args ...interface{})
	Errorf func(format string, args ...interface{})
	Exit   func(code int)
}

func defaultStreams() Streams {
	return Streams{
		Printf: func(format string, args ...interface{}) { fmt.Printf(format, args...) },
		Errorf: func(format string, args ...interface{}) { fmt.Fprintf(os.Stderr, format, args...) },
		Exit:   os.Exit,
	}
}

// commander embeds *cobra.Command with the dependencies the root command
// needs, mirroring the teacher's commander struct.
type commander struct {
	*cobra.Command
	streams Streams
}

var flags struct {
	depth   int
	output  string
	cfgFile string
	resume  bool
}

// New builds the root command described in §6: positional `url`, flags
// --depth/--output/--config/--resume.
func New(streams Streams) *cobra.Command {
	c := &commander{streams: streams}

	root := &cobra.Command{
		Use:   "crawler [url]",
		Short: "AdvancedWebCrawler: a configurable, politeness-aware web crawler",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.run,
	}
	root.Flags().IntVar(&flags.depth, "depth", 2, "max traversal depth")
	root.Flags().StringVar(&flags.output, "output", "output.csv", "sink target path/file")
	root.PersistentFlags().StringVarP(&flags.cfgFile, "config", "c", "", "YAML config file")
	root.Flags().BoolVar(&flags.resume, "resume", false, "resume from the state snapshot file")

	c.Command = root
	return root
}

func (c *commander) run(cmd *cobra.Command, args []string) error {
	// A bootstrap logger for the config-loading phase itself, since the
	// real logger (log_file/log_level) can't be built until Load has
	// produced a Config to read those fields from.
	bootLog := logrus.New()
	cfg, err := config.Load(flags.cfgFile, bootLog)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		cfg.URL = args[0]
	}
	if cmd.Flags().Changed("depth") {
		cfg.Depth = flags.depth
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = flags.output
	}
	cfg.Resume = flags.resume

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}

	eng, err := crawler.New(cfg, log)
	if err != nil {
		return err
	}

	if cfg.Schedule == "" {
		return eng.Run(context.Background())
	}

	// `schedule`: run once a day at the configured wall-clock time,
	// grounded on robfig/cron/v3 rather than a hand-rolled ticker loop
	// (no cron-style library appears anywhere in the retrieval pack).
	// Each scheduled run only logs its error and keeps the daily loop
	// alive; only the one-shot (unscheduled) path propagates the error as
	// a fatal exit, per §6/§7.
	runOnce := func() {
		if err := eng.Run(context.Background()); err != nil {
			c.streams.Errorf("crawl error: %v\n", err)
		}
	}
	spec := fmt.Sprintf("%s * * *", toCronTime(cfg.Schedule))
	sched := cron.New()
	if _, err := sched.AddFunc(spec, runOnce); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}
	sched.Run()
	return nil
}

// toCronTime converts the spec's "HH:MM" into cron's "M H" fields.
func toCronTime(hhmm string) string {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return "0 0"
	}
	return fmt.Sprintf("%d %d", m, h)
}

// Execute runs the root command with default Streams, following the
// teacher's Execute() entry point.
func Execute() {
	root := New(defaultStreams())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
