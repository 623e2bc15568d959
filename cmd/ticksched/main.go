package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"ticksched/internal/job"
	"ticksched/internal/sched"
)

var (
	version = "dev"

	cfgPath    string
	tickMsFlag int
	logLevel   string
)

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05.000"}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func resolveConfig() sched.Config {
	cfg := sched.LoadConfig(cfgPath)
	if tickMsFlag > 0 {
		cfg.TickMS = tickMsFlag
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ticksched",
		Short: "A tiny cooperative, priority-based task scheduler",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.yml")
	root.PersistentFlags().IntVar(&tickMsFlag, "tick-ms", 0, "override the configured tick cadence (ms)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newRunCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler with a demo producer/consumer pair until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := resolveConfig()
			log := newLogger(cfg.LogLevel)

			clock := sched.NewClock(256)
			clock.Start(time.Duration(cfg.TickMS) * time.Millisecond)
			defer clock.Stop()

			s := sched.New(cfg.TaskCapacity, uint8(cfg.TickMS), clock.NowMS())

			elog := sched.NewEventLog(1024)
			s.Attach(elog)

			q := sched.NewNotifyingQueue[int](cfg.QueueCapacity)
			limiter := rate.NewLimiter(rate.Limit(cfg.NotifyRatePerSec), cfg.NotifyRatePerSec)

			counter := 0
			producerLabel := job.Label("producer")
			consumerLabel := job.Label("consumer")

			producerHandle := s.Create(job.Producer(s, q, limiter, uint32(cfg.TickMS)*4, func() int {
				counter++
				return counter
			}), 0, 4)
			consumerHandle := s.Create(job.Consumer(q, func(v int) {
				log.Info().Str("task", consumerLabel).Int("value", v).Msg("consumed")
			}), 0, 6)

			log.Info().
				Str("producer", producerLabel).Uint8("producer_handle", producerHandle).
				Str("consumer", consumerLabel).Uint8("consumer_handle", consumerHandle).
				Msg("scheduler started")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			for {
				select {
				case <-clock.Ticks:
					s.Run(clock.NowMS())
				case <-sigCh:
					log.Info().Int("events", elog.Len()).Msg("shutting down")
					return nil
				}
			}
		},
	}
}

func newInspectCmd() *cobra.Command {
	var ticks int
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Run a handful of demo tasks for a fixed number of ticks and dump final state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := resolveConfig()
			log := newLogger(cfg.LogLevel)

			s := sched.New(cfg.TaskCapacity, uint8(cfg.TickMS), 0)
			elog := sched.NewEventLog(256)
			s.Attach(elog)

			fired := 0
			s.Create(job.Periodic(s, uint32(cfg.TickMS)*2, func() { fired++ }), 0, 5)
			s.Create(job.OneShot(func() { log.Debug().Msg("one-shot ran") }), uint32(cfg.TickMS), 2)

			now := uint32(0)
			for i := 0; i < ticks; i++ {
				now += uint32(cfg.TickMS)
				s.Run(now)
			}

			fmt.Println(spew.Sdump(struct {
				FiredCount int
				Events     []sched.Event
			}{fired, elog.Events()}))
			return nil
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 50, "number of ticks to simulate")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("ticksched " + version)
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
