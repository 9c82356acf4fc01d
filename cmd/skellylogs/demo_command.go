package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"skellylogs/internal/config"
	"skellylogs/internal/logging"
	"skellylogs/internal/relayq"
	"skellylogs/internal/severity"
)

type demoOptions struct {
	count     int
	producers int
	workers   int
	recent    int
	json      bool
	metrics   bool
}

func newDemoCommand(ctx *commandContext) *cobra.Command {
	var opts demoOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Drive every sink from goroutines and worker processes",
		Long: "Configure the pipeline from the loaded configuration, emit one event per severity, " +
			"run concurrent producers and optional worker processes, then drain the relay queue.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runDemo(cmd, ctx, *cfg, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 5, "Events per producer and per worker")
	cmd.Flags().IntVarP(&opts.producers, "producers", "p", 4, "Concurrent producer goroutines")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Worker processes forwarding over a relay pipe")
	cmd.Flags().IntVar(&opts.recent, "recent", 5, "Show this many of the most recent WARNING and above events")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print drained relay records as JSON lines")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", true, "Print pipeline counters when done")
	return cmd
}

func runDemo(cmd *cobra.Command, ctx *commandContext, cfg config.Config, opts demoOptions) error {
	cfg.Queue.Enabled = true
	if opts.workers > 0 {
		// Workers append to the parent's file.
		path, err := cfg.LogFilePath(time.Now())
		if err != nil {
			return err
		}
		cfg.File.Path = path
		cfg.File.ProcessLock = true
	}

	recent := logging.NewRecentSink(max(opts.recent, 1), severity.Warning)
	ok, err := logging.Setup(ctx.pipeline, &cfg, logging.SetupOptions{
		Manager: ctx.manager,
		Console: cmd.ErrOrStderr(),
		Sinks:   []logging.Sink{recent},
	})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	if !ok {
		return errors.New("configure logging: relay queue is not available in this process")
	}
	queue, err := ctx.manager.Queue()
	if err != nil {
		return err
	}

	log := ctx.pipeline.Logger("skellylogs.demo")
	emitEveryLevel(log)

	group, groupCtx := errgroup.WithContext(cmd.Context())
	for i := range opts.producers {
		producer := log.Named("producer." + strconv.Itoa(i))
		group.Go(func() error {
			runProducer(producer, i, opts.count)
			return nil
		})
	}
	stats := make([]relayq.PumpStats, opts.workers)
	for i := range opts.workers {
		group.Go(func() error {
			s, err := runWorkerProcess(groupCtx, ctx, queue, cfg.File.Path, i, opts.count)
			stats[i] = s
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	log.Success("demo finished with %d producers and %d workers", opts.producers, opts.workers)

	records := queue.Drain(0)
	out := cmd.OutOrStdout()
	if opts.json {
		for _, rec := range records {
			data, err := rec.Encode()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		}
	}

	var forwarded, dropped, malformed int
	for _, s := range stats {
		forwarded += s.Forwarded
		dropped += s.Dropped
		malformed += s.Malformed
	}
	fmt.Fprintf(out, "Drained %d relay records (%d forwarded by workers, %d dropped, %d malformed)\n",
		len(records), forwarded, dropped, malformed)
	if fileSink := findFileSink(ctx.pipeline); fileSink != nil {
		fmt.Fprintf(out, "Log file: %s\n", fileSink.Path())
	}
	if opts.recent > 0 {
		printRecent(out, recent, opts.recent)
	}
	if opts.metrics {
		if err := printMetrics(out, ctx.pipeline); err != nil {
			return err
		}
	}
	return nil
}

func emitEveryLevel(log *logging.Logger) {
	log.Loop("loop tick %d", 1)
	log.Trace("tracing the demo")
	log.Debug("debug detail %q", "value")
	log.Info("pipeline configured")
	log.Success("sinks attached")
	log.API("api call %s", "GET /demo")
	log.Warn("this is a warning")
	log.Error("this is an error")
	log.Critical("this is critical")
	log.Exception(fmt.Errorf("demo failure: %w", os.ErrNotExist), "caught an exception")
}

func runProducer(log *logging.Logger, id, count int) {
	sl := logging.NewSlogLogger(log).With("producer", id)
	lr := logging.NewLogr(log)
	for i := range count {
		switch i % 3 {
		case 0:
			log.Info("producer %d event %d", id, i)
		case 1:
			sl.Info("slog event", slog.Int("seq", i))
		default:
			lr.V(1).Info("logr event", "seq", i)
		}
	}
}

func runWorkerProcess(ctx context.Context, cmdCtx *commandContext, queue *relayq.Queue, logPath string, id, count int) (relayq.PumpStats, error) {
	exe, err := os.Executable()
	if err != nil {
		return relayq.PumpStats{}, fmt.Errorf("locate executable: %w", err)
	}
	reader, writer, err := os.Pipe()
	if err != nil {
		return relayq.PumpStats{}, fmt.Errorf("create relay pipe: %w", err)
	}
	defer reader.Close()

	args := []string{"worker", "--count", strconv.Itoa(count)}
	if flag := cmdCtx.configFlagValue(); flag != "" {
		args = append(args, "--config", flag)
	}
	child := exec.CommandContext(ctx, exe, args...)
	child.Env = append(os.Environ(), relayq.WorkerEnv(queue)...)
	child.Env = append(child.Env,
		config.EnvLogFile+"="+logPath,
		logging.EnvProcessName+"=Worker-"+strconv.Itoa(id),
	)
	child.ExtraFiles = []*os.File{writer}
	child.Stderr = os.Stderr
	if err := child.Start(); err != nil {
		writer.Close()
		return relayq.PumpStats{}, fmt.Errorf("start worker %d: %w", id, err)
	}
	writer.Close()

	stats, pumpErr := relayq.Pump(ctx, reader, queue)
	if pumpErr != nil {
		// The worker blocks on a full pipe until it is read to EOF.
		_, _ = io.Copy(io.Discard, reader)
	}
	if err := child.Wait(); err != nil {
		return stats, fmt.Errorf("worker %d: %w", id, err)
	}
	return stats, pumpErr
}

func findFileSink(p *logging.Pipeline) *logging.FileSink {
	for _, sink := range p.Sinks() {
		if fs, ok := sink.(*logging.FileSink); ok {
			return fs
		}
	}
	return nil
}

func printRecent(out io.Writer, recent *logging.RecentSink, limit int) {
	entries, _ := recent.Tail(limit)
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			strconv.FormatUint(entry.Seq, 10),
			entry.Record.LevelName,
			entry.Record.ProcessName,
			entry.Record.Name,
			entry.Record.Message,
		})
	}
	fmt.Fprintln(out, renderTable(
		"Recent warnings",
		append([]column{num("Seq")}, cols("Level", "Process", "Source", "Message")...),
		rows,
	))
}

func printMetrics(out io.Writer, p *logging.Pipeline) error {
	families, err := p.Registry().Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var rows [][]string
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				labels = append(labels, pair.GetName()+"="+pair.GetValue())
			}
			sort.Strings(labels)
			rows = append(rows, []string{
				family.GetName(),
				strings.Join(labels, ","),
				strconv.FormatFloat(metric.GetCounter().GetValue(), 'f', -1, 64),
			})
		}
	}
	fmt.Fprintln(out, renderTable(
		"Pipeline counters",
		append(cols("Metric", "Labels"), num("Value")),
		rows,
	))
	return nil
}
