package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fortitude/internal/config"
	"fortitude/internal/embedding"
	"fortitude/internal/executor"
	"fortitude/internal/fsevents"
	"fortitude/internal/gap"
	"fortitude/internal/monitoring"
	"fortitude/internal/priority"
	"fortitude/internal/progress"
	"fortitude/internal/queue"
	"fortitude/internal/scheduler"
	"fortitude/internal/semantic"
	"fortitude/internal/vectorsearch"
)

var configPath string

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a workspace and schedule research tasks for detected gaps",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&configPath, "config", "fortitude.yaml", "Path to the Fortitude config file")
}

// noopSearch is the semantic validator's vector-search collaborator when no
// real knowledge base is configured: every query reports no related
// documents, so validation still runs but never claims prior coverage.
type noopSearch struct{}

func (noopSearch) SearchSimilar(ctx context.Context, query string, opts vectorsearch.SearchOptions) ([]vectorsearch.SearchResult, error) {
	return nil, nil
}

// buildSearch constructs the semantic validator's vector-search
// collaborator: a real sqlite-backed Store when a vector_db_path and a
// GenAI API key are configured, or noopSearch otherwise. The returned
// closer releases the store's database handle, if one was opened.
func buildSearch(cfg *config.Config, monitor *monitoring.Facade) (vectorsearch.SemanticSearchOperations, func(), error) {
	if cfg.Provider.VectorDBPath == "" || cfg.Provider.GenAIAPIKey == "" {
		return noopSearch{}, func() {}, nil
	}

	engine, err := embedding.NewGenAIEngine(cfg.Provider.GenAIAPIKey, cfg.Provider.GenAIModel)
	if err != nil {
		return nil, nil, fmt.Errorf("build embedding engine: %w", err)
	}

	store, err := vectorsearch.Open(cfg.Provider.VectorDBPath, engine)
	if err != nil {
		return nil, nil, fmt.Errorf("open vector store: %w", err)
	}
	store.WithRecorder(monitor.Component("vectorsearch"))

	return store, func() { _ = store.Close() }, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := resolveWorkspace()
	if err != nil {
		return fmt.Errorf("fortitude: resolve workspace: %w", err)
	}
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("fortitude: load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("fortitude: invalid config: %w", err)
	}

	monitor := monitoring.NewFacade(monitoring.DefaultThresholds())

	search, closeSearch, err := buildSearch(cfg, monitor)
	if err != nil {
		return fmt.Errorf("fortitude: build vector search: %w", err)
	}
	defer closeSearch()

	analyzer := gap.NewAnalyzer(cfg.Gap.ToGapConfig()).WithRecorder(monitor.Component("gap"))
	validator := semantic.New(search, cfg.Semantic.ToSemanticConfig())

	schedulerCfg, err := cfg.Scheduler.ToSchedulerConfig()
	if err != nil {
		return err
	}

	q := queue.New(cfg.Queue.MaxSize)
	sched, err := scheduler.New(schedulerCfg, analyzer, validator, priority.DefaultScorer{}, q, scheduler.GopsutilSampler{})
	if err != nil {
		return fmt.Errorf("fortitude: build scheduler: %w", err)
	}
	sched.WithRecorder(monitor.Component("scheduler"))

	tracker := progress.New(cfg.Progress.ToProgressConfig())
	tracker.Start()
	defer tracker.Stop()

	provider, err := cfg.Provider.ToProvider()
	if err != nil {
		return fmt.Errorf("fortitude: build provider: %w", err)
	}
	exec := executor.New(cfg.Executor.ToExecutorConfig(), q, tracker, provider).WithRecorder(monitor.Component("executor"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("fortitude: start scheduler: %w", err)
	}
	defer sched.Stop()

	watcher, err := fsevents.New(fsevents.DefaultConfig(), sched.HandleFileEvent)
	if err != nil {
		return fmt.Errorf("fortitude: build watcher: %w", err)
	}
	if err := watcher.AddRoot(root); err != nil {
		return fmt.Errorf("fortitude: watch %s: %w", root, err)
	}
	watcher.Start(ctx)
	defer watcher.Stop()

	events, unsubscribe := tracker.Subscribe()
	defer unsubscribe()

	go func() {
		if err := exec.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "fortitude: executor stopped: %v\n", err)
		}
	}()

	fmt.Printf("fortitude: watching %s (press ctrl-c to stop)\n", root)
	for {
		select {
		case <-ctx.Done():
			printHealthReport(monitor)
			return nil
		case ev, ok := <-events:
			if !ok {
				printHealthReport(monitor)
				return nil
			}
			printEvent(ev)
		}
	}
}

func printHealthReport(monitor *monitoring.Facade) {
	for name, report := range monitor.Report() {
		fmt.Printf("fortitude: component=%s health=%s ops=%d failed=%d avg_latency=%s\n",
			name, report.Health.State, report.Metrics.Total, report.Metrics.Failed, report.Metrics.AverageLatency)
	}
}

func printEvent(ev progress.Event) {
	fmt.Printf("[%s] %s task=%s step=%s %.0f%%\n",
		nowRFC3339(), ev.Type, ev.TaskID, ev.StepName, ev.ProgressPercent)
}
