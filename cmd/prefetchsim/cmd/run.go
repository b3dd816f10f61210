package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/SupurCalvinHiggins/l1dprefetcher/cmd/prefetchsim/internal/trace"
	"github.com/SupurCalvinHiggins/l1dprefetcher/config"
	"github.com/SupurCalvinHiggins/l1dprefetcher/prefetcher"
	"github.com/SupurCalvinHiggins/l1dprefetcher/telemetry"
)

var (
	runTracePath string
	runDBPath    string
	runMonitor   bool
	runSeed      int64

	runNumCandidates int
	runNumStreams    int
	runIQCapacity    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a prefetcher over an access trace and print a summary.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPrefetchsim(cmd); err != nil {
			log.Fatalf("prefetchsim run: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runTracePath, "trace", "", "path to an access trace (required)")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "sqlite database to persist the run's stats to")
	runCmd.Flags().BoolVar(&runMonitor, "monitor", false, "start the telemetry HTTP server while the run executes")
	runCmd.Flags().Int64Var(&runSeed, "seed", 1, "random seed for candidate-table eviction")
	runCmd.Flags().IntVar(&runNumCandidates, "n-candidates", 0, "candidate table size (defaults to config.Default/PREF_N_CANDIDATES)")
	runCmd.Flags().IntVar(&runNumStreams, "n-streams", 0, "stream table size (defaults to config.Default/PREF_N_STREAMS)")
	runCmd.Flags().IntVar(&runIQCapacity, "iq-capacity", 0, "issue-tracking table capacity (defaults to config.Default/PREF_IQ_CAPACITY)")
	_ = runCmd.MarkFlagRequired("trace")
}

func numAllocatedStreams(core *prefetcher.Prefetcher) int {
	n := 0
	for i := 0; i < core.NumStreamSlots(); i++ {
		if _, ok := core.StreamSnapshot(i); ok {
			n++
		}
	}
	return n
}

func runPrefetchsim(cmd *cobra.Command) error {
	f, err := os.Open(runTracePath)
	if err != nil {
		return err
	}
	defer f.Close()

	accesses, err := trace.Read(f)
	if err != nil {
		return err
	}

	tuning := config.FromEnv()
	if cmd.Flags().Changed("n-candidates") {
		tuning.NumCandidates = runNumCandidates
	}
	if cmd.Flags().Changed("n-streams") {
		tuning.NumStreams = runNumStreams
	}
	if cmd.Flags().Changed("iq-capacity") {
		tuning.IQCapacity = runIQCapacity
	}

	core := prefetcher.New(tuning.PrefetcherConfig(runSeed))
	recorder := telemetry.NewRecorder()

	if runMonitor {
		server := telemetry.NewServer(recorder, 0)
		port, err := server.Start()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "telemetry server listening on http://localhost:%d\n", port)
	}

	var store *telemetry.Store
	if runDBPath != "" {
		store, err = telemetry.OpenStore(runDBPath, recorder)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var issued uint64
	for _, access := range accesses {
		reallocsBefore := core.Reallocations()
		evictionsBefore := core.Evictions()
		streamsBefore := numAllocatedStreams(core)

		lines := core.OnAccess(access.Line, 0, false, 0)
		issued += uint64(len(lines))

		recorder.OnAccess()
		if len(lines) > 0 {
			recorder.OnPrefetchIssued(len(lines))
		}
		if core.Reallocations() > reallocsBefore {
			recorder.OnCandidateReallocated()
		}
		if core.Evictions() > evictionsBefore {
			recorder.OnStreamEvicted()
		}
		if numAllocatedStreams(core) > streamsBefore {
			recorder.OnStreamAllocated()
		}
	}

	snap := recorder.Snapshot()
	fmt.Printf("run %s\n", snap.RunID)
	fmt.Printf("  accesses:              %d\n", snap.Accesses)
	fmt.Printf("  prefetches issued:      %d\n", issued)
	fmt.Printf("  candidate reallocations: %d\n", snap.CandidateRealloc)
	fmt.Printf("  streams evicted:        %d\n", snap.StreamsEvicted)

	if store != nil {
		if err := store.Save(recorder.Snapshot()); err != nil {
			return err
		}
	}

	return nil
}
