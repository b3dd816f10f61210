package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/SupurCalvinHiggins/l1dprefetcher/telemetry"
)

var statsDBPath string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "List the run stats persisted by previous `run --db` invocations.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStats(); err != nil {
			log.Fatalf("prefetchsim stats: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsDBPath, "db", "", "sqlite database to read run stats from (required)")
	_ = statsCmd.MarkFlagRequired("db")
}

func runStats() error {
	store, err := telemetry.OpenStore(statsDBPath, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	fmt.Printf("%-24s %10s %10s %10s %10s %10s\n",
		"run_id", "accesses", "issued", "streams", "evicted", "reallocs")
	for _, run := range runs {
		fmt.Printf("%-24s %10d %10d %10d %10d %10d\n",
			run.RunID, run.Accesses, run.PrefetchesIssued,
			run.StreamsAllocated, run.StreamsEvicted, run.CandidateRealloc)
	}

	return nil
}
