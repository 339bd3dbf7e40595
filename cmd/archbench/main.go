// Command archbench drives allocation, mutation, and defragmentation
// workloads against an archecs World under a CPU/memory profiler. It
// is a development tool, not part of the archecs API surface.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	root := &cobra.Command{
		Use:   "archbench",
		Short: "Benchmark and profile archecs storage workloads",
	}

	root.PersistentFlags().Int("entities", 100000, "number of entities to insert per round")
	root.PersistentFlags().Int("rounds", 10, "number of rounds to repeat the workload")
	root.PersistentFlags().Int("chunk-kib", 16, "informational only: archecs' chunk size is fixed at build time")
	root.PersistentFlags().Int64("seed", 1, "seed for synthetic component data")
	root.PersistentFlags().String("profile-dir", ".", "directory profiler output is written to")
	_ = viper.BindPFlags(root.PersistentFlags())
	viper.SetEnvPrefix("archbench")
	viper.AutomaticEnv()

	root.AddCommand(newInsertCommand(), newDefragCommand())

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("archbench failed")
	}
}
