package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edwinsyarief/archecs"
)

// newDefragCommand drives archecs.World.Defrag over a deliberately
// fragmented World under CPU and heap profiling: insert, delete every
// other entity to punch holes across chunks, then run bounded Defrag
// passes to completion.
func newDefragCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "defrag",
		Short: "Profile incremental defragmentation of a fragmented World",
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.NewString()
			entities := viper.GetInt("entities")
			rounds := viper.GetInt("rounds")

			log.Info().Str("run_id", runID).Int("entities", entities).Int("rounds", rounds).Msg("starting defrag benchmark")

			cpuFile, err := os.Create("archbench-defrag-cpu.prof")
			if err != nil {
				return err
			}
			defer cpuFile.Close()
			if err := pprof.StartCPUProfile(cpuFile); err != nil {
				return err
			}
			defer pprof.StopCPUProfile()

			runDefragBenchmark(rounds, entities)

			memFile, err := os.Create("archbench-defrag-mem.prof")
			if err != nil {
				return err
			}
			defer memFile.Close()
			runtime.GC()
			if err := pprof.WriteHeapProfile(memFile); err != nil {
				return err
			}

			log.Info().Str("run_id", runID).Msg("defrag benchmark complete")
			return nil
		},
	}
}

type tick struct {
	N int64
}

func runDefragBenchmark(rounds, numEntities int) {
	factory := archecs.NewFactory()

	for round := 0; round < rounds; round++ {
		world := factory.CreateWorld()

		ticks := make([]tick, numEntities)
		source := archecs.NewSource1(ticks)
		entities := world.Insert(archecs.NoTags{}, &source)

		for i, e := range entities {
			if i%2 == 0 {
				world.Delete(e)
			}
		}

		for !world.Defrag(1024, nil) {
		}
	}
}
