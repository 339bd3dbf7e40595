package main

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edwinsyarief/archecs"
)

type position struct {
	X, Y, Z float64
}

type velocity struct {
	X, Y, Z float64
}

type team struct {
	ID uint8
}

// newInsertCommand runs repeated rounds of bulk insert, component
// mutation via a read-modify-write pass, and delete, all under a
// memory-allocation profiler.
func newInsertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "insert",
		Short: "Profile bulk insert, mutation, and delete of position/velocity entities",
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.NewString()
			entities := viper.GetInt("entities")
			rounds := viper.GetInt("rounds")
			seed := viper.GetInt64("seed")
			dir := viper.GetString("profile-dir")

			log.Info().Str("run_id", runID).Int("entities", entities).Int("rounds", rounds).Msg("starting insert benchmark")

			p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath(dir), profile.NoShutdownHook)
			defer p.Stop()

			runInsertBenchmark(rounds, entities, seed)

			log.Info().Str("run_id", runID).Msg("insert benchmark complete")
			return nil
		},
	}
}

func runInsertBenchmark(rounds, numEntities int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	factory := archecs.NewFactory()

	for round := 0; round < rounds; round++ {
		world := factory.CreateWorld()

		positions := make([]position, numEntities)
		velocities := make([]velocity, numEntities)
		for i := range positions {
			positions[i] = position{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
			velocities[i] = velocity{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
		}

		source := archecs.NewSource2(positions, velocities)
		entities := world.Insert(archecs.Tag1[team]{A: team{ID: uint8(round % 4)}}, &source)

		for _, e := range entities {
			pos, release, ok := archecs.GetComponentMut[position](world, e)
			if !ok {
				continue
			}
			vel, releaseVel, ok := archecs.GetComponent[velocity](world, e)
			if ok {
				pos.X += vel.X
				pos.Y += vel.Y
				pos.Z += vel.Z
				releaseVel()
			}
			release()
		}

		for _, e := range entities {
			world.Delete(e)
		}
	}
}
