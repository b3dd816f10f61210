// Package config loads the prefetcher's tunable constants: the table
// sizes and retune thresholds that spec.md §6 fixes as compile-time
// constants in the original, exposed here as overridable defaults so
// cmd/prefetchsim can parameterize experiments without touching code.
package config

import (
	"math/rand"
	"os"
	"strconv"

	"github.com/SupurCalvinHiggins/l1dprefetcher/internal/stream"
	"github.com/SupurCalvinHiggins/l1dprefetcher/prefetcher"
)

// Tuning bundles every constant spec.md §6 lists, at the defaults the
// source observes. Each field can be overridden by the PREF_-prefixed
// environment variable in its env tag (see FromEnv). cmd/prefetchsim
// defines flags only for NumCandidates, NumStreams and IQCapacity; the
// other flag tags have no matching flag.
type Tuning struct {
	NumCandidates int `env:"PREF_N_CANDIDATES" flag:"n-candidates"`
	NumStreams    int `env:"PREF_N_STREAMS" flag:"n-streams"`
	IQCapacity    int `env:"PREF_IQ_CAPACITY" flag:"iq-capacity"`

	TimelinessBoostThreshold float64 `env:"PREF_TIMELINESS_BOOST_THRESHOLD" flag:"timeliness-boost-threshold"`
	AccuracyBoostThreshold   float64 `env:"PREF_ACCURACY_BOOST_THRESHOLD" flag:"accuracy-boost-threshold"`
	AccuracyThrottleThreshold float64 `env:"PREF_ACCURACY_THROTTLE_THRESHOLD" flag:"accuracy-throttle-threshold"`
	AccessPeriodMax          int     `env:"PREF_ACCESS_PERIOD_MAX" flag:"access-period-max"`

	BlockSizeLog2 int `env:"PREF_BLOCK_SIZE_LOG2" flag:"block-size-log2"`
}

// Default returns the tuning constants spec.md §6 lists as the defaults
// observed in the source.
func Default() Tuning {
	return Tuning{
		NumCandidates: 32,
		NumStreams:    32,
		IQCapacity:    512,

		TimelinessBoostThreshold:  0.40,
		AccuracyBoostThreshold:    0.80,
		AccuracyThrottleThreshold: 0.40,
		AccessPeriodMax:           511,

		BlockSizeLog2: 6,
	}
}

// PrefetcherConfig projects Tuning onto prefetcher.Config, seeding the
// candidate table's random eviction source from seed (spec.md §9
// "Randomized eviction" — any deterministic PRNG suffices).
func (t Tuning) PrefetcherConfig(seed int64) prefetcher.Config {
	return prefetcher.Config{
		NumCandidates: t.NumCandidates,
		NumStreams:    t.NumStreams,
		IQCapacity:    t.IQCapacity,
		Tuning:        t.StreamTuning(),
		Rand:          rand.New(rand.NewSource(seed)),
	}
}

// StreamTuning projects the retune thresholds onto internal/stream.Tuning.
func (t Tuning) StreamTuning() stream.Tuning {
	return stream.Tuning{
		TimelinessBoostThreshold: t.TimelinessBoostThreshold,
		AccuracyBoostThreshold:   t.AccuracyBoostThreshold,
		AccuracyThrottleThresh:   t.AccuracyThrottleThreshold,
		AccessPeriodMax:          t.AccessPeriodMax,
	}
}

// FromEnv returns Default with every field that has a matching
// PREF_-prefixed environment variable set overridden by its parsed value.
// A malformed environment variable is ignored and the default is kept.
func FromEnv() Tuning {
	t := Default()

	if v, ok := lookupInt("PREF_N_CANDIDATES"); ok {
		t.NumCandidates = v
	}
	if v, ok := lookupInt("PREF_N_STREAMS"); ok {
		t.NumStreams = v
	}
	if v, ok := lookupInt("PREF_IQ_CAPACITY"); ok {
		t.IQCapacity = v
	}
	if v, ok := lookupFloat("PREF_TIMELINESS_BOOST_THRESHOLD"); ok {
		t.TimelinessBoostThreshold = v
	}
	if v, ok := lookupFloat("PREF_ACCURACY_BOOST_THRESHOLD"); ok {
		t.AccuracyBoostThreshold = v
	}
	if v, ok := lookupFloat("PREF_ACCURACY_THROTTLE_THRESHOLD"); ok {
		t.AccuracyThrottleThreshold = v
	}
	if v, ok := lookupInt("PREF_ACCESS_PERIOD_MAX"); ok {
		t.AccessPeriodMax = v
	}
	if v, ok := lookupInt("PREF_BLOCK_SIZE_LOG2"); ok {
		t.BlockSizeLog2 = v
	}

	return t
}

func lookupInt(name string) (int, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return v, true
}

func lookupFloat(name string) (float64, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
