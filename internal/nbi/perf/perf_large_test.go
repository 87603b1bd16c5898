//go:build perf_large

package perf

import "testing"

var largeConfig = perfConfig{
	Launches:    2000,
	SampleStepS: 1.0 / 60,
	MaxSessions: 4096,
}

func BenchmarkLaunchLarge(b *testing.B) {
	benchmarkLaunches(b, largeConfig)
}

func BenchmarkPlaybackLarge(b *testing.B) {
	benchmarkPlayback(b, largeConfig)
}
