package protocolmodels

import "time"

// SampleRateReport describes the observed sample rate of one stored protocol.
type SampleRateReport struct {
	Summary          ProtocolSummary
	SampleCount      int
	Duration         time.Duration
	SamplesPerSecond float64
	Problem          bool
}

// SampleRateWindow is the accepted range of samples per second.
type SampleRateWindow struct {
	Expected  float64
	Tolerance float64
}

func (w SampleRateWindow) Min() float64 {
	return w.Expected / (1 + w.Tolerance)
}

func (w SampleRateWindow) Max() float64 {
	return w.Expected * (1 + w.Tolerance)
}

func (w SampleRateWindow) Contains(rate float64) bool {
	return rate >= w.Min() && rate <= w.Max()
}
