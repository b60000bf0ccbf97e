package protocolservices

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
)

// SampleRateStats summarises the sample rates of all checked protocols.
type SampleRateStats struct {
	Mean   float64
	Median float64
}

// CheckSampleRates computes the samples per second of every stored protocol
// and flags those outside window. Protocols with a non-positive duration are
// always flagged.
func (s *ProtocolService) CheckSampleRates(ctx context.Context, window protocolmodels.SampleRateWindow) ([]protocolmodels.SampleRateReport, SampleRateStats, error) {
	if window.Expected <= 0 || window.Tolerance < 0 {
		return nil, SampleRateStats{}, fmt.Errorf("ProtocolService.CheckSampleRates: invalid window %+v", window)
	}

	summaries, err := s.List(ctx)
	if err != nil {
		return nil, SampleRateStats{}, err
	}

	var reports []protocolmodels.SampleRateReport
	var rates []float64
	for _, summary := range summaries {
		p, err := s.LoadMeta(ctx, summary.ID)
		if err != nil {
			return nil, SampleRateStats{}, err
		}

		count, err := s.SampleCount(ctx, p)
		if err != nil {
			return nil, SampleRateStats{}, err
		}

		report := protocolmodels.SampleRateReport{
			Summary:     summary,
			SampleCount: count,
			Duration:    p.Duration(),
		}

		rate, err := p.SamplesPerSecond(count)
		if err != nil {
			report.Problem = true
		} else {
			report.SamplesPerSecond = rate
			report.Problem = !window.Contains(rate)
			rates = append(rates, rate)
		}

		reports = append(reports, report)
	}

	var summary SampleRateStats
	if len(rates) > 0 {
		summary.Mean, _ = stats.Mean(rates)
		summary.Median, _ = stats.Median(rates)
	}

	return reports, summary, nil
}

// ListProblems returns only the reports flagged by CheckSampleRates.
func (s *ProtocolService) ListProblems(ctx context.Context, window protocolmodels.SampleRateWindow) ([]protocolmodels.SampleRateReport, error) {
	reports, _, err := s.CheckSampleRates(ctx, window)
	if err != nil {
		return nil, err
	}

	var problems []protocolmodels.SampleRateReport
	for _, r := range reports {
		if r.Problem {
			problems = append(problems, r)
		}
	}

	return problems, nil
}
