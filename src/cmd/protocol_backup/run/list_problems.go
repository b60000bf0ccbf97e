package run

import (
	"context"
	"fmt"
	"io"

	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
)

type ListProblemsArgs struct {
	SamplesPerSecond float64
	Tolerance        float64
}

func RunListProblems(ctx context.Context, env *Env, args ListProblemsArgs, w io.Writer) ([]protocolmodels.SampleRateReport, error) {
	window := protocolmodels.SampleRateWindow{
		Expected:  args.SamplesPerSecond,
		Tolerance: args.Tolerance,
	}

	reports, stats, err := env.Service.CheckSampleRates(ctx, window)
	if err != nil {
		return nil, err
	}

	var problems []protocolmodels.SampleRateReport
	table := newTable(w, "ID", "Name", "Begin", "Duration", "Samples", "Samples/s")
	for _, r := range reports {
		if !r.Problem {
			continue
		}

		problems = append(problems, r)
		table.Append([]string{
			fmt.Sprintf("%d", r.Summary.ID),
			r.Summary.Name,
			formatTime(r.Summary.Begin),
			formatDuration(r.Duration),
			printer.Sprintf("%d", r.SampleCount),
			printer.Sprintf("%.3f", r.SamplesPerSecond),
		})
	}
	table.Render()

	fmt.Fprintf(w, "%d of %d protocols outside [%.3f, %.3f] samples/s (mean %.3f, median %.3f)\n",
		len(problems), len(reports), window.Min(), window.Max(), stats.Mean, stats.Median)

	return problems, nil
}
