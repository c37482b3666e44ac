package main

import (
	"fmt"
	"io"

	"seqgen/internal/buildpipeline"
	"seqgen/internal/driver"
)

var reportedStages = []buildpipeline.Stage{
	buildpipeline.StageLex,
	buildpipeline.StageTree,
	buildpipeline.StageExpand,
	buildpipeline.StageRender,
	buildpipeline.StageCache,
}

// printStageTimings prints stage totals over all results plus the cache
// hit count.
func printStageTimings(out io.Writer, results []driver.ExpandResult) {
	if out == nil {
		return
	}
	var total buildpipeline.Timings
	cached := 0
	for i := range results {
		if results[i].Cached {
			cached++
		}
		total.Merge(results[i].Timings)
	}
	for _, stage := range reportedStages {
		if total.Has(stage) {
			fmt.Fprintf(out, "%-8s %.1f ms\n", stage, toMillis(total.Duration(stage)))
		}
	}
	fmt.Fprintf(out, "cached   %d/%d\n", cached, len(results))
}
