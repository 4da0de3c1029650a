package drift

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/wI2L/jsondiff"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/pkg/models"
)

// Reporter renders per-fixture drift reports and the session summary.
type Reporter struct {
	logger *zap.Logger
	out    io.Writer
}

func NewReporter(logger *zap.Logger, out io.Writer) *Reporter {
	return &Reporter{
		logger: logger,
		out:    out,
	}
}

// RenderReport prints one fixture's result: added paths prefixed "+",
// removed paths prefixed "-", both sorted by the comparator.
func (r *Reporter) RenderReport(report models.DriftReport) {
	if !report.HasDrift {
		fmt.Fprintf(r.out, "%s %s\n", color.GreenString("ok"), report.Fixture)
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", color.RedString("drift"), report.Fixture)
	for _, p := range report.Added {
		fmt.Fprintln(r.out, color.GreenString("  + %s", p))
	}
	for _, p := range report.Removed {
		fmt.Fprintln(r.out, color.RedString("  - %s", p))
	}
}

// RenderValueDiff prints the value-level JSON Patch between the recorded
// and live bodies, used in verbose mode to show what actually changed.
func (r *Reporter) RenderValueDiff(fixture string, recorded, live []byte) {
	patch, err := jsondiff.CompareJSON(recorded, live)
	if err != nil {
		r.logger.Debug("failed to compute value diff", zap.String("fixture", fixture), zap.Error(err))
		return
	}
	for _, op := range patch {
		fmt.Fprintf(r.out, "    %s %s\n", op.Type, op.Path)
	}
}

// RenderSummary prints the session totals as a table.
func (r *Reporter) RenderSummary(summary *models.DriftSummary) {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"Fixture", "Status", "Added", "Removed"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, res := range summary.Results {
		added, removed := "", ""
		if res.Report != nil {
			added = fmt.Sprintf("%d", len(res.Report.Added))
			removed = fmt.Sprintf("%d", len(res.Report.Removed))
		}
		table.Append([]string{res.Fixture, string(res.Status), added, removed})
	}
	table.Render()
	fmt.Fprintf(r.out, "\n%d passed, %d drifted, %d skipped, %d failed",
		summary.Passed, summary.Drifted, summary.Skipped, summary.Failed)
	if summary.Updated > 0 {
		fmt.Fprintf(r.out, ", %d re-recorded", summary.Updated)
	}
	fmt.Fprintln(r.out)
}
