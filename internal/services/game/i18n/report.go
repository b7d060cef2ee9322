package i18n

import (
	"fmt"
	"io"

	"golang.org/x/text/message"

	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
)

// WriteReport prints a localized summary of state, one line per concern.
func WriteReport(w io.Writer, p *message.Printer, state *aggregate.State) error {
	if state == nil || !state.Complete() {
		return nil
	}
	gt := state.Meta.GameTime
	res := state.Resources
	lines := []struct {
		key  message.Reference
		args []any
	}{
		{ReportTurnKey, []any{state.Meta.Turn, fmt.Sprintf("%04d", gt.Year), fmt.Sprintf("%02d", gt.Month), fmt.Sprintf("%02d", gt.Day), gt.Quarter}},
		{ReportFundingKey, []any{res.Funding.Current, res.Funding.Income, res.Funding.Expenses}},
		{ReportComputingKey, []any{res.Computing.Total, res.Computing.Cap, res.Computing.AllocatedTotal()}},
		{ReportResearchKey, []any{len(state.Research.Active), len(state.Research.Completed)}},
		{ReportDeploymentsKey, []any{len(state.Deployments.Active), state.Deployments.Slots}},
		{ReportEventsKey, []any{len(state.Events.Current)}},
		{ReportCompressionKey, []any{gt.CompressionFactor, gt.TimeScale}},
	}
	for _, line := range lines {
		if _, err := p.Fprintf(w, line.key, line.args...); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
