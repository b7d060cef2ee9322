package game

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/text/message"

	"github.com/louisbranch/singularity/internal/services/game/app"
	"github.com/louisbranch/singularity/internal/services/game/i18n"
)

// playHeadless ends turns back to back and prints a report after each one.
func playHeadless(ctx context.Context, session *app.Session, turns int, p *message.Printer, w io.Writer) error {
	for i := 0; i < turns; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !session.EndTurn(ctx) {
			return fmt.Errorf("turn %d did not end", session.State().Meta.Turn)
		}
		if err := i18n.WriteReport(w, p, session.State()); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
