package i18n

import (
	"bytes"
	"strings"
	"testing"

	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
)

func TestWriteReport(t *testing.T) {
	state := aggregate.NewInitialState(aggregate.Options{StartYear: 2030})

	tests := []struct {
		locale string
		want   []string
	}{
		{locale: "en-US", want: []string{
			"Turn 1: 2030-01-01, Q1",
			"Funding: 1,000 (income 100, expenses 80)",
			"Deployments: 0 of 3 slots",
			"Time compression: 1.00x, 90 days per turn",
		}},
		{locale: "pt-BR", want: []string{
			"Turno 1: 01/01/2030, T1",
			"Fundos: ",
			"Eventos pendentes: 0",
		}},
		{locale: "xx", want: []string{"Pending events: 0"}},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteReport(&buf, Printer(tt.locale), state); err != nil {
				t.Fatalf("write report: %v", err)
			}
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != 7 {
				t.Fatalf("lines = %d, want 7:\n%s", len(lines), buf.String())
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Fatalf("report missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestWriteReportSkipsIncompleteState(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, Printer("en-US"), &aggregate.State{}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("report = %q, want empty", buf.String())
	}
}
