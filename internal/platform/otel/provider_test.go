package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/singularity/internal/platform/otel"
)

func TestSetupIsNoopWithoutEndpoint(t *testing.T) {
	t.Setenv("SINGULARITY_OTEL_ENDPOINT", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestConfigActive(t *testing.T) {
	tests := []struct {
		name string
		cfg  otel.Config
		want bool
	}{
		{name: "no endpoint", cfg: otel.Config{Enabled: true}},
		{name: "disabled", cfg: otel.Config{Endpoint: "http://localhost:4318"}},
		{name: "blank endpoint", cfg: otel.Config{Endpoint: "  ", Enabled: true}},
		{name: "active", cfg: otel.Config{Endpoint: "http://localhost:4318", Enabled: true}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Active(); got != tt.want {
				t.Fatalf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetupDisabledByEnv(t *testing.T) {
	t.Setenv("SINGULARITY_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("SINGULARITY_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestTracerStartsSpansWithoutSetup(t *testing.T) {
	_, span := otel.Tracer("services/game/turn").Start(context.Background(), "turn.end")
	defer span.End()
	if !span.SpanContext().TraceID().IsValid() && span.IsRecording() {
		t.Fatal("expected no-op span")
	}
}
