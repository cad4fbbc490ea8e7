package timeouts

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 7 * time.Second})

	got := Current()
	want := Config{Ping: DefaultPing, Short: 7 * time.Second, Long: DefaultLong}
	if got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	t.Cleanup(Reset)
	t.Setenv(EnvPing, "500ms")
	t.Setenv(EnvShort, "not-a-duration")
	t.Setenv(EnvLong, "-1s")

	if n := ConfigureFromEnv(); n != 1 {
		t.Errorf("configured = %d, want 1", n)
	}
	if Ping() != 500*time.Millisecond {
		t.Errorf("Ping() = %s", Ping())
	}
	if Short() != DefaultShort || Long() != DefaultLong {
		t.Errorf("invalid values applied: short=%s long=%s", Short(), Long())
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.New(core), "save selection")
	<-ctx.Done()
	cancel()

	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("ctx.Err() = %v", ctx.Err())
	}
	entries := logs.FilterMessage("operation timed out").All()
	if len(entries) != 1 {
		t.Fatalf("timeout warnings = %d, want 1", len(entries))
	}
	if op := entries[0].ContextMap()["operation"]; op != "save selection" {
		t.Errorf("operation = %v", op)
	}
}

func TestWithTimeout_QuietOnCancel(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	_, cancel := WithTimeout(context.Background(), time.Minute, zap.New(core), "load selection")
	cancel()

	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %d", logs.Len())
	}
}
