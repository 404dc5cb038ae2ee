package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
)

func TestServeCommand_Flags(t *testing.T) {
	tio := newTestIO(output.VerbosityNormal)
	cmd := NewServeCommand(tio.console, testConfig(config.FormatText))

	for _, name := range []string{"listen", "tls-cert", "tls-key", "http3", "rate-limit", "tracing-exporter", "tracing-endpoint", "tracing-insecure"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "127.0.0.1:8080", cmd.Flags().Lookup("listen").DefValue)
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	cfg := testConfig(config.FormatText)
	cfg.Server.HTTP3 = true

	tio := newTestIO(output.VerbosityNormal)
	err := runServe(context.Background(), tio.console, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP/3 requires TLS")
}

func TestServeCommand_ShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(config.FormatText)
	cfg.Server.Listen = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = time.Second

	tio := newTestIO(output.VerbosityNormal)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- runServe(ctx, tio.console, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}

func TestServeCommand_BadProfilesFile(t *testing.T) {
	cfg := testConfig(config.FormatText)
	cfg.ProfilesFile = "/nonexistent/profiles.yaml"

	tio := newTestIO(output.VerbosityNormal)
	err := runServe(context.Background(), tio.console, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load profile catalog")
}
