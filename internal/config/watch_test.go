package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsValidChangesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homemcp", "config.toml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, func(cfg *Config) {
			reloaded <- cfg
		})
	}()

	// Give the watcher time to register the directory.
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Dir(path))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("[automation]\nmax_output_bytes = 0\n"), 0o600))
	select {
	case cfg := <-reloaded:
		t.Fatalf("invalid config was delivered: %+v", cfg.Automation)
	case <-time.After(300 * time.Millisecond):
	}

	cfg := Default()
	cfg.Automation.Keywords = []string{"garage"}
	require.NoError(t, SaveTo(path, cfg))

	select {
	case got := <-reloaded:
		assert.Equal(t, []string{"garage"}, got.Automation.Keywords)
	case <-time.After(5 * time.Second):
		t.Fatal("valid config change was not delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}
