package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupConfigEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("TOASTQ_CONFIG_PATH", "")
	return tmp
}

func TestLoadAndGet(t *testing.T) {
	setupConfigEnv(t)
	Load()

	require.Equal(t, "default", Get("missing", "default"))
	require.Equal(t, "bottom-right", Get("default_position", ""))
	require.Equal(t, 3, GetInt("visible_toasts", 0))
	require.True(t, GetBool("dismissible", false))
	require.Equal(t, 4*time.Second, GetDurationMillis("default_duration_ms", 0))
}

func TestLoadDerivesDirsFromXDG(t *testing.T) {
	tmp := setupConfigEnv(t)
	Load()

	require.Equal(t, filepath.Join(tmp, "config", "toastq"), Get("config_dir", ""))
	require.Equal(t, filepath.Join(tmp, "state", "toastq"), Get("state_dir", ""))
	require.Equal(t, filepath.Join(tmp, "config", "toastq", "hooks"), Get("hooks_dir", ""))
}

func TestHooksDirFollowsConfigDirOverride(t *testing.T) {
	tmp := setupConfigEnv(t)
	custom := filepath.Join(tmp, "custom")
	t.Setenv("TOASTQ_CONFIG_DIR", custom)
	Load()

	require.Equal(t, filepath.Join(custom, "hooks"), Get("hooks_dir", ""))
}

func TestLoadCreatesSampleConfig(t *testing.T) {
	tmp := setupConfigEnv(t)
	Load()

	data, err := os.ReadFile(filepath.Join(tmp, "config", "toastq", "config.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "# toastq configuration")
	require.Contains(t, string(data), "default_position")
	require.Contains(t, string(data), "bottom-right")
}

func TestConfigLoadingPrecedence(t *testing.T) {
	tmp := setupConfigEnv(t)
	configFile := filepath.Join(tmp, "custom.toml")
	content := `
visible_toasts = 5
default_position = "top-center"
hooks_failure_mode = "abort"
history_backend = "memory"
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("TOASTQ_CONFIG_PATH", configFile)
	t.Setenv("TOASTQ_VISIBLE_TOASTS", "7")
	t.Setenv("TOASTQ_HISTORY_BACKEND", "sqlite")

	reset()
	Load()

	require.Equal(t, "7", Get("visible_toasts", ""), "environment should override config file")
	require.Equal(t, "sqlite", Get("history_backend", ""), "environment should override config file")
	require.Equal(t, "top-center", Get("default_position", ""), "file value should be used")
	require.Equal(t, "abort", Get("hooks_failure_mode", ""))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	setupConfigEnv(t)
	t.Setenv("TOASTQ_DEFAULT_POSITION", "middle")
	t.Setenv("TOASTQ_VISIBLE_TOASTS", "-2")
	t.Setenv("TOASTQ_HISTORY_ENABLED", "maybe")
	t.Setenv("TOASTQ_HISTORY_BACKEND", "REDIS")
	t.Setenv("TOASTQ_DEFAULT_DURATION_MS", "0")
	Load()

	require.Equal(t, "bottom-right", Get("default_position", ""))
	require.Equal(t, "3", Get("visible_toasts", ""))
	require.Equal(t, "true", Get("history_enabled", ""))
	require.Equal(t, "sqlite", Get("history_backend", ""))
	require.Equal(t, "0", Get("default_duration_ms", ""))
}

func TestBoolNormalization(t *testing.T) {
	setupConfigEnv(t)
	t.Setenv("TOASTQ_HOOKS_ASYNC", "yes")
	t.Setenv("TOASTQ_DISMISSIBLE", "off")
	Load()

	require.Equal(t, "true", Get("hooks_async", ""))
	require.True(t, GetBool("hooks_async", false))
	require.False(t, GetBool("dismissible", true))
}

func TestUnknownFileValueTypeIsSkipped(t *testing.T) {
	tmp := setupConfigEnv(t)
	configFile := filepath.Join(tmp, "types.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("tags = [\"a\"]\nserver_addr = \":9000\"\n"), 0644))
	t.Setenv("TOASTQ_CONFIG_PATH", configFile)
	Load()

	require.Equal(t, "fallback", Get("tags", "fallback"))
	require.Equal(t, ":9000", Get("server_addr", ""))
}

func TestRegisterValidatorPanicsOnDuplicate(t *testing.T) {
	require.Panics(t, func() {
		RegisterValidator("visible_toasts", PositiveIntValidator())
	})
}

func TestAllReturnsCopy(t *testing.T) {
	setupConfigEnv(t)
	Load()
	all := All()
	all["default_position"] = "mutated"
	require.Equal(t, "bottom-right", Get("default_position", ""))
}
