package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, VariantIndicator, cfg.Variant)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"RSI_14", "MACDh_12_26_9", "ADX_14", "CCI_14_0.015", "BBP_5_2.0", "BBL_5_2.0", "ATR_14"}, cfg.Features.Columns)
	assert.Equal(t, 300, cfg.Features.TimeStep)
	assert.Equal(t, 0.6, cfg.Signal.BuyThreshold)
	assert.Equal(t, 0.4, cfg.Signal.SellThreshold)
	assert.Equal(t, SinkNone, cfg.Audit.Sink)
	assert.Equal(t, "wdo_trade_logs", cfg.Audit.Table)
	assert.True(t, cfg.Server.CORS)
}

func TestLoadWindowVariant(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
variant: window
server:
  cors: false
features:
  time_step: 60
`))
	require.NoError(t, err)

	assert.Equal(t, VariantWindow, cfg.Variant)
	assert.Equal(t, "sinais_wdo", cfg.Audit.Table)
	assert.Equal(t, "audit:sinais_wdo", cfg.Audit.Redis.Stream)
	assert.Equal(t, 60, cfg.Features.TimeStep)
	assert.False(t, cfg.Server.CORS)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown variant":  "variant: ensemble\n",
		"bad sink":         "audit:\n  sink: s3\n",
		"inverted band":    "variant: window\nsignal:\n  buy_threshold: 0.3\n  sell_threshold: 0.5\n",
		"tfserving no url": "model:\n  backend: tfserving\n",
		"threshold range":  "signal:\n  buy_threshold: 1.5\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestFromEnvSupabaseCredentials(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "secret")
	t.Setenv("SIGNAL_VARIANT", "window")
	t.Setenv("PORT", "9090")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, SinkSupabase, cfg.Audit.Sink)
	assert.True(t, cfg.AuditCredentialsPresent())
	assert.Equal(t, "sinais_wdo", cfg.Audit.Table)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestFromEnvWithoutCredentialsDisablesAudit(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, SinkNone, cfg.Audit.Sink)
	assert.False(t, cfg.AuditCredentialsPresent())
}

func TestExplicitSinkWithoutCredentials(t *testing.T) {
	cfg, err := Load(writeConfig(t, "audit:\n  sink: postgres\n"))
	require.NoError(t, err)
	assert.Equal(t, SinkPostgres, cfg.Audit.Sink)
	assert.False(t, cfg.AuditCredentialsPresent())
}

func TestModelInputSize(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Variant = VariantIndicator
	assert.Equal(t, 7, cfg.ModelInputSize())

	cfg.Variant = VariantWindow
	cfg.Features.TimeStep = 120
	assert.Equal(t, 120, cfg.ModelInputSize())
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load("../../config/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, VariantIndicator, cfg.Variant)
	assert.Equal(t, BackendFile, cfg.Model.Backend)
	assert.Equal(t, 15, cfg.Features.MinCandles)
}

func TestLoadWithEnvResolvesAuditAfterOverrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "secret")
	t.Setenv("SIGNAL_VARIANT", "window")

	cfg, err := LoadWithEnv("../../config/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, VariantWindow, cfg.Variant)
	assert.Equal(t, SinkSupabase, cfg.Audit.Sink)
	assert.True(t, cfg.AuditCredentialsPresent())
	assert.Equal(t, "sinais_wdo", cfg.Audit.Table)
	assert.Equal(t, "audit:sinais_wdo", cfg.Audit.Redis.Stream)
}

func TestLoadWithEnvKeepsExplicitTable(t *testing.T) {
	t.Setenv("SIGNAL_VARIANT", "window")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")

	cfg, err := LoadWithEnv(writeConfig(t, "audit:\n  table: custom_logs\n"))
	require.NoError(t, err)

	assert.Equal(t, "custom_logs", cfg.Audit.Table)
	assert.Equal(t, SinkNone, cfg.Audit.Sink)
}

func TestLoadRejectsZeroTimeouts(t *testing.T) {
	for name, body := range map[string]string{
		"model": "model:\n  timeout: 0s\n",
		"audit": "audit:\n  timeout: 0s\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}
