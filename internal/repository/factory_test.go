package repository

import (
	"context"
	"testing"

	"SignalAPI/pkg/config"
	applogger "SignalAPI/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAuditSinkDisabled(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Audit.Sink = config.SinkNone

	sink, err := OpenAuditSink(context.Background(), cfg, applogger.Nop())
	require.NoError(t, err)
	assert.Nil(t, sink)
}

func TestOpenAuditSinkWithoutCredentials(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Audit.Sink = config.SinkPostgres

	sink, err := OpenAuditSink(context.Background(), cfg, applogger.Nop())
	require.NoError(t, err)
	assert.Nil(t, sink)
}

func TestOpenAuditSinkSupabase(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Audit.Sink = config.SinkSupabase
	cfg.Audit.Supabase.URL = "https://example.supabase.co"
	cfg.Audit.Supabase.Key = "anon"

	sink, err := OpenAuditSink(context.Background(), cfg, applogger.Nop())
	require.NoError(t, err)
	require.NotNil(t, sink)
	assert.Equal(t, "supabase", sink.Name())
}
