package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"SignalAPI/internal/domain"
	"SignalAPI/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record() *models.AuditRecord {
	return &models.AuditRecord{Table: "wdo_trade_logs", Columns: []models.Column{{Name: "signal", Value: "AGUARDAR"}}}
}

func TestAuditLoggerNilSinkIsNoop(t *testing.T) {
	a := NewAuditLogger(nil, nil, nil, time.Second)

	require.NoError(t, a.Write(context.Background(), record()))
	a.Dispatch(record())
	a.Wait()

	assert.False(t, a.Enabled())
	assert.Equal(t, "none", a.SinkName())
	require.NoError(t, a.Close())
}

func TestAuditLoggerWriteWrapsSinkError(t *testing.T) {
	a := NewAuditLogger(&fakeSink{err: errors.New("connection refused")}, nil, nil, time.Second)

	err := a.Write(context.Background(), record())
	require.ErrorIs(t, err, domain.ErrAudit)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAuditLoggerDispatch(t *testing.T) {
	sink := &fakeSink{}
	a := NewAuditLogger(sink, nil, nil, time.Second)

	a.Dispatch(record())
	a.Dispatch(record())
	a.Wait()

	assert.Len(t, sink.Records(), 2)
	require.NoError(t, a.Close())
	assert.True(t, sink.closed)
}

func TestAuditLoggerDispatchSwallowsErrors(t *testing.T) {
	a := NewAuditLogger(&fakeSink{err: errors.New("boom")}, nil, nil, time.Second)

	assert.NotPanics(t, func() {
		a.Dispatch(record())
		a.Wait()
	})
}

func TestAuditLoggerCloseOnce(t *testing.T) {
	sink := &fakeSink{}
	a := NewAuditLogger(sink, nil, nil, time.Second)
	a.Dispatch(record())

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	assert.Len(t, sink.Records(), 1)
	assert.Equal(t, 1, sink.closes)
}
