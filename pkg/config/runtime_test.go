package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeConfigFromConfig(t *testing.T) {
	cfg, err := NewBuilder().ConnectionURL("hdbsql://localhost:30015").Build()
	require.NoError(t, err)

	rc := RuntimeConfigFromConfig(cfg)
	require.NotNil(t, rc.RowLimit)
	assert.Equal(t, *cfg.RowLimit, *rc.RowLimit)
	assert.Equal(t, cfg.QueryTimeout, rc.QueryTimeout)
	assert.Equal(t, cfg.Telemetry.LogLevel, rc.LogLevel)
}

func TestRuntimeConfigHolder_LoadStore(t *testing.T) {
	limit := uint32(100)
	holder := NewRuntimeConfigHolder(RuntimeConfig{RowLimit: &limit, QueryTimeout: 10 * time.Second})

	assert.Equal(t, uint32(100), *holder.RowLimit())
	assert.Equal(t, 10*time.Second, holder.QueryTimeout())

	newLimit := uint32(200)
	holder.Store(RuntimeConfig{RowLimit: &newLimit, QueryTimeout: 20 * time.Second})

	assert.Equal(t, uint32(200), *holder.RowLimit())
	assert.Equal(t, 20*time.Second, holder.QueryTimeout())
}

func TestReloadTrigger_String(t *testing.T) {
	assert.Equal(t, "SIGHUP", ReloadTriggerSignal().String())
	assert.Equal(t, "manual", ReloadTriggerManual().String())
	assert.Equal(t, "HTTP /admin/reload", ReloadTriggerHTTP("").String())
	assert.Equal(t, "HTTP /admin/reload from 10.0.0.1:54321", ReloadTriggerHTTP("10.0.0.1:54321").String())
}

func TestReloadResult(t *testing.T) {
	success := ReloadSuccess([]string{"row_limit", "log_level"})
	assert.True(t, success.Success)
	assert.Equal(t, []string{"row_limit", "log_level"}, success.Changed)

	failure := ReloadFailure("bad value")
	assert.False(t, failure.Success)
	assert.Equal(t, "bad value", failure.Error)
}
