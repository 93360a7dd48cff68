package telemetry

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSanitizeRedactsAtAnyDepth(t *testing.T) {
	in := map[string]interface{}{
		"name": "asset-1",
		"privateKey": "z6Mk-secret-material",
		"nested": map[string]interface{}{
			"apiToken": "abc123",
			"list": []interface{}{
				map[string]interface{}{"Password": "hunter2", "ok": "visible"},
			},
		},
	}

	out, ok := Sanitize(in).(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "asset-1", out["name"])
	require.Equal(t, Redacted, out["privateKey"])

	nested := out["nested"].(map[string]interface{})
	require.Equal(t, Redacted, nested["apiToken"])
	item := nested["list"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, Redacted, item["Password"])
	require.Equal(t, "visible", item["ok"])

	// Original is untouched.
	require.Equal(t, "z6Mk-secret-material", in["privateKey"])
}

func TestSanitizeTypedStringMap(t *testing.T) {
	in := map[string]string{"credentialFile": "/tmp/sa.json", "domain": "example.com"}
	out := Sanitize(in).(map[string]interface{})
	require.Equal(t, Redacted, out["credentialFile"])
	require.Equal(t, "example.com", out["domain"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriterLogger(&buf, "warn")
	require.NoError(t, err)

	log.Debug("too quiet", nil)
	log.Info("still too quiet", nil)
	log.Warn("loud enough", map[string]interface{}{"secretValue": "x", "plain": "y"})

	out := buf.String()
	require.NotContains(t, out, "too quiet")
	require.Contains(t, out, "loud enough")
	require.Contains(t, out, Redacted)
	require.NotContains(t, out, `"x"`)
	require.Contains(t, out, `"plain":"y"`)
}

func TestChildLoggerContextPath(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriterLogger(&buf, "debug")
	require.NoError(t, err)

	log.Child("layer").Child("webvh").Info("published", nil)
	require.Contains(t, buf.String(), `"context":"layer:webvh"`)
}

func TestStartTimer(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriterLogger(&buf, "debug")
	require.NoError(t, err)

	done := log.StartTimer("inscribe")
	done()

	out := buf.String()
	require.Contains(t, out, "inscribe completed")
	require.Contains(t, out, "duration_ms")
}

func TestUnknownLevelRejected(t *testing.T) {
	_, err := NewWriterLogger(&bytes.Buffer{}, "loud")
	require.Error(t, err)
}

func TestMetricsOperationsAndCounters(t *testing.T) {
	m := NewMetricsCollector()

	m.RecordOperation("create", 10*time.Millisecond, false)
	m.RecordOperation("create", 30*time.Millisecond, true)
	m.RecordAssetCreated()
	m.RecordMigration("peer", "webvh")
	m.RecordMigration("peer", "webvh")
	m.RecordTransfer()
	m.RecordError("InsufficientFunds")
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)

	snap := m.Snapshot()
	create := snap.Operations["create"]
	require.EqualValues(t, 2, create.Count)
	require.EqualValues(t, 40, create.TotalMs)
	require.EqualValues(t, 10, create.MinMs)
	require.EqualValues(t, 30, create.MaxMs)
	require.EqualValues(t, 1, create.ErrorCount)
	require.EqualValues(t, 1, snap.AssetsCreated)
	require.EqualValues(t, 2, snap.AssetsMigrated["peer->webvh"])
	require.EqualValues(t, 1, snap.AssetsTransferred)
	require.EqualValues(t, 1, snap.Errors["InsufficientFunds"])
	require.EqualValues(t, 1, snap.CacheHits)
	require.EqualValues(t, 1, snap.CacheMisses)

	// Snapshot is isolated.
	snap.AssetsMigrated["peer->webvh"] = 99
	require.EqualValues(t, 2, m.Snapshot().AssetsMigrated["peer->webvh"])
}

func TestMetricsPrometheusText(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordOperation("verify", 5*time.Millisecond, false)
	m.RecordAssetCreated()

	text, err := m.PrometheusText()
	require.NoError(t, err)
	s := string(text)
	require.Contains(t, s, "originals_operation_total")
	require.Contains(t, s, `operation="verify"`)
	require.Contains(t, s, "originals_assets_created_total 1")
}

func TestMetricsJSONSorted(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordError("b")
	m.RecordError("a")

	out, err := m.JSON()
	require.NoError(t, err)
	s := string(out)
	require.True(t, strings.Index(s, `"a"`) < strings.Index(s, `"b"`))
	require.Contains(t, s, `"assetsCreated": 0`)
}

func TestMetricsReset(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordOperation("create", time.Millisecond, false)
	m.RecordAssetCreated()
	m.Reset()

	snap := m.Snapshot()
	require.Empty(t, snap.Operations)
	require.Zero(t, snap.AssetsCreated)

	text, err := m.PrometheusText()
	require.NoError(t, err)
	require.NotContains(t, string(text), `operation="create"`)
}
