package sink

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/agbruneau/EventBridge/internal/config"
	"github.com/agbruneau/EventBridge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []models.EventEntry {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var entries []models.EventEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry models.EventEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestFileSinkWritesAuditTrail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.events")
	s, err := NewFileSink(path)
	require.NoError(t, err)

	first := testEnvelope()
	second := models.NewEnvelope(models.EventTypeClearUser, nil, config.BridgeServiceName, "mystore", config.ModeProduction)
	require.NoError(t, s.Record(first))
	require.NoError(t, s.Record(second))
	s.Close()

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, models.EventTypeCustom, entries[0].EventType)
	assert.Equal(t, first.Metadata.CorrelationID, entries[0].CorrelationID)
	assert.Equal(t, "mystore", entries[0].Domain)
	assert.Equal(t, len(entries[0].Envelope), entries[0].MessageSize)
	assert.Empty(t, entries[0].Error)

	var decoded models.Envelope
	require.NoError(t, json.Unmarshal(entries[1].Envelope, &decoded))
	assert.Equal(t, models.EventTypeClearUser, decoded.Metadata.EventType)
	assert.Nil(t, decoded.Payload)
}

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.events")
	for i := 0; i < 2; i++ {
		s, err := NewFileSink(path)
		require.NoError(t, err)
		require.NoError(t, s.Record(testEnvelope()))
		s.Close()
	}

	assert.Len(t, readEntries(t, path), 2)
}

func TestFileSinkUnencodablePayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.events")
	s, err := NewFileSink(path)
	require.NoError(t, err)

	envelope := models.NewEnvelope(models.EventTypePushOpened,
		&models.PushOpen{UserInfo: map[string]any{"bad": make(chan int)}},
		config.BridgeServiceName, "d", config.ModeProduction)

	err = s.Record(envelope)
	s.Close()

	assert.Error(t, err)
	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].Error)
	assert.Empty(t, entries[0].Envelope)
}

func TestNewFileSinkBadPath(t *testing.T) {
	_, err := NewFileSink(filepath.Join(t.TempDir(), "missing", "dir", "x.events"))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Sink.EventsFile = filepath.Join(t.TempDir(), "open.events")

	tracker, err := Open(cfg)
	require.NoError(t, err)
	_, isFile := tracker.(*FileSink)
	assert.True(t, isFile)
	tracker.Close()

	cfg.Sink.Kind = "pigeon"
	_, err = Open(cfg)
	assert.Error(t, err)
}
