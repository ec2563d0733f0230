package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggerForTest(t *testing.T) *ZapLogger {
	t.Helper()
	return NewZapLogger(filepath.Join(t.TempDir(), "app.log"), false)
}

func TestGetLogsBeforeFirstWrite(t *testing.T) {
	log := newLoggerForTest(t)

	// The file does not exist until the first write lands
	entries, err := log.GetLogs("", "", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetLogsNewestFirst(t *testing.T) {
	log := newLoggerForTest(t)
	log.Info("AUTH", "first", nil)
	log.Info("AUTH", "second", nil)
	log.Info("AUTH", "third", nil)

	entries, err := log.GetLogs("", "", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
	assert.Equal(t, "first", entries[2].Message)

	t.Run("pagination", func(t *testing.T) {
		page, err := log.GetLogs("", "", 2, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "third", page[0].Message)

		rest, err := log.GetLogs("", "", 2, 2)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, "first", rest[0].Message)

		beyond, err := log.GetLogs("", "", 2, 10)
		require.NoError(t, err)
		assert.Empty(t, beyond)
	})
}

func TestGetLogsFilters(t *testing.T) {
	log := newLoggerForTest(t)
	log.Info("AUTH", "user signed in", map[string]interface{}{"email": "a@example.com"})
	log.Warn("CHAT", "slow completion", map[string]interface{}{"latency_ms": 4200})
	log.Error("CHAT", "provider down", map[string]interface{}{"error": "connection refused"})
	// Below the file core's threshold; must never show up
	log.Debug("AUTH", "noisy detail", nil)

	t.Run("by level, case-insensitive", func(t *testing.T) {
		warns, err := log.GetLogs("warn", "", 10, 0)
		require.NoError(t, err)
		require.Len(t, warns, 1)
		assert.Equal(t, "slow completion", warns[0].Message)
		assert.Equal(t, "WARN", warns[0].Level)
	})

	t.Run("by module", func(t *testing.T) {
		chat, err := log.GetLogs("", "chat", 10, 0)
		require.NoError(t, err)
		assert.Len(t, chat, 2)

		auth, err := log.GetLogs("", "AUTH", 10, 0)
		require.NoError(t, err)
		require.Len(t, auth, 1)
		assert.Equal(t, "user signed in", auth[0].Message)
	})

	t.Run("debug lines never reach the file", func(t *testing.T) {
		all, err := log.GetLogs("", "", 10, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("details round-trip", func(t *testing.T) {
		auth, err := log.GetLogs("", "AUTH", 10, 0)
		require.NoError(t, err)
		require.Len(t, auth, 1)
		require.NotNil(t, auth[0].Details)
		assert.Equal(t, "a@example.com", auth[0].Details["email"])
	})
}

func TestGetLogById(t *testing.T) {
	log := newLoggerForTest(t)
	log.Info("ADMIN", "approved registration", map[string]interface{}{"email": "new@example.com"})
	log.Error("ADMIN", "mailer unreachable", nil)

	entries, err := log.GetLogs("", "", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Ids are the md5 of the raw line, so they are stable across reads
	again, err := log.GetLogs("", "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, entries[0].Id, again[0].Id)
	assert.Len(t, entries[0].Id, 32)

	found, err := log.GetLogById(entries[1].Id)
	require.NoError(t, err)
	assert.Equal(t, "approved registration", found.Message)
	assert.Equal(t, "new@example.com", found.Details["email"])

	_, err = log.GetLogById("ffffffffffffffffffffffffffffffff")
	require.Error(t, err)
}

func TestIsolatedLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notification.log")
	log := NewIsolatedLogger(path)

	log.Info("NOTIF", "delivered", map[string]interface{}{"code": "USER_LOGIN"})

	entries, err := log.GetLogs("", "NOTIF", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "delivered", entries[0].Message)
}
