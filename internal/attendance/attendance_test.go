package attendance

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/checkin/internal/config"
)

func TestMemoryRecorder(t *testing.T) {
	rec := NewMemoryRecorder()
	at := time.Now()

	require.NoError(t, rec.RecordAttendance(context.Background(), "user123", at))
	require.NoError(t, rec.RecordAttendance(context.Background(), "user456", at))

	records := rec.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "user123", records[0].Identity)
	assert.True(t, records[0].RecordedAt.Equal(at))
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestMemoryRecorder_ListAttendance(t *testing.T) {
	rec := NewMemoryRecorder()
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"user123", "user456", "user123", "user123"} {
		require.NoError(t, rec.RecordAttendance(ctx, id, base.Add(time.Duration(i)*time.Minute)))
	}

	all, err := rec.ListAttendance(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.True(t, all[0].RecordedAt.Equal(base.Add(3*time.Minute)), "most recent first")

	mine, err := rec.ListAttendance(ctx, "user123", 2)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, r := range mine {
		assert.Equal(t, "user123", r.Identity)
	}

	none, err := rec.ListAttendance(ctx, "user999", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFileRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.jsonl")
	rec, err := NewFileRecorder(path)
	require.NoError(t, err)

	at := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	require.NoError(t, rec.RecordAttendance(context.Background(), "user123", at))
	require.NoError(t, rec.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())
	var got Record
	require.NoError(t, json.Unmarshal(sc.Bytes(), &got))
	assert.Equal(t, "user123", got.Identity)
	assert.True(t, got.RecordedAt.Equal(at))
	assert.False(t, sc.Scan(), "expected exactly one line")
}

func TestFileRecorder_ListAttendance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.jsonl")
	rec, err := NewFileRecorder(path)
	require.NoError(t, err)
	defer rec.Close()

	ctx := context.Background()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"user123", "user456", "user123"} {
		require.NoError(t, rec.RecordAttendance(ctx, id, base.Add(time.Duration(i)*time.Minute)))
	}

	// a torn line must not break reading
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("{\"id\":\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	all, err := rec.ListAttendance(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].RecordedAt.Equal(base.Add(2*time.Minute)), "most recent first")

	mine, err := rec.ListAttendance(ctx, "user123", 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "user123", mine[0].Identity)
	assert.True(t, mine[0].RecordedAt.Equal(base.Add(2*time.Minute)))
}

func TestFromConfig(t *testing.T) {
	rec, err := FromConfig(context.Background(), config.AttendanceConfig{Type: config.AttendanceTypeMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryRecorder{}, rec)

	path := filepath.Join(t.TempDir(), "a.jsonl")
	rec, err = FromConfig(context.Background(), config.AttendanceConfig{Type: config.AttendanceTypeFile, Path: path})
	require.NoError(t, err)
	assert.IsType(t, &FileRecorder{}, rec)
	require.NoError(t, rec.Close())

	_, err = FromConfig(context.Background(), config.AttendanceConfig{Type: "s3"})
	assert.Error(t, err)
}
