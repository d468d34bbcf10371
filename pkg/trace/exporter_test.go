package trace

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
)

func testRecord(operationID string) *Record {
	return &Record{
		Timestamp:   time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		OperationID: operationID,
		Operation:   "enrich_evidence",
		DurationMs:  120,
		Status:      "success",
		Spans: []Span{
			{Name: "call", DurationMs: 100, OK: true},
			{Name: "merge", DurationMs: 20, OK: true},
		},
		RecordID: 42,
	}
}

func readLines(t *testing.T, path string) []Record {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		records = append(records, r)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestFileExporter_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	fe, err := NewFileExporter(path)
	require.NoError(t, err)

	require.NoError(t, fe.Export(context.Background(), testRecord("op-1")))
	require.NoError(t, fe.Export(context.Background(), testRecord("op-2")))
	require.NoError(t, fe.Close())

	records := readLines(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "op-1", records[0].OperationID)
	assert.Equal(t, "op-2", records[1].OperationID)
	assert.Equal(t, "enrich_evidence", records[0].Operation)
	assert.Len(t, records[0].Spans, 2)
	assert.Equal(t, int64(42), records[0].RecordID)
}

func TestFileExporter_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")
	fe, err := NewFileExporter(path)
	require.NoError(t, err)
	defer fe.Close()

	require.NoError(t, fe.Export(context.Background(), testRecord("op-1")))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileExporter_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	fe, err := NewFileExporter(path, WithMaxSize(1))
	require.NoError(t, err)
	defer fe.Close()

	// Every export exceeds the 1-byte cap, so each one rotates.
	require.NoError(t, fe.Export(context.Background(), testRecord("op-1")))
	require.NoError(t, fe.Export(context.Background(), testRecord("op-2")))

	rotated := readLines(t, path+".1")
	require.Len(t, rotated, 1)
	assert.Equal(t, "op-2", rotated[0].OperationID)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "current file starts empty after rotation")
}

func TestFileExporter_RejectsExportAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	fe, err := NewFileExporter(path)
	require.NoError(t, err)
	require.NoError(t, fe.Close())
	require.NoError(t, fe.Close(), "double close is a no-op")

	assert.Error(t, fe.Export(context.Background(), testRecord("op-1")))
}

func TestFileExporter_ErrorRecordOmitsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	fe, err := NewFileExporter(path)
	require.NoError(t, err)

	rec := testRecord("op-1")
	rec.Status = "error"
	rec.ErrorType = "rate_limit"
	require.NoError(t, fe.Export(context.Background(), rec))
	require.NoError(t, fe.Close())

	records := readLines(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, "error", records[0].Status)
	assert.Equal(t, "rate_limit", records[0].ErrorType)
}

func TestNoopExporter(t *testing.T) {
	ne := NewNoopExporter()
	assert.NoError(t, ne.Export(context.Background(), testRecord("op-1")))
	assert.NoError(t, ne.Close())
}
