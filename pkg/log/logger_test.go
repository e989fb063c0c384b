package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	tabframeErrors "github.com/YuminosukeSato/tabframe/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestZerologLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("dropped")
	logger.Info("Materializing dataset", OperationKey, OperationMaterialize, SamplesKey, 3)
	logger.Warn("slow column", ColumnNameKey, "city")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %s", len(entries), buf.String())
	}
	if entries[0]["message"] != "Materializing dataset" {
		t.Errorf("message = %v", entries[0]["message"])
	}
	if entries[0][OperationKey] != OperationMaterialize {
		t.Errorf("%s = %v", OperationKey, entries[0][OperationKey])
	}
	if entries[0][SamplesKey] != 3.0 {
		t.Errorf("%s = %v", SamplesKey, entries[0][SamplesKey])
	}
	if entries[1]["level"] != "warn" {
		t.Errorf("level = %v", entries[1]["level"])
	}
}

func TestZerologLogger_WithAndEnabled(t *testing.T) {
	var buf bytes.Buffer
	base := NewZerologLogger(&buf, LevelWarn)
	ctx := context.Background()

	if base.Enabled(ctx, LevelInfo) {
		t.Error("Info should be disabled at Warn level")
	}
	if !base.Enabled(ctx, LevelError) {
		t.Error("Error should be enabled at Warn level")
	}

	child := base.With(DatasetIDKey, "ds-1", ComponentKey, "dataset")
	child.Warn("no target column")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0][DatasetIDKey] != "ds-1" || entries[0][ComponentKey] != "dataset" {
		t.Errorf("context fields missing: %v", entries[0])
	}
}

func TestZerologLogger_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.Error("Materialization failed", fmt.Errorf("boom"), ColumnNameKey, "age")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["error"] != "boom" {
		t.Errorf("error field = %v", entries[0]["error"])
	}
	if entries[0][ColumnNameKey] != "age" {
		t.Errorf("%s = %v", ColumnNameKey, entries[0][ColumnNameKey])
	}
}

func TestErrorStackMarshaler(t *testing.T) {
	err := tabframeErrors.NewNotMaterializedError("IndexSelect")
	if got := ErrorStackMarshaler(err); got == nil {
		t.Error("expected a stack trace for a WithStack error")
	}
	if got := ErrorStackMarshaler(fmt.Errorf("plain")); got != nil {
		t.Errorf("expected nil for a plain error, got %v", got)
	}
}

func TestProvider_SetProvider(t *testing.T) {
	testProvider, _ := NewTestLoggerProvider(LevelDebug)
	prev := SetProvider(testProvider)
	defer SetProvider(prev)

	GetLoggerWithName("frame").Info("saved frame", DataSizeKey, 128)

	logger := testProvider.Logger()
	if !logger.ContainsField(ComponentKey, "frame") {
		t.Error("component field not found")
	}
	if !logger.ContainsField(DataSizeKey, 128.0) {
		t.Error("size field not found")
	}

	SetLevel(LevelError)
	GetLogger().Info("should be dropped")
	if logger.ContainsMessage("should be dropped") {
		t.Error("SetLevel should apply to the active provider")
	}
}

func TestTestLogger_Concurrent(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	done := make(chan struct{})

	for i := 0; i < 4; i++ {
		go func(id int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 5; j++ {
				logger.With("worker", id).Info("gathered rows", "chunk", j)
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	entries, err := logger.GetLogEntries()
	if err != nil {
		t.Fatalf("GetLogEntries: %v", err)
	}
	if len(entries) != 20 {
		t.Errorf("expected 20 entries, got %d", len(entries))
	}
}

func TestToLogLevel(t *testing.T) {
	if ToLogLevel("debug") != LevelDebug || ToLogLevel("error") != LevelError {
		t.Error("unexpected level mapping")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for an invalid level")
		}
	}()
	ToLogLevel("verbose")
}
