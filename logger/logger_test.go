package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhubert/studylog/paths"
)

// setupTestLogger creates a temp log file and initializes the logger with it.
func setupTestLogger(t *testing.T) string {
	t.Helper()
	Reset()

	logPath := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	t.Cleanup(Reset)

	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestGet_StructuredLogging(t *testing.T) {
	logPath := setupTestLogger(t)

	Get().Info("document written", "topic", "Graphs", "minutes", 25)

	content := readLog(t, logPath)
	for _, want := range []string{"document written", "topic=Graphs", "minutes=25", "time="} {
		if !strings.Contains(content, want) {
			t.Errorf("log should contain %q, got:\n%s", want, content)
		}
	}
}

func TestPath(t *testing.T) {
	logPath := setupTestLogger(t)

	if got := Path(); got != logPath {
		t.Errorf("Path() = %q, want %q", got, logPath)
	}

	Reset()
	if got := Path(); got != "" {
		t.Errorf("Path() after Reset = %q, want empty", got)
	}
}

func TestReset(t *testing.T) {
	tmpDir := t.TempDir()
	logPath1 := filepath.Join(tmpDir, "log1.log")
	Reset()
	if err := Init(logPath1); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	Get().Info("message to log1")

	Reset()

	logPath2 := filepath.Join(tmpDir, "log2.log")
	if err := Init(logPath2); err != nil {
		t.Fatalf("Failed to reinit logger: %v", err)
	}
	Get().Info("message to log2")
	defer Reset()

	content1 := readLog(t, logPath1)
	if !strings.Contains(content1, "message to log1") || strings.Contains(content1, "message to log2") {
		t.Errorf("log1 has unexpected content:\n%s", content1)
	}

	content2 := readLog(t, logPath2)
	if !strings.Contains(content2, "message to log2") || strings.Contains(content2, "message to log1") {
		t.Errorf("log2 has unexpected content:\n%s", content2)
	}
}

func TestLogLevel_Filtering(t *testing.T) {
	tests := []struct {
		name         string
		debug        bool
		wantDebugLog bool
	}{
		{name: "info level filters debug", debug: false, wantDebugLog: false},
		{name: "debug level keeps debug", debug: true, wantDebugLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath := setupTestLogger(t)
			SetDebug(tt.debug)

			Get().Debug("debug-marker")
			Get().Info("info-marker")

			content := readLog(t, logPath)
			if got := strings.Contains(content, "debug-marker"); got != tt.wantDebugLog {
				t.Errorf("debug message present = %v, want %v", got, tt.wantDebugLog)
			}
			if !strings.Contains(content, "info-marker") {
				t.Error("info message should always be visible")
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	logPath := setupTestLogger(t)

	WithComponent("git").Info("commit created", "repo", "/journal")

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=git") {
		t.Error("Should contain 'component=git' attribute")
	}
	if !strings.Contains(content, "repo=/journal") {
		t.Error("Should contain 'repo=/journal' attribute")
	}
}

func TestWithSession(t *testing.T) {
	logPath := setupTestLogger(t)

	WithSession("session-xyz").With("component", "journal").Info("save started")

	content := readLog(t, logPath)
	if !strings.Contains(content, "sessionID=session-xyz") {
		t.Error("Should contain sessionID attribute")
	}
	if !strings.Contains(content, "component=journal") {
		t.Error("Should contain component attribute")
	}
}

func TestEnsureInit_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	paths.Reset()
	t.Cleanup(paths.Reset)
	Reset()
	defer Reset()

	Get().Info("default path test")

	want := filepath.Join(home, ".studylog", "logs", "studylog.log")
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("default log file should exist: %v", err)
	}

	Close()
	n, err := ClearLogs()
	if err != nil {
		t.Fatalf("ClearLogs: %v", err)
	}
	if n != 1 {
		t.Errorf("ClearLogs removed %d files, want 1", n)
	}
}

func TestConcurrent_InitAndGet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	paths.Reset()
	t.Cleanup(paths.Reset)

	for i := 0; i < 10; i++ {
		Reset()

		logPath := filepath.Join(t.TempDir(), "concurrent.log")
		done := make(chan bool, 15)

		for j := 0; j < 5; j++ {
			go func() {
				_ = Init(logPath)
				done <- true
			}()
			go func() {
				WithSession("sess").Info("concurrent session")
				done <- true
			}()
			go func() {
				WithComponent("comp").Info("concurrent component")
				done <- true
			}()
		}

		for j := 0; j < 15; j++ {
			<-done
		}
	}
	Reset()
}

func TestClearLogs_TruncatesOpenFile(t *testing.T) {
	logPath := setupTestLogger(t)

	Get().Info("before clearing")
	n, err := ClearLogs()
	if err != nil {
		t.Fatalf("ClearLogs: %v", err)
	}
	if n != 1 {
		t.Errorf("ClearLogs cleared %d files, want 1", n)
	}
	if content := readLog(t, logPath); content != "" {
		t.Errorf("log should be empty after clearing, got:\n%s", content)
	}

	Get().Info("after clearing")
	content := readLog(t, logPath)
	if !strings.Contains(content, "after clearing") || strings.Contains(content, "before clearing") {
		t.Errorf("log should only hold entries written after clearing, got:\n%s", content)
	}
}

func TestClearLogs_NothingToRemove(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	paths.Reset()
	t.Cleanup(paths.Reset)
	Reset()
	defer Reset()

	n, err := ClearLogs()
	if err != nil {
		t.Fatalf("ClearLogs: %v", err)
	}
	if n != 0 {
		t.Errorf("ClearLogs cleared %d files, want 0", n)
	}
}
