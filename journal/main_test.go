package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zhubert/studylog/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "studylog-journal-test-*")
	if err == nil {
		_ = logger.Init(filepath.Join(dir, "test.log"))
	}
	code := m.Run()
	logger.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}
