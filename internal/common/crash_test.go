// -----------------------------------------------------------------------
// Crash Protection Tests
// -----------------------------------------------------------------------

package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCrashFile(t *testing.T) {
	originalDir := CrashLogDir
	CrashLogDir = t.TempDir()
	defer func() { CrashLogDir = originalDir }()

	path := WriteCrashFile("boom: nil pointer", stackTrace())
	require.NotEmpty(t, path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	report := string(content)
	assert.Contains(t, report, "MARKETBRIEF CRASH REPORT")
	assert.Contains(t, report, "boom: nil pointer")
	assert.Contains(t, report, "goroutine")
	assert.Contains(t, report, "END CRASH REPORT")
}

func TestWriteCrashFileUnwritableDir(t *testing.T) {
	originalDir := CrashLogDir
	CrashLogDir = filepath.Join(t.TempDir(), "does", "not", "exist")
	defer func() { CrashLogDir = originalDir }()

	path := WriteCrashFile("boom", "stack")
	assert.Empty(t, path)
}

func TestInstallCrashHandlerCreatesLogDir(t *testing.T) {
	originalDir := CrashLogDir
	defer func() { CrashLogDir = originalDir }()

	logDir := filepath.Join(t.TempDir(), "logs")
	InstallCrashHandler(logDir)

	assert.Equal(t, logDir, CrashLogDir)
	info, err := os.Stat(logDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStackTrace(t *testing.T) {
	stack := stackTrace()
	assert.True(t, strings.HasPrefix(stack, "goroutine "))
	assert.Contains(t, stack, "stackTrace")
}
