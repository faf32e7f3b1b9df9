//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedBuildlensPath holds the path to a shared buildlens binary built once for all tests.
	sharedBuildlensPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBuildlensBinary returns the path to the buildlens binary, building it once if needed.
func getBuildlensBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "buildlens-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		buildlensPath := filepath.Join(tempDir, "buildlens")
		buildCmd := exec.Command("go", "build", "-o", buildlensPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build buildlens: %v", err))
		}

		sharedBuildlensPath = buildlensPath
	})

	return sharedBuildlensPath
}

// runBuildlens runs the shared binary with the given arguments and returns its combined output.
func runBuildlens(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buildlensPath := getBuildlensBinary()
	cmd := exec.Command(buildlensPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}
