package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runRSessions(t, binaryPath, home,
		"create",
		"--project", "proj1",
		"--dir", filepath.Join(home, "proj1"),
		"--initial",
	)
	require.NoError(t, err, "stderr: %s", stderr)
	id := strings.TrimSpace(stdout)
	require.NotEmpty(t, id)

	_, stderr, err = runRSessions(t, binaryPath, home, "mark-running", id, "--pid", "1")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runRSessions(t, binaryPath, home, "list")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "proj1 ["+id+"]")

	_, stderr, err = runRSessions(t, binaryPath, home, "rm", id)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runRSessions(t, binaryPath, home, "count")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Equal(t, "0", strings.TrimSpace(stdout))
}

func TestSmokeSharedBackendFromEnvironment(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	root := filepath.Join(t.TempDir(), "cluster")
	env := []string{"RSESSIONS_STORAGE_BACKEND=shared", "RSESSIONS_STORAGE_ROOT=" + root}

	stdout, stderr, err := runRSessionsWithEnv(t, binaryPath, home, env, "create", "--dir", home)
	require.NoError(t, err, "stderr: %s", stderr)
	id := strings.TrimSpace(stdout)

	matches, err := filepath.Glob(filepath.Join(root, "*", id, "*.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, matches)

	stdout, stderr, err = runRSessionsWithEnv(t, binaryPath, home, env, "global", "get", id)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, id)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "rsessions-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/rsessions")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build rsessions binary: %s", string(output))
	return binaryPath
}

func runRSessions(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	return runRSessionsWithEnv(t, binaryPath, home, nil, args...)
}

func runRSessionsWithEnv(t *testing.T, binaryPath, home string, env []string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(append(os.Environ(), "HOME="+home), env...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
