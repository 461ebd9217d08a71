package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwacheck/internal/output"
	"pwacheck/internal/report"
)

const minimalManifest = `{
  "name": "Flutter Shop",
  "short_name": "Shop",
  "start_url": ".",
  "display": "standalone",
  "background_color": "#0175C2",
  "theme_color": "#0175C2",
  "icons": [{"src": "icons/icon-192x192.png", "sizes": "192x192", "type": "image/png"}]
}`

const minimalEntry = `<!DOCTYPE html>
<html>
<head>
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <link rel="manifest" href="manifest.json">
</head>
<body></body>
</html>`

type cmdResult struct {
	code   int
	stdout string
	stderr string
}

// executeCommand runs the root command in-process from an empty working
// directory, so no .pwacheck.yaml or .env is picked up by accident.
func executeCommand(t *testing.T, args ...string) cmdResult {
	t.Helper()
	t.Chdir(t.TempDir())
	return executeIn(t, args...)
}

func executeIn(t *testing.T, args ...string) cmdResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	code := exitCode(err, &stderr)
	return cmdResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// writeMinimalBuild writes a build that passes every required rule and
// fails the recommended ones.
func writeMinimalBuild(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "manifest.json"), []byte(minimalManifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte(minimalEntry), 0o644))
	return root
}

func summaryOf(t *testing.T, stdout string) report.Counts {
	t.Helper()
	c, err := output.ParseSummary(stdout)
	require.NoError(t, err, stdout)
	return c
}

func TestCheck_ExitCodes(t *testing.T) {
	build := writeMinimalBuild(t)
	empty := t.TempDir()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "root command checks",
			args:       []string{"--root", build},
			wantCode:   0,
			wantStdout: "Summary: 8 passed, 9 warnings, 0 errors",
		},
		{
			name:       "check subcommand",
			args:       []string{"check", "--root", build, "--no-color"},
			wantCode:   0,
			wantStdout: "[PASS] manifest.required_fields",
		},
		{
			name:       "required failure",
			args:       []string{"check", "--root", empty},
			wantCode:   1,
			wantStdout: "[FAIL] manifest.exists",
		},
		{
			name:       "missing root",
			args:       []string{"check", "--root", filepath.Join(empty, "missing")},
			wantCode:   2,
			wantStderr: "error: cannot read artifact root",
		},
		{
			name:       "invalid console format",
			args:       []string{"check", "--root", build, "--console-format", "xml"},
			wantCode:   2,
			wantStderr: "unsupported --console-format: xml",
		},
		{
			name:       "malformed --set",
			args:       []string{"check", "--root", build, "--set", "severity=required"},
			wantCode:   2,
			wantStderr: "error:",
		},
		{
			name:       "watch with github",
			args:       []string{"check", "--github", "acme/shop", "--watch"},
			wantCode:   2,
			wantStderr: "--watch cannot be combined with --github",
		},
		{
			name:       "missing env file",
			args:       []string{"check", "--root", build, "--env-file", filepath.Join(empty, "missing.env")},
			wantCode:   2,
			wantStderr: "failed to load env file",
		},
		{
			name:       "unknown command",
			args:       []string{"scan"},
			wantCode:   2,
			wantStderr: `unknown command "scan"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := executeCommand(t, tt.args...)
			assert.Equal(t, tt.wantCode, res.code, "stderr: %s", res.stderr)
			if tt.wantStdout != "" {
				assert.Contains(t, res.stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, res.stderr, tt.wantStderr)
			}
		})
	}
}

func TestCheck_ConfigFile(t *testing.T) {
	build := writeMinimalBuild(t)
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "target:\n  root: " + build + "\nrules:\n  selector: \"manifest.*\"\n  options:\n    manifest.icon_sizes:\n      sizes: \"192\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pwacheck.yaml"), []byte(yaml), 0o644))

	t.Run("default file is loaded", func(t *testing.T) {
		res := executeIn(t, "check")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, report.Counts{Passed: 6}, summaryOf(t, res.stdout))
	})

	t.Run("flags win over the file", func(t *testing.T) {
		res := executeIn(t, "check", "--rules", "entry.exists,manifest.icon_sizes", "--set", "manifest.icon_sizes.sizes=512")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, report.Counts{Passed: 1, Warnings: 1}, summaryOf(t, res.stdout))
	})

	t.Run("explicit file", func(t *testing.T) {
		other := filepath.Join(t.TempDir(), "ci.yaml")
		require.NoError(t, os.WriteFile(other, []byte("target:\n  root: "+build+"\nrules:\n  selector: \"entry.exists\"\n"), 0o644))
		res := executeIn(t, "check", "--config", other)
		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, report.Counts{Passed: 1}, summaryOf(t, res.stdout))
	})

	t.Run("unknown key", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("target:\n  rot: build\n"), 0o644))
		res := executeIn(t, "check", "--config", bad)
		assert.Equal(t, 2, res.code)
		assert.Contains(t, res.stderr, "failed to parse config file")
	})
}

func TestCheck_StructuredOutputs(t *testing.T) {
	build := writeMinimalBuild(t)
	out := filepath.Join(t.TempDir(), "result.ndjson")

	res := executeCommand(t, "check", "--root", build, "--no-console", "--emit", "json", "--out", out)
	require.Equal(t, 0, res.code, res.stderr)

	assert.True(t, strings.HasPrefix(res.stdout, "{"), res.stdout)
	assert.Contains(t, res.stdout, `"exit_code": 0`)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Len(t, lines, 19)
	assert.Contains(t, lines[0], `"type":"run.started"`)
	assert.Contains(t, lines[18], `"type":"run.finished"`)
}

func TestCheck_ConsoleFilterKeepsSummary(t *testing.T) {
	build := writeMinimalBuild(t)

	res := executeCommand(t, "check", "--root", build, "--console-filter-status", "warn")
	require.Equal(t, 0, res.code, res.stderr)

	assert.NotContains(t, res.stdout, "[PASS]")
	assert.Contains(t, res.stdout, "[WARN]")
	assert.Equal(t, report.Counts{Passed: 8, Warnings: 9}, summaryOf(t, res.stdout))
}

func TestCheck_QuietLogging(t *testing.T) {
	build := writeMinimalBuild(t)

	res := executeCommand(t, "check", "--root", build)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "checking PWA artifacts")

	res = executeCommand(t, "check", "--root", build, "-q")
	require.Equal(t, 0, res.code, res.stderr)
	assert.NotContains(t, res.stderr, "checking PWA artifacts")
	assert.Equal(t, report.Counts{Passed: 8, Warnings: 9}, summaryOf(t, res.stdout))

	res = executeCommand(t, "check", "--root", build, "--quiet", "--verbose")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "mutually exclusive")
}

func TestVersion(t *testing.T) {
	res := executeCommand(t, "version")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "pwacheck dev\ncommit: unknown\n")

	res = executeCommand(t, "--version")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "dev (unknown) unknown\n", res.stdout)
}
