package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/atikulmunna/loglens/internal/output"
	"github.com/atikulmunna/loglens/internal/report"
	"github.com/atikulmunna/loglens/internal/source"
)

const accessLog = `10.0.0.1 - - [03/Dec/2024:10:12:34 +0000] "GET /home HTTP/1.1" 200 512
10.0.0.1 - - [03/Dec/2024:10:12:35 +0000] "POST /login HTTP/1.1" 401 128
10.0.0.2 - - [03/Dec/2024:10:12:36 +0000] "GET /home HTTP/1.1" 200 512
truncated line
`

// run executes the command tree in an isolated home directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func writeLog(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "access.log")
	if err := os.WriteFile(path, []byte(accessLog), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, path
}

func TestAnalyze(t *testing.T) {
	dir, logPath := writeLog(t)
	csvPath := filepath.Join(dir, "results.csv")

	out, err := run(t, logPath, "-o", csvPath)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"10.0.0.1             2",
		"/home (Accessed 2 times)",
		"Skipped 1 malformed line(s); 3 parsed.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "Suspicious Activity:\nIP Address,Failed Login Count\n10.0.0.1,1\n") {
		t.Errorf("unexpected CSV:\n%s", raw)
	}
}

func TestAnalyzeSubcommandJSON(t *testing.T) {
	_, logPath := writeLog(t)

	out, err := run(t, "analyze", logPath, "--format", "json", "--output", "", "--pipeline", "--buffer", "1")
	if err != nil {
		t.Fatal(err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if rep.Parsed != 3 || rep.Skipped != 1 {
		t.Errorf("expected parsed=3 skipped=1, got parsed=%d skipped=%d", rep.Parsed, rep.Skipped)
	}
	if diff := cmp.Diff([]string{logPath}, rep.Sources); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeThresholdAndMarker(t *testing.T) {
	_, logPath := writeLog(t)

	out, err := run(t, logPath, "-o", "", "-f", "json", "--threshold", "1")
	if err != nil {
		t.Fatal(err)
	}
	var rep report.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatal(err)
	}
	if len(rep.Suspicious) != 0 {
		t.Errorf("expected nobody above threshold 1, got %v", rep.Suspicious)
	}

	out, err = run(t, logPath, "-o", "", "-f", "json", "--marker", "200")
	if err != nil {
		t.Fatal(err)
	}
	rep = report.Report{}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatal(err)
	}
	if len(rep.Suspicious) != 2 {
		t.Errorf("expected two addresses with status 200, got %v", rep.Suspicious)
	}
}

func TestAnalyzeMissingInput(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "missing.log"), "-o", "")

	var inErr *source.InputUnavailableError
	if !errors.As(err, &inErr) {
		t.Fatalf("expected InputUnavailableError, got %v", err)
	}
}

func TestAnalyzeUnwritableOutput(t *testing.T) {
	dir, logPath := writeLog(t)

	out, err := run(t, logPath, "-o", filepath.Join(dir, "missing-dir", "results.csv"))

	var wErr *output.OutputWriteError
	if !errors.As(err, &wErr) {
		t.Fatalf("expected OutputWriteError, got %v", err)
	}
	if !strings.Contains(out, "Most Frequently Accessed Endpoint:") {
		t.Errorf("terminal report should be printed before the save fails:\n%s", out)
	}
}

func TestAnalyzeConfigFile(t *testing.T) {
	dir, logPath := writeLog(t)
	cfgPath := filepath.Join(dir, "loglens.yaml")
	cfg := "input:\n  - " + logPath + "\noutput: \"\"\nformat: json\nmarker: \"401\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"parsed_lines": 3`) {
		t.Errorf("expected JSON report from config input:\n%s", out)
	}
}

func TestAnalyzeInvalidConfig(t *testing.T) {
	_, logPath := writeLog(t)

	if _, err := run(t, logPath, "--threshold", "-2"); err == nil {
		t.Error("expected validation error for negative threshold")
	}
	if _, err := run(t, logPath, "--parser", "regex"); err == nil {
		t.Error("expected validation error for regex parser without pattern")
	}
}
