package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/estate/internal/harness"
	"github.com/roach88/estate/internal/logging"
)

// goldenSubdir holds <name>.golden next to the scenario files.
const goldenSubdir = "golden"

// Outcome is the verdict for one scenario file.
type Outcome struct {
	Name    string   `json:"name"`
	Pass    bool     `json:"pass"`
	Updated bool     `json:"updated,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Summary aggregates every Outcome of a run.
type Summary struct {
	Scenarios []Outcome `json:"scenarios"`
	Passed    int       `json:"passed"`
	Failed    int       `json:"failed"`
	Total     int       `json:"total"`
}

func (s *Summary) record(o Outcome) {
	s.Scenarios = append(s.Scenarios, o)
	if o.Pass {
		s.Passed++
	} else {
		s.Failed++
	}
}

type scenarioSuite struct {
	dir    string
	filter string
	update bool
	logger logging.Logger
}

// NewTestCommand creates the test command.
func NewTestCommand(root *RootOptions) *cobra.Command {
	suite := &scenarioSuite{}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run session scenarios",
		Long: `Run YAML session scenarios on simulated time, checking their expect
clauses and assertions. When <scenarios-dir>/golden/<file>.golden exists the
trace must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  estate test ./testdata/scenarios
  estate test ./testdata/scenarios --filter "search-*"
  estate test ./testdata/scenarios --update
  estate test ./testdata/scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.resolve(cmd); err != nil {
				return err
			}
			suite.dir = args[0]
			suite.logger = root.logger
			return suite.run(root.formatter(cmd))
		},
	}

	cmd.Flags().BoolVar(&suite.update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&suite.filter, "filter", "", "only run scenarios whose file name matches this glob")

	return cmd
}

func (s *scenarioSuite) run(out *OutputFormatter) error {
	if info, err := os.Stat(s.dir); err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, "scenarios directory not found: "+s.dir)
	}

	files, err := s.files()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	sum := Summary{Scenarios: make([]Outcome, 0, len(files)), Total: len(files)}
	for _, file := range files {
		o := s.runOne(file)
		sum.record(o)
		if !out.JSON() {
			writeOutcome(out.Writer, o)
		}
	}

	if s.logger != nil {
		s.logger.Debug("scenarios finished", logging.Fields{"passed": sum.Passed, "failed": sum.Failed})
	}

	if out.JSON() {
		return s.reportJSON(out, sum)
	}
	return s.reportText(out.Writer, sum)
}

// files lists scenario files under dir in walk order. The golden
// subdirectory is never descended into.
func (s *scenarioSuite) files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.dir && d.Name() == goldenSubdir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if s.filter != "" {
			ok, err := filepath.Match(s.filter, strings.TrimSuffix(d.Name(), ext))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func (s *scenarioSuite) runOne(file string) Outcome {
	failed := func(name string, errs ...string) Outcome {
		return Outcome{Name: name, Errors: errs}
	}

	sc, err := harness.LoadScenario(file)
	if err != nil {
		return failed(filepath.Base(file), fmt.Sprintf("failed to load scenario: %v", err))
	}

	var opts []harness.Option
	if s.logger != nil {
		opts = append(opts, harness.WithLogger(s.logger))
	}
	res, err := harness.Run(sc, opts...)
	if err != nil {
		return failed(sc.Name, fmt.Sprintf("execution failed: %v", err))
	}

	snap, err := harness.Snapshot(sc.Name, sc.SessionID, res.Trace)
	if err != nil {
		return failed(sc.Name, fmt.Sprintf("failed to snapshot trace: %v", err))
	}

	golden := goldenPath(file)
	if s.update {
		if err := writeGolden(golden, snap); err != nil {
			return failed(sc.Name, fmt.Sprintf("failed to update golden file: %v", err))
		}
	} else if msg := compareGolden(golden, snap); msg != "" {
		return failed(sc.Name, msg)
	}

	if !res.Pass {
		return failed(sc.Name, res.Errors...)
	}
	return Outcome{Name: sc.Name, Pass: true, Updated: s.update}
}

// compareGolden returns a failure message, or "" when the golden file
// matches or does not exist.
func compareGolden(path string, snap []byte) string {
	want, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ""
	case err != nil:
		return fmt.Sprintf("golden comparison failed: %v", err)
	case !bytes.Equal(want, snap):
		return "trace does not match golden file (run with --update to regenerate)"
	}
	return ""
}

func goldenPath(file string) string {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return filepath.Join(filepath.Dir(file), goldenSubdir, name+".golden")
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeOutcome(w io.Writer, o Outcome) {
	switch {
	case !o.Pass:
		fmt.Fprintf(w, "✗ %s\n", o.Name)
		for _, e := range o.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	case o.Updated:
		fmt.Fprintf(w, "✓ %s (golden updated)\n", o.Name)
	default:
		fmt.Fprintf(w, "✓ %s\n", o.Name)
	}
}

func (s *scenarioSuite) reportJSON(out *OutputFormatter, sum Summary) error {
	if sum.Failed == 0 {
		return out.Success(sum, nil)
	}
	msg := failedMessage(sum)
	if err := out.encode(CLIResponse{
		Status: "error",
		Data:   sum,
		Error:  &CLIError{Code: ErrCodeScenario, Message: msg},
	}); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

func (s *scenarioSuite) reportText(w io.Writer, sum Summary) error {
	if sum.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	fmt.Fprintf(w, "\nTest Summary: %d passed, %d failed, %d total\n", sum.Passed, sum.Failed, sum.Total)
	if sum.Failed > 0 {
		return NewExitError(ExitFailure, failedMessage(sum))
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

func failedMessage(sum Summary) string {
	return fmt.Sprintf("%d scenario(s) failed", sum.Failed)
}
