package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureCatalog = "../../testdata/catalog/properties.json"

type run struct {
	out    string
	errOut string
	err    error
}

// execute runs the root command against the fixture catalog, with stdin
// taken from input.
func execute(t *testing.T, input string, args ...string) run {
	t.Helper()

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--catalog", fixtureCatalog}, args...))

	err := cmd.Execute()
	return run{out: out.String(), errOut: errOut.String(), err: err}
}

func decodeResponse(t *testing.T, data string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(data), &resp))
	return resp
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
