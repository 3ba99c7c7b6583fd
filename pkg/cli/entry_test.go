package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/rumm/internal/config"
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/pkg/cli"
)

func TestRunVersionPrintsConfiguredVersion(t *testing.T) {
	var out bytes.Buffer
	code := cli.Run([]string{"--version"}, &out, &out)
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), config.Version)
}

func TestRunHelpPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	code := cli.Run([]string{"--help"}, &out, &out)
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "rumm <script.rmm>")
}

func TestRunNoArgsPrintsUsageAndFails(t *testing.T) {
	var out, errOut bytes.Buffer
	code := cli.Run(nil, &out, &errOut)
	require.Equal(t, 2, code)
	require.Contains(t, errOut.String(), "usage")
}

// seedDatabase builds an on-disk SQLite statement store at dbPath
// declaring every statement the end-to-end scripts below reference, the
// way a real formal-system database would already exist before rumm
// runs against it.
func seedDatabase(t *testing.T, dbPath string) {
	t.Helper()
	s, err := database.OpenSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	s.DeclareOperator("wff", 0)
	s.DeclareVariable("ph", "wff")

	leaf, err := s.ParseFormula([]database.TokenSym{
		{Symbol: database.Symbol{Name: "wff"}},
		{Symbol: database.Symbol{Name: "ph", IsVar: true}},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeclareStatement("hole", false, leaf, nil))
	require.NoError(t, s.DeclareStatement("nope", false, leaf, nil))
}

// writeProjectConfig points rumm.yaml at dbName (relative to dir), the
// same way runScript resolves it (next to the script being run).
func writeProjectConfig(t *testing.T, dir, dbName string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rumm.yaml"),
		[]byte("database: "+dbName+"\n"), 0o644))
}

// TestRunScriptEndToEnd exercises the default `rumm <script.rmm>` path
// against a real file on disk, including a skipped obligation (exit
// code stays 0).
func TestRunScriptEndToEnd(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, filepath.Join(dir, "facts.db"))
	writeProjectConfig(t, dir, "facts.db")

	script := filepath.Join(dir, "main.rmm")
	require.NoError(t, os.WriteFile(script, []byte(`
proof ~hole ?
`), 0o644))

	var out, errOut bytes.Buffer
	code := cli.Run([]string{script}, &out, &errOut)
	require.Equal(t, 0, code, "an all-skipped script must not fail the run: %s", errOut.String())
	require.Contains(t, out.String(), "hole failed")
}

// TestRunScriptUnknownLabelFailsExitCode covers a genuine (non-skip)
// failure: the referenced rule label isn't in the statement database.
func TestRunScriptUnknownLabelFailsExitCode(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, filepath.Join(dir, "facts.db"))
	writeProjectConfig(t, dir, "facts.db")

	script := filepath.Join(dir, "main.rmm")
	require.NoError(t, os.WriteFile(script, []byte(`
proof ~nope { apply ~does-not-exist }
`), 0o644))

	var out, errOut bytes.Buffer
	code := cli.Run([]string{script}, &out, &errOut)
	require.Equal(t, 1, code, "a genuine (non-skip) failure must make the run exit nonzero: %s", errOut.String())
	require.Contains(t, out.String(), "nope failed")
}
