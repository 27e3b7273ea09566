package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	content := "history:\n  path: " + filepath.Join(dir, "history.db") +
		"\nfavorites:\n  path: " + filepath.Join(dir, "saved.yaml") +
		"\nquery:\n  owner_field: userId\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0600))

	c := &cli{}
	cmd := newRootCmd(c)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := execute(c, cmd)
	require.Nil(t, c.app, "app left open")
	return out.String(), err
}

func TestReadRequest(t *testing.T) {
	raw, err := readRequest(nil, "", nil)
	require.NoError(t, err)
	require.Equal(t, "{}", string(raw))

	raw, err = readRequest([]string{`{"page":2}`}, "", nil)
	require.NoError(t, err)
	require.Equal(t, `{"page":2}`, string(raw))

	raw, err = readRequest(nil, "-", strings.NewReader(`{"limit":1}`))
	require.NoError(t, err)
	require.Equal(t, `{"limit":1}`, string(raw))

	_, err = readRequest([]string{"{}"}, "req.json", nil)
	require.Error(t, err)
}

func TestCompileCommand(t *testing.T) {
	out, err := runCLI(t, "", "compile", "Article", `{"filter":{"views":{"$gte":10}},"perPage":5}`, "--principal", "4")
	require.NoError(t, err)

	var got struct {
		Entity string `json:"entity"`
		Count  struct {
			SQL  string        `json:"sql"`
			Args []interface{} `json:"args"`
		} `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "Article", got.Entity)
	require.Contains(t, got.Count.SQL, `"Article"."views" >= $1`)
	require.Equal(t, []interface{}{float64(10), float64(4)}, got.Count.Args)
}

func TestCompileCommand_Stdin(t *testing.T) {
	out, err := runCLI(t, `{"sort":{"field":"id","direction":"ASC"}}`, "compile", "Category", "-f", "-")
	require.NoError(t, err)
	require.Contains(t, out, `ORDER BY`)
}

func TestCompileCommand_Errors(t *testing.T) {
	_, err := runCLI(t, "", "compile", "Nope")
	require.Error(t, err)

	_, err = runCLI(t, "", "compile", "Article", "--principal", "abc")
	require.Error(t, err)
}

func TestSavedCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("favorites:\n  path: "+filepath.Join(dir, "saved.yaml")+"\n"), 0600))

	run := func(args ...string) (string, error) {
		c := &cli{}
		cmd := newRootCmd(c)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs(append([]string{"--config", cfg}, args...))
		err := execute(c, cmd)
		return out.String(), err
	}

	out, err := run("saved", "add", "drafts", "Article", `{"filter":{"status":"draft"}}`, "-t", "editor")
	require.NoError(t, err)
	require.Contains(t, out, `saved "drafts"`)

	out, err = run("saved", "list")
	require.NoError(t, err)
	require.Contains(t, out, "drafts")
	require.Contains(t, out, "editor")

	_, err = run("saved", "delete", "drafts")
	require.NoError(t, err)
	_, err = run("saved", "delete", "drafts")
	require.Error(t, err)
}

func TestExecute_ClosesAppOnFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("{}\n"), 0600))

	c := &cli{}
	cmd := newRootCmd(c)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfg, "compile", "Nope"})

	var opened bool
	prerun := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(cc *cobra.Command, args []string) error {
		err := prerun(cc, args)
		opened = c.app != nil
		return err
	}

	require.Error(t, execute(c, cmd))
	require.True(t, opened)
	require.Nil(t, c.app)
	require.Nil(t, c.logger)
}

func TestOperatorsCommand(t *testing.T) {
	out, err := runCLI(t, "", "operators")
	require.NoError(t, err)
	require.Contains(t, out, "$iLike")
	require.Contains(t, out, "Op.iLike")
}
