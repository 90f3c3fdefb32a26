package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listSeed = `
kind: list
states: 3
choice: multiple
items:
  - pear
  - value: apple
    selected: true
    state: 2
  - value: plum
    disabled: true
  - banana
sort: asc
filters: [p]
`

const treeSeed = `
choice: single
scope: children
filter_empty_groups: true
groups:
  - name: fruit
    expanded: true
    children:
      - pear
      - value: fig
        selected: true
  - name: veg
    children: [leek]
  - name: empty
sort: desc
filters: [e]
`

const tomlSeed = `
kind = "list"
choice = "single"
items = ["kiwi", { value = "lime", selected = true }]
`

func writeSeed(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func useFilesystemCheckpoints(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ADAPTERCORE_CHECKPOINT_DRIVER", "fs")
	t.Setenv("ADAPTERCORE_CHECKPOINT_FS_ROOT", root)
	return root
}

func TestRenderList(t *testing.T) {
	out, _, err := run(t, "render", writeSeed(t, "list.yaml", listSeed))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "[x] apple")
	assert.Contains(t, lines[0], "(2/2)")
	assert.Contains(t, lines[1], "[ ] pear")
	assert.Contains(t, lines[2], "plum")
	assert.Contains(t, lines[3], "3 of 4 visible, 1 selected")
}

func TestRenderTree(t *testing.T) {
	out, _, err := run(t, "render", writeSeed(t, "tree.yml", treeSeed))
	require.NoError(t, err)
	assert.Contains(t, out, "▸ [ ] veg")
	assert.Contains(t, out, "▾ [ ] fruit")
	assert.Contains(t, out, "    [ ] pear")
	assert.NotContains(t, out, "fig", "filtered child must be hidden")
	assert.NotContains(t, out, "empty", "empty group must be hidden under an active child filter")
	assert.Less(t, strings.Index(out, "veg"), strings.Index(out, "fruit"), "groups are sorted descending")
}

func TestRenderTOMLSeed(t *testing.T) {
	out, _, err := run(t, "render", writeSeed(t, "list.toml", tomlSeed))
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] kiwi")
	assert.Contains(t, out, "[x] lime")
}

func TestRenderRejectsBadSeeds(t *testing.T) {
	_, _, err := run(t, "render", writeSeed(t, "seed.json", "{}"))
	assert.ErrorContains(t, err, "unsupported extension")

	_, _, err = run(t, "render", writeSeed(t, "seed.yaml", "kind: table\n"))
	assert.ErrorContains(t, err, "unknown kind")

	_, _, err = run(t, "render", writeSeed(t, "seed.yaml", "items: [a]\nchoice: sometimes\n"))
	assert.ErrorContains(t, err, "unknown choice mode")

	_, _, err = run(t, "render", writeSeed(t, "seed.yaml", "items: [{value: a, selected: true}]\n"))
	assert.Error(t, err, "selecting under choice mode none must fail")
}

func TestSaveShowRoundTrip(t *testing.T) {
	useFilesystemCheckpoints(t)
	seed := writeSeed(t, "list.yaml", listSeed)
	rendered, _, err := run(t, "render", seed)
	require.NoError(t, err)

	out, _, err := run(t, "save", seed, "--key", "lists/fruit")
	require.NoError(t, err)
	assert.Contains(t, out, "saved lists/fruit")
	assert.Contains(t, out, "via fs")

	shown, _, err := run(t, "show", "lists/fruit")
	require.NoError(t, err)
	assert.Equal(t, rendered, shown)
}

func TestSaveShowTree(t *testing.T) {
	useFilesystemCheckpoints(t)
	seed := writeSeed(t, "tree.yaml", treeSeed)
	rendered, _, err := run(t, "render", seed)
	require.NoError(t, err)
	_, _, err = run(t, "save", seed, "--key", "trees/produce")
	require.NoError(t, err)
	shown, _, err := run(t, "show", "trees/produce")
	require.NoError(t, err)
	assert.Equal(t, rendered, shown)
}

func TestCheckpointsListingAndDelete(t *testing.T) {
	useFilesystemCheckpoints(t)
	seed := writeSeed(t, "list.yaml", listSeed)
	out, _, err := run(t, "save", seed)
	require.NoError(t, err)
	assert.Regexp(t, `saved list/[0-9a-f-]{36} `, out)

	_, _, err = run(t, "save", seed, "--key", "pinned")
	require.NoError(t, err)

	listing, _, err := run(t, "checkpoints", "list/", "--plain")
	require.NoError(t, err)
	assert.Contains(t, listing, "KEY")
	assert.Regexp(t, `list/\S+\s+[0-9.]+ k?B\s+\S`, listing)
	assert.NotContains(t, listing, "pinned")
	assert.NotContains(t, listing, "│")

	boxed, _, err := run(t, "checkpoints", "list/")
	require.NoError(t, err)
	assert.Regexp(t, `│\s*KEY\s*│\s*SIZE\s*│\s*UPDATED\s*│`, boxed)
	assert.Regexp(t, `│\s*list/\S+\s*│\s*[0-9.]+ k?B\s*│`, boxed)
	assert.NotContains(t, boxed, "pinned")

	out, _, err = run(t, "delete", "pinned")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted pinned")

	_, _, err = run(t, "delete", "pinned")
	assert.ErrorContains(t, err, "not found")

	_, _, err = run(t, "show", "pinned")
	assert.ErrorContains(t, err, "not found")
}

func TestCheckpointsEmptyAndDriverOverride(t *testing.T) {
	useFilesystemCheckpoints(t)
	out, _, err := run(t, "checkpoints", "--driver", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "no checkpoints")

	_, _, err = run(t, "checkpoints", "--driver", "tape")
	assert.ErrorContains(t, err, "unknown checkpoint driver")
}

func TestMetricsFlag(t *testing.T) {
	_, errOut, err := run(t, "render", writeSeed(t, "list.yaml", listSeed), "--metrics")
	require.NoError(t, err)
	assert.Contains(t, errOut, `adaptercore_events_total{adapter="list",category="structure",kind="added",target="group"} 4`)
	assert.Contains(t, errOut, `kind="filter_applied"`)
	assert.Contains(t, errOut, "# TYPE adaptercore_events_total counter")
	assert.Contains(t, errOut, "# HELP adaptercore_events_total Adapter events dispatched to listeners.")
	assert.NotContains(t, errOut, "{}")
}

func TestLogFlags(t *testing.T) {
	seed := writeSeed(t, "dup.yaml", "items: [a, a]\n")
	_, errOut, err := run(t, "render", seed, "--log-format", "json", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, errOut, `"msg":"seed entry rejected"`)

	_, _, err = run(t, "render", seed, "--log-format", "xml")
	assert.ErrorContains(t, err, "unknown log format")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "adapterctl "+version+"\n", out)
}
