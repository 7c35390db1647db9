// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/snapdiff/internal/compare"
	"github.com/tfctl/snapdiff/internal/config"
	"github.com/tfctl/snapdiff/internal/schema"
)

const (
	prevCSV = "testdata/prev.csv"
	currCSV = "testdata/curr.csv"
	badCSV  = "testdata/bad.csv"
)

// run executes snapdiff with args and returns what it wrote. The config file
// is cfgFile, or an empty one.
func run(t *testing.T, cfgFile string, stdin string, args ...string) (string, error) {
	t.Helper()

	if cfgFile == "" {
		cfgFile = filepath.Join(t.TempDir(), "snapdiff.yaml")
		require.NoError(t, os.WriteFile(cfgFile, []byte("{}\n"), 0o600))
	}
	t.Setenv("SNAPDIFF_CFG_FILE", cfgFile)
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })

	argv := append([]string{"snapdiff"}, args...)
	app, err := InitApp(context.Background(), argv)
	require.NoError(t, err)

	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	app.Reader = strings.NewReader(stdin)

	err = app.Run(context.Background(), StdinArgs(app, argv))
	return out.String(), err
}

func csvRecords(t *testing.T, s string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestDiff_CSV(t *testing.T) {
	out, err := run(t, "", "", "diff", prevCSV, currCSV, "--output", "csv")
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"record_id", "change_type", "changed_columns", "details", "category"},
		{"1", "UNCHANGED", "-", "-", "food"},
		{"2", "UPDATE", "price,stock,updated_at", "price:50→60, stock:20→18, updated_at:2026-02-14 09:00:00→2026-02-16 09:00:00", "food"},
		{"3", "DELETE", "-", "Deleted record", "tools"},
		{"4", "UPDATE", "status", "status:active→inactive", "toys"},
		{"5", "INSERT", "-", "New record", "tools"},
	}, csvRecords(t, out))
}

func TestDiff_Report(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdc_report.csv")

	_, err := run(t, "", "", "diff", prevCSV, currCSV, "--report", path, "--changes-only", "--summary-only")
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	records := csvRecords(t, string(b))

	// The report is unaffected by display flags.
	require.Len(t, records, 6)
	assert.Equal(t, []string{"record_id", "change_type", "changed_columns", "details"}, records[0])
	assert.Equal(t, []string{"1", "UNCHANGED", "-", "-"}, records[1])

	_, err = run(t, "", "", "diff", prevCSV, currCSV, "--report", path, "--report-category")
	require.NoError(t, err)
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "category", csvRecords(t, string(b))[0][4])
}

func TestDiff_Text(t *testing.T) {
	out, err := run(t, "", "", "diff", prevCSV, currCSV, "--titles")
	require.NoError(t, err)

	assert.Contains(t, out, "record_id")
	assert.Contains(t, out, "status:active→inactive")
	assert.Contains(t, out, "Previous records: 4")
	assert.Contains(t, out, "Current records:  4")
	assert.Contains(t, out, "Changes by category")
	assert.Contains(t, out, "Processing time:")
}

func TestDiff_JSON(t *testing.T) {
	out, err := run(t, "", "", "diff", prevCSV, "testdata/curr.json", "--json-path", "products", "--output", "json", "--workers", "4")
	require.NoError(t, err)

	var doc struct {
		RunID   string `json:"run_id"`
		Mode    string `json:"mode"`
		Summary struct {
			PreviousCount int            `json:"previous_count"`
			CurrentCount  int            `json:"current_count"`
			Counts        map[string]int `json:"counts"`
		} `json:"summary"`
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(out), &doc))

	assert.NotEmpty(t, doc.RunID)
	assert.Equal(t, "strict", doc.Mode)
	assert.Equal(t, 4, doc.Summary.PreviousCount)
	assert.Equal(t, 4, doc.Summary.CurrentCount)
	assert.Equal(t, map[string]int{"INSERT": 1, "UPDATE": 2, "DELETE": 1, "UNCHANGED": 1}, doc.Summary.Counts)
	require.Len(t, doc.Results, 5)
	assert.Equal(t, "price,stock,updated_at", doc.Results[1]["changed_columns"])
}

func TestDiff_Stdin(t *testing.T) {
	prev, err := os.ReadFile(prevCSV)
	require.NoError(t, err)

	out, err := run(t, "", string(prev), "diff", "-", currCSV, "--output", "csv")
	require.NoError(t, err)
	assert.Len(t, csvRecords(t, out), 6)

	out, err = run(t, "", string(prev), "diff", "--output", "csv", "-", currCSV)
	require.NoError(t, err)
	assert.Len(t, csvRecords(t, out), 6)

	curr, err := os.ReadFile(currCSV)
	require.NoError(t, err)
	out, err = run(t, "", string(curr), "diff", prevCSV, "-", "--output", "csv")
	require.NoError(t, err)
	assert.Len(t, csvRecords(t, out), 6)

	_, err = run(t, "", string(prev), "diff", "-", "-")
	assert.ErrorContains(t, err, "stdin")
}

func TestStdinArgs(t *testing.T) {
	t.Setenv("SNAPDIFF_CFG_FILE", filepath.Join(t.TempDir(), "none.yaml"))
	app, err := InitApp(context.Background(), []string{"snapdiff", "diff"})
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "leading stdin",
			args: []string{"snapdiff", "diff", "-", "b.csv"},
			want: []string{"snapdiff", "diff", "stdin:", "b.csv"},
		},
		{
			name: "after bool flag",
			args: []string{"snapdiff", "diff", "--changes-only", "-", "b.csv"},
			want: []string{"snapdiff", "diff", "--changes-only", "stdin:", "b.csv"},
		},
		{
			name: "flag value kept",
			args: []string{"snapdiff", "diff", "a.csv", "b.csv", "--placeholder", "-"},
			want: []string{"snapdiff", "diff", "a.csv", "b.csv", "--placeholder", "-"},
		},
		{
			name: "after terminator",
			args: []string{"snapdiff", "diff", "--placeholder", "x", "--", "-", "b.csv"},
			want: []string{"snapdiff", "diff", "--placeholder", "x", "--", "stdin:", "b.csv"},
		},
		{
			name: "unknown command",
			args: []string{"snapdiff", "nope", "-"},
			want: []string{"snapdiff", "nope", "-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StdinArgs(app, tt.args))
		})
	}
}

func TestDiff_Shaping(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantKeys []string
	}{
		{"changes only", []string{"--changes-only"}, []string{"2", "3", "4", "5"}},
		{"filter", []string{"--filter", "change_type=UPDATE"}, []string{"2", "4"}},
		{"filter on changed columns", []string{"--filter", "changed_columns@price"}, []string{"2"}},
		{"sort descending", []string{"--sort", "-record_id"}, []string{"5", "4", "3", "2", "1"}},
		{"sort by type then key", []string{"--sort", "change_type,record_id"}, []string{"3", "5", "1", "2", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"diff", prevCSV, currCSV, "--output", "csv"}, tt.args...)
			out, err := run(t, "", "", args...)
			require.NoError(t, err)

			var keys []string
			for _, r := range csvRecords(t, out)[1:] {
				keys = append(keys, r[0])
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestDiff_Modes(t *testing.T) {
	t.Run("strict aborts", func(t *testing.T) {
		out, err := run(t, "", "", "diff", prevCSV, badCSV)
		require.Error(t, err)
		assert.ErrorIs(t, err, compare.ErrTypeCoercion)
		assert.Contains(t, err.Error(), "classification aborted")
		assert.Empty(t, out)
	})

	t.Run("best effort skips the field", func(t *testing.T) {
		out, err := run(t, "", "", "diff", prevCSV, badCSV, "--mode", "best-effort", "--output", "csv")
		require.NoError(t, err)
		records := csvRecords(t, out)
		assert.Equal(t, []string{"2", "UPDATE", "stock,updated_at"}, records[2][:3])
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := run(t, "", "", "diff", prevCSV, currCSV, "--mode", "lenient")
		assert.Error(t, err)
	})
}

func TestDiff_Errors(t *testing.T) {
	_, err := run(t, "", "", "diff", prevCSV)
	assert.ErrorContains(t, err, "PREVIOUS and CURRENT")

	_, err = run(t, "", "", "diff", prevCSV, "testdata/missing.csv")
	assert.Error(t, err)

	_, err = run(t, "", "", "diff", prevCSV, currCSV, "--output", "xml")
	assert.Error(t, err)

	_, err = run(t, "", "", "diff", prevCSV, currCSV, "--fields", "price:money")
	assert.ErrorContains(t, err, "unknown type")
}

func TestDiff_Config(t *testing.T) {
	cfg, err := filepath.Abs("testdata/snapdiff.yaml")
	require.NoError(t, err)

	// diff.output in the config selects csv.
	out, err := run(t, cfg, "", "diff", prevCSV, currCSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "record_id,change_type"))

	// An explicit flag beats the config.
	out, err = run(t, cfg, "", "diff", prevCSV, currCSV, "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "run_id:")
}

func TestShow(t *testing.T) {
	out, err := run(t, "", "", "show", prevCSV, currCSV, "--record", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "price")
	assert.Contains(t, out, "60")
	assert.NotContains(t, out, "identical")

	out, err = run(t, "", "", "show", prevCSV, currCSV, "--record", "1")
	require.NoError(t, err)
	assert.Equal(t, "Record 1 is identical.\n", out)

	_, err = run(t, "", "", "show", prevCSV, currCSV, "--record", "99")
	assert.ErrorContains(t, err, "not found")

	_, err = run(t, "", "", "show", prevCSV, currCSV, "--record", "x")
	assert.ErrorContains(t, err, "not an int")
}

func TestSchema(t *testing.T) {
	out, err := run(t, "", "", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "key: product_id")
	assert.Contains(t, out, "name: updated_at")

	out, err = run(t, "", "", "schema", "--key", "sku", "--key-type", "string", "--fields", "price:number:trunc,name")
	require.NoError(t, err)
	assert.Contains(t, out, "key: sku")
	assert.Contains(t, out, "truncate: true")
	assert.NotContains(t, out, "updated_at")
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "", "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _snapdiff snapdiff")

	out, err = run(t, "", "", "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef snapdiff")
}

func TestLoadSchema_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key: id\nkeyType: int\nfields:\n  - name: amount\n    type: number\n"), 0o600))

	out, err := run(t, "", "", "schema", "--schema-file", path, "--category", "region")
	require.NoError(t, err)
	assert.Contains(t, out, "key: id")
	assert.Contains(t, out, "category: region")
	assert.Contains(t, out, "type: number")
}

func TestParseKey(t *testing.T) {
	k, err := parseKey(" 42 ", schema.TypeInt)
	require.NoError(t, err)
	assert.Equal(t, int64(42), k.Int())

	k, err = parseKey("sku-1", schema.TypeString)
	require.NoError(t, err)
	assert.Equal(t, "sku-1", k.String())

	_, err = parseKey("4.2", schema.TypeInt)
	assert.Error(t, err)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, OutputValidator("csv"))
	assert.Error(t, OutputValidator("raw"))
	assert.NoError(t, ModeValidator("best-effort"))
	assert.Error(t, ModeValidator(""))
	assert.NoError(t, KeyTypeValidator("int"))
	assert.Error(t, KeyTypeValidator("number"))
	assert.NoError(t, FormatValidator(""))
	assert.Error(t, FormatValidator("xml"))
	assert.NoError(t, DelimiterValidator(";"))
	assert.Error(t, DelimiterValidator(";;"))
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "SNAPDIFF_AWS_PROFILE", envName("aws.profile"))
	assert.Equal(t, "SNAPDIFF_JSON_PATH", envName("json-path"))
	assert.Equal(t, "SNAPDIFF_MODE", envName("mode"))
}
