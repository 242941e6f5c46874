package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlags mirrors the command's flag set bound to a fresh viper.
func newFlags(t *testing.T, args ...string) (*viper.Viper, []string) {
	t.Helper()
	fs := pflag.NewFlagSet("nbpublish", pflag.ContinueOnError)
	fs.Int("trim-history", 0, "")
	fs.Int("trim-server-signature", 0, "")
	fs.String("output-dir", "", "")
	fs.Bool("clear-output", false, "")
	fs.Bool("tree", false, "")
	fs.String("report", "", "")
	require.NoError(t, fs.Parse(args))

	v := viper.New()
	for key, flag := range map[string]string{
		KeyTrimHistory:         "trim-history",
		KeyTrimServerSignature: "trim-server-signature",
		KeyOutputDir:           "output-dir",
		KeyClearOutput:         "clear-output",
		KeyTree:                "tree",
		KeyReport:              "report",
	} {
		require.NoError(t, v.BindPFlag(key, fs.Lookup(flag)))
	}
	return v, fs.Args()
}

func TestResolve_Defaults(t *testing.T) {
	v, args := newFlags(t, "a.ipynb", "b.ipynb")

	cfg, err := Resolve(v, args)
	require.NoError(t, err)

	wd, _ := os.Getwd()
	assert.Nil(t, cfg.TrimHistory)
	assert.Nil(t, cfg.TrimServerSignature)
	assert.False(t, cfg.ClearOutput)
	assert.False(t, cfg.Tree)
	assert.Equal(t, wd, cfg.OutputDir)
	assert.Equal(t, []string{"a.ipynb", "b.ipynb"}, cfg.Inputs)
}

func TestResolve_Flags(t *testing.T) {
	v, args := newFlags(t,
		"--trim-history=2", "--trim-server-signature=0",
		"--output-dir=/out", "--clear-output", "--tree", "--report=YAML",
		"x.ipynb")

	cfg, err := Resolve(v, args)
	require.NoError(t, err)

	require.NotNil(t, cfg.TrimHistory)
	require.NotNil(t, cfg.TrimServerSignature)
	assert.Equal(t, 2, *cfg.TrimHistory)
	assert.Equal(t, 0, *cfg.TrimServerSignature)
	assert.True(t, cfg.ClearOutput)
	assert.True(t, cfg.Tree)
	assert.Equal(t, "/out", cfg.OutputDir)
	assert.Equal(t, "yaml", cfg.Report)

	cc := cfg.Cleaner()
	assert.Equal(t, cfg.TrimHistory, cc.TrimHistory)
	assert.True(t, cc.ClearOutput)
}

func TestResolve_NoInputs(t *testing.T) {
	v, args := newFlags(t, "--clear-output")

	_, err := Resolve(v, args)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"negative_history", []string{"--trim-history=-1", "a.ipynb"}, "trim_history must be >= 0"},
		{"negative_signature", []string{"--trim-server-signature=-3", "a.ipynb"}, "trim_server_signature must be >= 0"},
		{"bad_report", []string{"--report=xml", "a.ipynb"}, "report must be one of"},
		{"empty_input", []string{"a.ipynb", ""}, "is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, args := newFlags(t, tt.args...)
			_, err := Resolve(v, args)
			require.ErrorIs(t, err, ErrConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestResolve_Environment(t *testing.T) {
	t.Setenv("NBPUBLISH_TRIM_HISTORY", "4")
	t.Setenv("NBPUBLISH_TREE", "true")

	v, args := newFlags(t, "a.ipynb")
	require.NoError(t, Load(v, filepath.Join(writeConfig(t, ""), ".nbpublish.yaml")))

	cfg, err := Resolve(v, args)
	require.NoError(t, err)
	require.NotNil(t, cfg.TrimHistory)
	assert.Equal(t, 4, *cfg.TrimHistory)
	assert.True(t, cfg.Tree)
}

func TestResolve_EnvironmentNotANumber(t *testing.T) {
	t.Setenv("NBPUBLISH_TRIM_SERVER_SIGNATURE", "lots")

	v, args := newFlags(t, "a.ipynb")
	require.NoError(t, Load(v, filepath.Join(writeConfig(t, ""), ".nbpublish.yaml")))

	_, err := Resolve(v, args)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoad_ConfigFile_FlagsWin(t *testing.T) {
	dir := writeConfig(t, "trim_history: 7\ntrim_server_signature: 1\nclear_output: true\noutput_dir: /from-file\n")

	v, args := newFlags(t, "--trim-history=3", "a.ipynb")
	require.NoError(t, Load(v, filepath.Join(dir, ".nbpublish.yaml")))

	cfg, err := Resolve(v, args)
	require.NoError(t, err)
	assert.Equal(t, 3, *cfg.TrimHistory)
	assert.Equal(t, 1, *cfg.TrimServerSignature)
	assert.True(t, cfg.ClearOutput)
	assert.Equal(t, "/from-file", cfg.OutputDir)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	v := viper.New()
	err := Load(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestValidate_Direct(t *testing.T) {
	n := -5
	err := Validate(&Config{TrimHistory: &n, OutputDir: "/out", Inputs: []string{"a"}})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "-5")

	err = Validate(&Config{OutputDir: "/out"})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "inputs")

	zero := 0
	assert.NoError(t, Validate(&Config{TrimHistory: &zero, OutputDir: "/out", Inputs: []string{"a"}}))
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".nbpublish.yaml"), []byte(content), 0o644))
	return dir
}
