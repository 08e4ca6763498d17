package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/minutetype/internal/config"
	"github.com/verte-zerg/minutetype/internal/model"
	"github.com/verte-zerg/minutetype/internal/store"
)

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	meta, err := toml.Decode(defaultConfigTemplate(), &cfg)
	require.NoError(t, err)
	assert.Empty(t, meta.Undecoded())
	assert.Nil(t, cfg.Test.Lang)
	assert.Empty(t, cfg.Tiers)
}

func TestEnsureConfigFileKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minutetype", "config.toml")
	require.NoError(t, ensureConfigFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[test]")

	require.NoError(t, os.WriteFile(path, []byte("[test]\nlang = \"de\"\n"), 0o644))
	require.NoError(t, ensureConfigFile(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[test]\nlang = \"de\"\n", string(data))
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := newRootCmd()
	lang := "de"
	caps := 0.25
	save := false

	applyStringConfig(cmd, "lang", &testLang, &lang)
	applyFloatConfig(cmd, "caps", &testCaps, &caps)
	applyBoolConfig(cmd, "save", &testSave, &save)
	assert.Equal(t, "de", testLang)
	assert.Equal(t, 0.25, testCaps)
	assert.False(t, testSave)

	require.NoError(t, cmd.Flags().Set("lang", "fr"))
	applyStringConfig(cmd, "lang", &testLang, &lang)
	assert.Equal(t, "fr", testLang)

	applyStringConfig(cmd, "punct-set", &testPunctSet, nil)
	assert.Equal(t, defaultPunctSet, testPunctSet)
}

func TestBuildFilter(t *testing.T) {
	f, err := buildFilter(" EN ", "2026-02-01", 10, 3)
	require.NoError(t, err)
	assert.Equal(t, "en", f.Lang)
	assert.Equal(t, 10, f.Last)
	assert.Equal(t, 3, f.Window)
	require.NotNil(t, f.Since)
	assert.Equal(t, time.February, f.Since.Month())

	_, err = buildFilter("", "yesterday", 0, 1)
	assert.ErrorContains(t, err, "--since")

	_, err = buildFilter("", "", -1, 1)
	assert.ErrorContains(t, err, "--last")
}

func TestResolveWordListPathPrefersExplicit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	assert.Equal(t, "/tmp/words.txt", resolveWordListPath(model.Config{Lang: "en", WordList: "/tmp/words.txt"}))
	assert.Equal(t, "", resolveWordListPath(model.Config{Lang: "en"}))

	dir := config.DefaultWordListDir()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "de.txt")
	require.NoError(t, os.WriteFile(path, []byte("haus\n"), 0o644))
	assert.Equal(t, path, resolveWordListPath(model.Config{Lang: "de"}))
}

func TestRunPlainHistory(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	end := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	_, err = st.InsertResult(ctx, model.Result{
		StartedAt: end.Add(-time.Minute),
		EndedAt:   end,
		Lang:      "en",
		WPM:       47,
		CPM:       240,
		Accuracy:  94,
		Tier:      "Rabbit",
		TierIcon:  "🐇",
	}, []model.Mistake{{Position: 3, Word: "their", Typed: "thier"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, runPlainHistory(ctx, &buf, st, model.HistoryFilter{Window: 1}))
	out := buf.String()
	assert.Contains(t, out, "Best WPM: 47")
	assert.Contains(t, out, "Rabbit")
	assert.Contains(t, out, "their")
}

func TestCommandsRegistered(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "history", "export"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}
