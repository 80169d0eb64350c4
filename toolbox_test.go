package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	t.Setenv(globalConfigVar, "")

	tests := []struct {
		args   []string
		n      int
		flags  []string
		config string
	}{
		{[]string{"toolbox", "dist"}, 0, []string{}, ""},
		{[]string{"toolbox", "dist", "a.config"}, 1, []string{}, ""},
		{[]string{"toolbox", "dist", "--Tolerance", "1e-6", "a.config",
			"b.dist.config"}, 2, []string{"--Tolerance", "1e-6"}, "b.dist.config"},
		{[]string{"toolbox", "angsep", "--Units", "degree"}, 0,
			[]string{"--Units", "degree"}, ""},
	}

	for i, tt := range tests {
		assert.Equal(t, tt.n, configNum(tt.args), "%d", i)
		assert.Equal(t, tt.flags, getFlags(tt.args), "%d", i)
		config, _ := getConfig(tt.args)
		assert.Equal(t, tt.config, config, "%d", i)
	}
}

func TestArgsEnv(t *testing.T) {
	t.Setenv(globalConfigVar, "global.config")
	args := []string{"toolbox", "dist", "b.dist.config"}
	config, ok := getConfig(args)
	assert.True(t, ok)
	assert.Equal(t, "b.dist.config", config)

	_, err := getGlobalConfig([]string{"toolbox", "dist", "a.config", "b.config"})
	assert.Error(t, err)
}

func TestGetGlobalConfigDefault(t *testing.T) {
	t.Setenv(globalConfigVar, "")
	config, err := getGlobalConfig([]string{"toolbox", "dist"})
	require.NoError(t, err)
	assert.Equal(t, 0.693, config.H100)
}

func TestStdinLines(t *testing.T) {
	lines, err := stdinLines(strings.NewReader("1 2\n3 4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1 2", "3 4"}, lines)

	lines, err = stdinLines(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestHelpStrings(t *testing.T) {
	for _, name := range []string{"angsep", "dist", "sep", "match", "zscale", "phot"} {
		assert.Contains(t, helpStrings, name)
		assert.Contains(t, helpStrings, name+".config")
	}
}
