package main

import (
	"strings"
	"testing"

	"github.com/aislemap/backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestReadItems(t *testing.T) {
	input := "2 milk\n\n  apple  \n\t\npaper towels"

	items, err := readItems(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{"2 milk", "apple", "paper towels"}, items)
}

func TestReadItems_Empty(t *testing.T) {
	items, err := readItems(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		verbose bool
		want    zapcore.Level
	}{
		{"info", config.LoggingConfig{Level: "info"}, false, zapcore.InfoLevel},
		{"warn development", config.LoggingConfig{Level: "WARN", Development: true}, false, zapcore.WarnLevel},
		{"verbose wins", config.LoggingConfig{Level: "error"}, true, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := newLogger(tt.cfg, tt.verbose)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := newLogger(config.LoggingConfig{Level: "loud"}, false)
	assert.Error(t, err)
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["categorize"])
	assert.NotNil(t, categorizeCmd.Flags().Lookup("quick"))
}
