package main

import (
	"testing"

	options "github.com/richinsley/goshaderfx/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(mode string, headless bool) *options.ShaderOptions {
	empty := ""
	return &options.ShaderOptions{Mode: &mode, Headless: &headless, PresetFile: &empty}
}

func TestRunRejectsHeadlessWindow(t *testing.T) {
	err := run(testOptions("window", true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-headless requires -mode record")
}

func TestRunRejectsUnknownMode(t *testing.T) {
	err := run(testOptions("stream", false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
