package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probonopd/qwlroots/iface"
)

func TestPrintCatalog(t *testing.T) {
	var b strings.Builder
	printCatalog(&b, iface.Catalog())
	out := b.String()

	assert.Contains(t, out, "Type: wlr_buffer\n")
	assert.Contains(t, out, "init:   wlr.BufferInit")
	assert.Contains(t, out, "Destroy func(*wlr.Buffer) [destroy]")
	assert.Contains(t, out, "signals: release")
	assert.Contains(t, out, "plan *main.checkerBuffer:")
	assert.Regexp(t, `GetShm\s+disabled`, out)
	assert.Regexp(t, `BeginDataPtrAccess\s+bound`, out)
}

func TestRunDemo(t *testing.T) {
	var b strings.Builder
	require.NoError(t, runDemo(&b, "pixman"))
	out := b.String()

	assert.Contains(t, out, "renderer: pixman (pixman=true, drm fd -1)")
	assert.Regexp(t, `buffer \d+: Initialized, 4x4`, out)
	assert.Contains(t, out, "texture: 4x4, read format AR24")
	assert.Contains(t, out, "pixel(0,0)=e0e0e0ff pixel(1,0)=202020ff")
	assert.Contains(t, out, "event: release\nlive objects: 1\nevent: before destroy\n")
	assert.Contains(t, out, ": Freed\nlive objects: 0\n")
}

func TestRunDemo_UnknownRenderer(t *testing.T) {
	var b strings.Builder
	err := runDemo(&b, "gles2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create renderer")
	assert.Empty(t, b.String())
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestInteractiveModel(t *testing.T) {
	m := newInteractiveModel("")
	require.NotEmpty(t, m.types)
	view := m.View()
	assert.Contains(t, view, "wlr_buffer")
	assert.Contains(t, view, "renderer default")

	res := m.runDemo().(demoResultMsg)
	require.NoError(t, res.err)
	m.Update(res)
	assert.Equal(t, stateShowDemo, m.state)
	assert.Contains(t, m.View(), "Lifecycle demo")
}
