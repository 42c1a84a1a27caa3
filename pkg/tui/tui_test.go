package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/lyrewrite/pkg/config"
	"github.com/james-see/lyrewrite/pkg/converter"
)

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestMenuNavigation(t *testing.T) {
	m := New(config.Default())
	assert.Equal(t, StateMenu, m.state)

	m = send(t, m, key(tea.KeyUp))
	assert.Equal(t, 0, m.menuIndex)

	for range menuItems {
		m = send(t, m, key(tea.KeyDown))
	}
	assert.Equal(t, len(menuItems)-1, m.menuIndex)

	m = send(t, m, runes("k"))
	assert.Equal(t, len(menuItems)-2, m.menuIndex)
	assert.Contains(t, m.View(), "SELECT PASS")
}

func TestSelectPassWithoutOptions(t *testing.T) {
	m := send(t, New(config.Default()), key(tea.KeyEnter))
	assert.Equal(t, StateFilePicker, m.state)
	require.NotNil(t, m.pass)
	assert.Equal(t, converter.PassRelToAbs, m.pass.Name())

	m = send(t, m, key(tea.KeyEsc))
	assert.Equal(t, StateMenu, m.state)
}

func TestTransposeOptions(t *testing.T) {
	m := send(t, New(config.Default()), key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyEnter))
	require.Equal(t, StateOptions, m.state)
	assert.Contains(t, m.View(), "Transpose from which pitch")

	m = send(t, m, runes("c"), key(tea.KeyEnter))
	assert.Equal(t, StateOptions, m.state)
	assert.Error(t, m.inputErr)

	m = send(t, m, runes(" d"), key(tea.KeyEnter))
	assert.Equal(t, StateFilePicker, m.state)
	assert.Equal(t, converter.Transpose{From: "c", To: "d"}, m.pass)
}

func TestTranslateOptionsRejectUnknownLanguage(t *testing.T) {
	m := send(t, New(config.Default()), key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyEnter))
	require.Equal(t, StateOptions, m.state)

	m = send(t, m, runes("klingon"), key(tea.KeyEnter))
	assert.Equal(t, StateOptions, m.state)
	assert.ErrorIs(t, m.inputErr, converter.ErrBadArgument)

	m = send(t, m, key(tea.KeyEsc))
	assert.Equal(t, StateMenu, m.state)
}

func TestPerformConversion(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "song.ly")
	require.NoError(t, os.WriteFile(in, []byte(`\relative c' { c d e }`), 0644))

	m := New(config.Default())
	m.pass = converter.RelativeToAbsolute{}
	m.selectedFile = in
	m.state = StateConverting

	msg := m.performConversion()()
	done, ok := msg.(conversionDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, filepath.Join(dir, "song.rel2abs.ly"), done.outputFile)

	got, err := os.ReadFile(done.outputFile)
	require.NoError(t, err)
	assert.Equal(t, `{ c' d' e' }`, string(got))

	m = send(t, m, done)
	assert.Equal(t, StateResult, m.state)
	assert.Contains(t, m.View(), "Rewrite complete")

	m = send(t, m, key(tea.KeyEnter))
	assert.Equal(t, StateMenu, m.state)
}

func TestSketchConversion(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "song.ly")
	require.NoError(t, os.WriteFile(in, []byte(`{ c' e' g' }`), 0644))

	m := New(config.Default())
	m.selectedFile = in

	done := m.performConversion()().(conversionDoneMsg)
	require.NoError(t, done.err)
	assert.Equal(t, filepath.Join(dir, "song.mid"), done.outputFile)

	data, err := os.ReadFile(done.outputFile)
	require.NoError(t, err)
	assert.Equal(t, "MThd", string(data[:4]))
}

func TestConversionError(t *testing.T) {
	m := New(config.Default())
	m.pass = converter.AbsoluteToRelative{}
	m.selectedFile = filepath.Join(t.TempDir(), "missing.ly")

	done := m.performConversion()().(conversionDoneMsg)
	assert.Error(t, done.err)

	m = send(t, m, done)
	assert.Contains(t, m.View(), "Rewrite failed")
}
