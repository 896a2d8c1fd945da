package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store.
type memStore struct {
	sections map[string]map[string]any
	loadErr  error
	saved    int
}

func newMemStore() *memStore {
	return &memStore{sections: make(map[string]map[string]any)}
}

func (m *memStore) Load() error { return m.loadErr }
func (m *memStore) Save() error { m.saved++; return nil }

func (m *memStore) GetSection(id string) (map[string]any, error) {
	return copySection(m.sections[id]), nil
}

func (m *memStore) SetSection(id string, data map[string]any) error {
	m.sections[id] = copySection(data)
	return nil
}

func TestManagerRegisterSection(t *testing.T) {
	m := NewManager(newMemStore())
	require.NoError(t, m.RegisterSection(NewBrowserSection()))
	require.NoError(t, m.RegisterSection(NewConsoleSection()))

	err := m.RegisterSection(NewBrowserSection())
	assert.Error(t, err)

	sections := m.GetSections()
	require.Len(t, sections, 2)
	assert.Equal(t, SectionIDBrowser, sections[0].ID())
	assert.Equal(t, SectionIDConsole, sections[1].ID())

	_, ok := m.GetSection("missing")
	assert.False(t, ok)
}

func TestManagerLoadAll(t *testing.T) {
	store := newMemStore()
	store.sections[SectionIDBrowser] = map[string]any{
		"headless":       true,
		"viewport_width": 640.0,
		"slow_mo":        "250ms",
	}
	m := NewManager(store)
	browser := NewBrowserSection()
	require.NoError(t, m.RegisterSection(browser))

	require.NoError(t, m.LoadAll())
	assert.True(t, browser.Headless)
	assert.Equal(t, 640, browser.ViewportWidth)
	assert.Equal(t, 250*time.Millisecond, browser.SlowMo)
}

func TestManagerLoadAllResetsInvalidSection(t *testing.T) {
	store := newMemStore()
	store.sections[SectionIDBrowser] = map[string]any{"browser": "netscape"}
	m := NewManager(store)
	browser := NewBrowserSection()
	require.NoError(t, m.RegisterSection(browser))

	require.NoError(t, m.LoadAll())
	assert.Equal(t, "chromium", browser.Browser)
}

func TestManagerLoadAllErrors(t *testing.T) {
	store := newMemStore()
	store.loadErr = errors.New("disk gone")
	m := NewManager(store)
	assert.Error(t, m.LoadAll())

	store = newMemStore()
	store.sections[SectionIDBrowser] = map[string]any{"headless": "yes"}
	m = NewManager(store)
	require.NoError(t, m.RegisterSection(NewBrowserSection()))
	assert.Error(t, m.LoadAll())
}

func TestManagerSaveAll(t *testing.T) {
	store := newMemStore()
	m := NewManager(store)
	console := NewConsoleSection()
	require.NoError(t, m.RegisterSection(console))

	console.ShowSource = true
	require.NoError(t, m.SaveAll())
	assert.Equal(t, 1, store.saved)
	assert.Equal(t, true, store.sections[SectionIDConsole]["show_source"])

	console.SourceStyle = "no-such-style"
	assert.Error(t, m.SaveAll())
	assert.Equal(t, 1, store.saved)

	m.ResetAll()
	assert.Equal(t, defaultSourceStyle, console.SourceStyle)
	assert.False(t, console.ShowSource)
}

func TestInitializeGlobal(t *testing.T) {
	globalMu.Lock()
	globalManager = nil
	globalMu.Unlock()
	t.Cleanup(func() {
		globalMu.Lock()
		globalManager = nil
		globalMu.Unlock()
	})

	assert.False(t, IsInitialized())
	assert.Nil(t, GetBrowser())
	assert.Panics(t, func() { Global() })

	require.NoError(t, Initialize(filepath.Join(t.TempDir(), "config.json")))
	assert.True(t, IsInitialized())
	require.NotNil(t, GetBrowser())
	require.NotNil(t, GetConsole())

	w, h := GetBrowser().Viewport()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 800, h)
}
