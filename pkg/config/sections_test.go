package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserSectionDefaults(t *testing.T) {
	s := NewBrowserSection()
	require.NoError(t, s.Validate())
	assert.False(t, s.Headless)
	assert.Equal(t, "chromium", s.Browser)
	assert.Equal(t, 30*time.Second, s.Timeout)
}

func TestBrowserSectionSetData(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		wantErr bool
		check   func(t *testing.T, s *BrowserSection)
	}{
		{
			name:  "durations from strings",
			data:  map[string]any{"timeout": "5s", "slow_mo": "100ms"},
			check: func(t *testing.T, s *BrowserSection) { assert.Equal(t, 5*time.Second, s.Timeout) },
		},
		{
			name:  "viewport from json numbers",
			data:  map[string]any{"viewport_width": 375.0, "viewport_height": 667.0},
			check: func(t *testing.T, s *BrowserSection) { assert.Equal(t, 375, s.ViewportWidth) },
		},
		{
			name:  "unknown keys ignored",
			data:  map[string]any{"theme": "dark"},
			check: func(t *testing.T, s *BrowserSection) { assert.Equal(t, "chromium", s.Browser) },
		},
		{name: "fractional viewport", data: map[string]any{"viewport_width": 10.5}, wantErr: true},
		{name: "bad duration", data: map[string]any{"timeout": "soon"}, wantErr: true},
		{name: "wrong type", data: map[string]any{"browser": 3}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBrowserSection()
			err := s.SetData(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestBrowserSectionValidate(t *testing.T) {
	s := NewBrowserSection()
	s.ViewportWidth = 0
	assert.Error(t, s.Validate())

	s.Reset()
	s.Timeout = 0
	assert.Error(t, s.Validate())

	s.Reset()
	s.Browser = "webkit"
	assert.NoError(t, s.Validate())
}

func TestConsoleSection(t *testing.T) {
	s := NewConsoleSection()
	require.NoError(t, s.Validate())
	assert.True(t, s.ShowHelp)

	require.NoError(t, s.SetData(map[string]any{"source_style": "dracula", "show_help": false}))
	assert.NoError(t, s.Validate())
	assert.Equal(t, "dracula", s.Data()["source_style"])
	assert.Equal(t, false, s.Data()["show_help"])

	s.SourceStyle = "nope"
	assert.Error(t, s.Validate())
}
