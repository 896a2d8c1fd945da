package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTourMatcher(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		path    string
		want    bool
	}{
		{"default yaml", nil, nil, "onboarding.tour.yaml", true},
		{"default yml nested", nil, nil, "app/billing.tour.yml", true},
		{"plain yaml", nil, nil, "config.yaml", false},
		{"excluded", nil, []string{"drafts/*"}, "drafts/new.tour.yaml", false},
		{"custom include", []string{"tours/*.yaml"}, nil, "tours/a.yaml", true},
		{"custom include misses", []string{"tours/*.yaml"}, nil, "other/a.yaml", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewTourMatcher(tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestDiscoverTours(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"z.tour.yaml",
		"a.tour.yml",
		"notes.md",
		filepath.Join("drafts", "b.tour.yaml"),
		filepath.Join("app", "c.tour.yaml"),
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte("steps: []\n"), 0600))
	}

	found, err := DiscoverTours(dir, nil, []string{"drafts/*"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.tour.yml"),
		filepath.Join(dir, "app", "c.tour.yaml"),
		filepath.Join(dir, "z.tour.yaml"),
	}, found)

	_, err = DiscoverTours(filepath.Join(dir, "missing"), nil, nil)
	assert.Error(t, err)
}
