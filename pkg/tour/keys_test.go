package tour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/types"
)

func TestArrowKeys(t *testing.T) {
	h := newHarness(t, threeStepPage)
	require.NoError(t, h.tour.Start())

	h.doc.PressKey(dom.KeyArrowRight)
	assert.Equal(t, 1, h.index(t))

	h.doc.PressKey(dom.KeyArrowLeft)
	assert.Equal(t, 0, h.index(t))

	h.doc.PressKey(dom.KeyArrowLeft)
	assert.Equal(t, 0, h.index(t))
}

func TestEnterKey(t *testing.T) {
	t.Run("defaults to next", func(t *testing.T) {
		h := newHarness(t, threeStepPage)
		require.NoError(t, h.tour.Start())

		prevented := h.doc.PressKey(dom.KeyEnter)
		assert.True(t, prevented)
		assert.Equal(t, 1, h.index(t))
	})

	t.Run("on the back button goes back", func(t *testing.T) {
		h := newHarness(t, threeStepPage)
		require.NoError(t, h.tour.Start())
		require.NoError(t, h.tour.Next())

		h.find(t, "."+classPrevButton).Focus()
		assert.True(t, h.doc.PressKey(dom.KeyEnter))
		assert.Equal(t, 0, h.index(t))
	})

	t.Run("on the skip button exits", func(t *testing.T) {
		h := newHarness(t, threeStepPage)
		exited := 0
		require.NoError(t, h.tour.OnExit(func() { exited++ }))
		require.NoError(t, h.tour.Start())

		h.find(t, "."+classSkipButton).Focus()
		assert.True(t, h.doc.PressKey(dom.KeyEnter))
		assert.Equal(t, 1, exited)
		assert.False(t, h.tour.Active())
	})
}

func TestEscapeKey(t *testing.T) {
	t.Run("exits", func(t *testing.T) {
		h := newHarness(t, threeStepPage)
		exited := 0
		require.NoError(t, h.tour.OnExit(func() { exited++ }))
		require.NoError(t, h.tour.Start())

		assert.False(t, h.doc.PressKey(dom.KeyEscape))
		assert.Equal(t, 1, exited)
		assert.False(t, h.tour.Active())
	})

	t.Run("ignored when disabled", func(t *testing.T) {
		h := newHarness(t, threeStepPage, optsWith(func(o *Options) {
			o.ExitOnEsc = false
		}))
		require.NoError(t, h.tour.Start())
		h.doc.PressKey(dom.KeyEscape)
		assert.True(t, h.tour.Active())
	})
}

func TestKeyboardNavigationDisabled(t *testing.T) {
	h := newHarness(t, threeStepPage, optsWith(func(o *Options) {
		o.KeyboardNavigation = false
	}))
	require.NoError(t, h.tour.Start())

	assert.Equal(t, 0, h.doc.KeyListenerCount())
	h.doc.PressKey(dom.KeyArrowRight)
	assert.Equal(t, 0, h.index(t))
}

func TestUnrelatedKeysIgnored(t *testing.T) {
	h := newHarness(t, threeStepPage)
	require.NoError(t, h.tour.Start())

	assert.False(t, h.doc.PressKey("a"))
	assert.Equal(t, 0, h.index(t))
}

func TestResizeReplaces(t *testing.T) {
	h := newHarness(t, threeStepPage)
	require.NoError(t, h.tour.Start())
	placed := h.rec.count(types.EventTypeStepPlaced)

	h.doc.Resize(800, 600)
	assert.Equal(t, 1, h.rec.count(types.EventTypeResized))
	assert.Equal(t, placed, h.rec.count(types.EventTypeStepPlaced))
}

func TestResizeSkipsNewlyMobileStep(t *testing.T) {
	h := newHarness(t, threeStepPage, optsWith(func(o *Options) {
		o.MobileThresholdWidth = 600
		o.Steps = []StepDef{
			{Selector: "#a"},
			{Selector: "#b", SkipOnMobile: true},
			{Selector: "#c"},
		}
	}))
	require.NoError(t, h.tour.Start())
	require.NoError(t, h.tour.Next())
	require.Equal(t, 1, h.index(t))
	assert.Equal(t, "3", h.find(t, "."+classStepNumberAmount).InnerHTML())

	h.doc.Resize(500, 700)
	assert.Equal(t, 2, h.index(t))
	assert.Equal(t, "2", h.find(t, "."+classStepNumberAmount).InnerHTML())
}

func TestResizeAfterExitIsIgnored(t *testing.T) {
	h := newHarness(t, threeStepPage)
	require.NoError(t, h.tour.Start())
	h.tour.Exit()

	h.doc.Resize(500, 500)
	assert.Equal(t, 0, h.rec.count(types.EventTypeResized))
}
