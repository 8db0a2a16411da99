package prefetch

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDefaults(t *testing.T) {
	src, err := render(Options{})
	require.NoError(t, err)

	assert.Contains(t, src, "var throttle = 3;")
	assert.Contains(t, src, `var selector = "a[href][rel~=\"prefetch\"]";`)
	assert.Contains(t, src, `var intentSelector = "a[href][rel~=\"prefetch-intent\"]";`)
}

func TestRenderOptions(t *testing.T) {
	src, err := render(Options{Throttle: 7, Selector: "a.next"})
	require.NoError(t, err)

	assert.Contains(t, src, "var throttle = 7;")
	assert.Contains(t, src, `var selector = "a.next";`)
}

func TestNegativeThrottle(t *testing.T) {
	_, err := Script(Options{Throttle: -1})
	assert.Equal(t, ErrInvalidThrottle, errors.Cause(err))
}

func TestTag(t *testing.T) {
	tag, err := Tag(DefaultOptions())
	require.NoError(t, err)

	s := string(tag)
	assert.True(t, strings.HasPrefix(s, "<script>"))
	assert.True(t, strings.HasSuffix(s, "</script>"))
	assert.Contains(t, s, "IntersectionObserver")
	assert.Contains(t, s, "prefetch-intent")
	assert.Less(t, len(s), len(scriptTemplate))
}
