package main

import (
	"context"
	"os"
	"testing"

	"github.com/born-ml/convviz/internal/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() options {
	return options{
		samples: 2,
		fm1:     1,
		fm2:     2,
		gray:    "passthrough",
		cmap:    "gray",
		norm:    "mnist",
		addr:    "127.0.0.1:0",
		seed:    1,
	}
}

func TestRun_ShowsFiguresWithoutWritingFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	for _, direct := range []bool{false, true} {
		o := testOptions()
		o.direct = direct

		v := viewer.New(viewer.Config{Addr: o.addr})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.NoError(t, run(ctx, o, v))
		assert.Equal(t, 2, v.Len(), "direct=%v", direct)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_BadOptions(t *testing.T) {
	ctx := context.Background()

	o := testOptions()
	o.gray = "sepia"
	assert.Error(t, run(ctx, o, viewer.New(viewer.DefaultConfig())))

	o = testOptions()
	o.norm = "zscore"
	assert.Error(t, run(ctx, o, viewer.New(viewer.DefaultConfig())))

	o = testOptions()
	o.fm2 = 50
	v := viewer.New(viewer.DefaultConfig())
	assert.Error(t, run(ctx, o, v))
	assert.Equal(t, 1, v.Len(), "first figure is shown before the second layer fails")
}
