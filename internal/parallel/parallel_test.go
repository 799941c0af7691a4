package parallel

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_CoversRange(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig(), Sequential(), {Workers: 3, MinChunk: 1}, {Workers: 64, MinChunk: 1}} {
		for _, n := range []int{0, 1, 7, 100, 1000} {
			seen := make([]int32, n)
			For(n, cfg, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})
			for i, c := range seen {
				assert.Equal(t, int32(1), c, "n=%d i=%d cfg=%+v", n, i, cfg)
			}
		}
	}
}

func TestFor_Chunks(t *testing.T) {
	var (
		mu     sync.Mutex
		ranges [][2]int
	)
	For(10, Config{Workers: 2, MinChunk: 1}, func(lo, hi int) {
		mu.Lock()
		ranges = append(ranges, [2]int{lo, hi})
		mu.Unlock()
	})
	assert.ElementsMatch(t, [][2]int{{0, 5}, {5, 10}}, ranges)
}

func TestFor_SmallRangeInline(t *testing.T) {
	calls := 0
	For(3, Config{Workers: 8, MinChunk: 4}, func(lo, hi int) {
		calls++
		assert.Equal(t, 0, lo)
		assert.Equal(t, 3, hi)
	})
	assert.Equal(t, 1, calls)
}
