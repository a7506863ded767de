package index

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/bastiangx/wordtrie/internal/logger"
)

var benchPrefixes = []string{
	"a", "ab", "abc", "abcd",
	"h", "he", "hel", "hell", "hello",
	"w", "wo", "wor", "worl", "world",
	"p", "pr", "pro", "prog", "program",
	"c", "co", "com", "comp", "computer",
}

func benchIndex(b *testing.B, cacheSize int) *Index {
	b.Helper()
	idx := New(WithCacheSize(cacheSize), WithLogger(logger.Discard()))
	for _, p := range benchPrefixes {
		for i := 0; i < 200; i++ {
			if err := idx.AddWord(fmt.Sprintf("%s%d", p, i)); err != nil {
				b.Fatal(err)
			}
		}
	}
	return idx
}

func BenchmarkSearch(b *testing.B) {
	for _, size := range []int{0, DefaultCacheSize} {
		b.Run(fmt.Sprintf("cache_%d", size), func(b *testing.B) {
			idx := benchIndex(b, size)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				idx.Search(benchPrefixes[i%len(benchPrefixes)])
			}
		})
	}
}

// BenchmarkMixed interleaves writes with searches from several goroutines and
// reports heap growth so cache churn shows up.
func BenchmarkMixed(b *testing.B) {
	idx := benchIndex(b, DefaultCacheSize)
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	b.ResetTimer()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < b.N; i++ {
				p := benchPrefixes[(i+w)%len(benchPrefixes)]
				if i%10 == 0 {
					_ = idx.AddWord(p + "x")
					continue
				}
				idx.Search(p)
			}
		}(w)
	}
	wg.Wait()
	b.StopTimer()

	runtime.GC()
	runtime.ReadMemStats(&after)
	b.ReportMetric(float64(int64(after.HeapAlloc)-int64(before.HeapAlloc))/1024, "heapKB")
}
