package analysis

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ianlancetaylor/demangle"
)

// demangleCache provides thread-safe caching for demangling. Header-file
// globals repeat across translation units, so the same linkage names come
// up over and over.
type demangleCache struct {
	mu       sync.RWMutex
	names    map[string]string
	hitCount map[string]int
}

var dcache = &demangleCache{
	names:    make(map[string]string),
	hitCount: make(map[string]int),
}

// CachedDemangle performs demangling with caching support. Names that do
// not demangle are returned unchanged.
func CachedDemangle(mangled string) string {
	dcache.mu.RLock()
	cached, exists := dcache.names[mangled]
	dcache.mu.RUnlock()
	if exists {
		dcache.mu.Lock()
		dcache.hitCount[mangled]++
		dcache.mu.Unlock()
		return cached
	}

	demangled := demangle.Filter(mangled, demangle.NoClones)

	dcache.mu.Lock()
	dcache.names[mangled] = demangled
	dcache.hitCount[mangled] = 1
	dcache.mu.Unlock()
	return demangled
}

// DemangleCacheStats returns statistics about the demangle cache: distinct
// names seen, cache hits, and the most repeated names.
func DemangleCacheStats() (totalSymbols int, cacheHits int, topSymbols []string) {
	dcache.mu.RLock()
	defer dcache.mu.RUnlock()

	totalHits := 0
	type symbolHit struct {
		symbol string
		count  int
	}
	var symbols []symbolHit
	for sym, count := range dcache.hitCount {
		totalHits += count
		symbols = append(symbols, symbolHit{sym, count})
	}
	sort.Slice(symbols, func(i, j int) bool {
		if symbols[i].count == symbols[j].count {
			return symbols[i].symbol < symbols[j].symbol
		}
		return symbols[i].count > symbols[j].count
	})

	var top []string
	for i := 0; i < 5 && i < len(symbols); i++ {
		top = append(top, fmt.Sprintf("%s (%d hits)", symbols[i].symbol, symbols[i].count))
	}

	return len(dcache.names), totalHits - len(dcache.names), top
}
