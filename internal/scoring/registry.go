package scoring

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

var (
	registry = make(map[Category]Scorer)
	mu       sync.RWMutex
)

// Register adds a scorer to the registry. Scorer implementations register
// themselves from init(); registering two scorers for one category is a
// programming error and panics.
func Register(s Scorer) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[s.Category()]; exists {
		panic(fmt.Sprintf("scorer for %s already registered", s.Category()))
	}
	registry[s.Category()] = s
}

// List returns the registered scorers in category order.
func List() []Scorer {
	mu.RLock()
	defer mu.RUnlock()
	var scorers []Scorer
	for _, s := range registry {
		scorers = append(scorers, s)
	}
	sort.Slice(scorers, func(i, j int) bool {
		return scorers[i].Category() < scorers[j].Category()
	})
	return scorers
}

// Resolve returns the scorer for a category key.
func Resolve(key string) (Scorer, error) {
	c, ok := ParseCategory(key)
	if !ok {
		return nil, fmt.Errorf("unknown category: %s", key)
	}
	mu.RLock()
	defer mu.RUnlock()
	s, ok := registry[c]
	if !ok {
		return nil, fmt.Errorf("no scorer registered for %s", c)
	}
	return s, nil
}

// ValidateWeights checks that the registered scorers cover every category
// and that the weight table sums to 1.0 within tolerance.
func ValidateWeights() error {
	mu.RLock()
	defer mu.RUnlock()
	var sum float64
	for _, c := range All {
		if _, ok := registry[c]; !ok {
			return fmt.Errorf("no scorer registered for %s", c)
		}
		sum += Weights[c]
	}
	if math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("category weights sum to %.3f, want 1.0 +/- 0.01", sum)
	}
	return nil
}
