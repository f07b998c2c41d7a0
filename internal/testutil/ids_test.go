package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequentialIDs_Sequence(t *testing.T) {
	gen := NewSequentialIDs("")

	assert.Equal(t, "tag-1", gen.Generate())
	assert.Equal(t, "tag-2", gen.Generate())

	gen.Reset()
	assert.Equal(t, "tag-1", gen.Generate())
}

func TestSequentialIDs_ThreadSafe(t *testing.T) {
	gen := NewSequentialIDs("p")

	var (
		mu   sync.Mutex
		seen = map[string]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1000)
}

func TestFixedIDs(t *testing.T) {
	gen := NewFixedIDs("a", "b")

	require.Equal(t, "a", gen.Generate())
	require.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestFixtures(t *testing.T) {
	assert.Equal(t, "Person(name:Value, age:Value)", PersonType.String())
	assert.Equal(t, PersonType, People().Type)
	assert.Equal(t, "p", PersonID("p").Name)
}
