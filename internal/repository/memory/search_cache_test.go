package memory

import (
	"testing"
	"time"

	"wspace-be/pkg/websearch"

	"github.com/stretchr/testify/assert"
)

func TestSearchCacheNormalizesQuery(t *testing.T) {
	c := NewSearchCache(time.Minute)
	c.Save("  Go   Generics ", []websearch.Result{{Title: "Go"}})

	got, ok := c.Get("go generics")
	assert.True(t, ok)
	assert.Len(t, got, 1)

	_, ok = c.Get("rust generics")
	assert.False(t, ok)
}

func TestSearchCacheExpires(t *testing.T) {
	c := NewSearchCache(20 * time.Millisecond)
	c.Save("q", []websearch.Result{{Title: "t"}})

	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get("q")
	assert.False(t, ok)
}
