package problemcache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequest-dev/codequest/internal/server/models"
)

func TestPutGet_Isolation(t *testing.T) {
	c := New(time.Hour)

	p1 := models.Problem{ID: "p1", Title: "Two Sum"}
	p2 := models.Problem{ID: "p2", Title: "Reverse List"}

	c.Put(p1.ID, p1)
	c.Put(p2.ID, p2)

	got1, ok := c.Get("p1")
	require.True(t, ok)
	assert.Equal(t, p1, got1)

	got2, ok := c.Get("p2")
	require.True(t, ok)
	assert.Equal(t, p2, got2)
}

func TestGet_UnknownID(t *testing.T) {
	c := New(time.Hour)

	_, ok := c.Get("never-inserted")
	assert.False(t, ok)
}

func TestPut_SameKeyLastWriteWins(t *testing.T) {
	c := New(time.Hour)

	c.Put("p1", models.Problem{ID: "p1", Title: "old"})
	c.Put("p1", models.Problem{ID: "p1", Title: "new"})

	got, ok := c.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, 1, c.Len())
}

func TestGet_ExpiredEntry(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	c := New(2 * time.Hour)
	c.Put("p1", models.Problem{ID: "p1"})

	now = func() time.Time { return base.Add(2*time.Hour - time.Minute) }
	_, ok := c.Get("p1")
	assert.True(t, ok, "entry must be visible before TTL")

	now = func() time.Time { return base.Add(2*time.Hour + time.Minute) }
	_, ok = c.Get("p1")
	assert.False(t, ok, "entry must be gone after TTL")
}

func TestSweep_RemovesOnlyExpired(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	c := New(time.Hour)
	c.Put("old", models.Problem{ID: "old"})

	now = func() time.Time { return base.Add(30 * time.Minute) }
	c.Put("fresh", models.Problem{ID: "fresh"})

	now = func() time.Time { return base.Add(70 * time.Minute) }
	removed := c.sweep()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestConcurrentPutsAndGets(t *testing.T) {
	c := New(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i)
			c.Put(id, models.Problem{ID: id, Title: id})
			got, ok := c.Get(id)
			if !ok || got.ID != id {
				t.Errorf("entry %s corrupted: %+v ok=%v", id, got, ok)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
}
