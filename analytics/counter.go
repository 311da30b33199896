package analytics

import (
	"sort"

	"github.com/pivolan/case_dashboard/domain/models"
)

// Counter counts string keys and remembers the order in which keys were first seen.
type Counter struct {
	order  []string
	counts map[string]int
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

func (c *Counter) Add(key string) {
	c.AddN(key, 1)
}

func (c *Counter) AddN(key string, n int) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

func (c *Counter) Get(key string) int {
	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.order)
}

// Keys returns the keys in encounter order.
func (c *Counter) Keys() []string {
	return append([]string(nil), c.order...)
}

// Sorted returns the counts in descending order. Equal counts keep encounter order.
func (c *Counter) Sorted() []models.ValueCount {
	out := make([]models.ValueCount, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, models.ValueCount{Value: k, Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Top returns at most n entries of Sorted; n <= 0 means all of them.
func (c *Counter) Top(n int) []models.ValueCount {
	return TopN(c.Sorted(), n)
}
