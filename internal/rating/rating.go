// Package rating holds the state of the star rating control.
package rating

import (
	"errors"
	"fmt"
	"sync"
)

// Bounds of the star control
const (
	MinRating = 1
	MaxRating = 10
)

// ErrOutOfRange is returned for ratings outside MinRating..MaxRating
var ErrOutOfRange = errors.New("rating out of range")

// Control tracks the chosen rating and how many times it changed
type Control struct {
	mu        sync.Mutex
	value     int
	revisions int
}

// New returns an unset control
func New() *Control {
	return &Control{}
}

// Set records a rating reported by the star widget. Reporting the current value again is not a revision.
func (c *Control) Set(n int) error {
	if n < MinRating || n > MaxRating {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrOutOfRange, n, MinRating, MaxRating)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if n != c.value {
		c.value = n
		c.revisions++
	}
	return nil
}

// Value is the current rating, 0 when unset
func (c *Control) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Revisions counts the changes since the control was created
func (c *Control) Revisions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revisions
}
