package window

import "sync/atomic"

// DefaultZIndexBase sits above the statically assigned z-indices of the
// desktop chrome, so the first window gets 21.
const DefaultZIndexBase = 20

// ZOrder issues strictly increasing stacking indices. Values are never
// reused for the lifetime of the allocator.
type ZOrder struct {
	highest atomic.Int64
}

// NewZOrder creates an allocator whose first value is base+1
func NewZOrder(base int) *ZOrder {
	z := &ZOrder{}
	z.highest.Store(int64(base))
	return z
}

// Next returns a value greater than every value returned before
func (z *ZOrder) Next() int {
	return int(z.highest.Add(1))
}

// Current returns the highest value issued so far, or the base
func (z *ZOrder) Current() int {
	return int(z.highest.Load())
}
