package ranking

import (
	"context"
	"time"
)

// Budget bounds the work of one bucket sort by wall-clock time, the context
// deadline and a number of refinement operations. The zero value and a nil
// *Budget are unlimited. A Budget is not safe for concurrent use.
type Budget struct {
	ctx       context.Context
	deadline  time.Time
	maxOps    int
	ops       int
	exhausted bool
	now       func() time.Time
}

// NewBudget creates a budget. timeBudget <= 0 and maxOps <= 0 disable the
// respective limit.
func NewBudget(ctx context.Context, timeBudget time.Duration, maxOps int) *Budget {
	b := &Budget{ctx: ctx, maxOps: maxOps, now: time.Now}
	if timeBudget > 0 {
		b.deadline = b.now().Add(timeBudget)
	}
	if d, ok := ctx.Deadline(); ok && (b.deadline.IsZero() || d.Before(b.deadline)) {
		b.deadline = d
	}
	return b
}

// Spend records n operations and reports whether the budget still allows
// work. Once exhausted a budget stays exhausted.
func (b *Budget) Spend(n int) bool {
	if b == nil {
		return true
	}
	if b.exhausted {
		return false
	}
	b.ops += n
	if b.maxOps > 0 && b.ops > b.maxOps {
		b.exhausted = true
	}
	return b.Check()
}

// Check reports whether the budget still allows work without spending
// operations. Only the deadline and the context are consulted.
func (b *Budget) Check() bool {
	if b == nil {
		return true
	}
	switch {
	case b.exhausted:
	case !b.deadline.IsZero() && !b.now().Before(b.deadline):
		b.exhausted = true
	case b.ctx != nil && b.ctx.Err() != nil:
		b.exhausted = true
	}
	return !b.exhausted
}

// Exhausted reports whether the budget ran out.
func (b *Budget) Exhausted() bool { return b != nil && b.exhausted }

// Operations returns the number of operations spent.
func (b *Budget) Operations() int {
	if b == nil {
		return 0
	}
	return b.ops
}
