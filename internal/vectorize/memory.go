package vectorize

// MemoryChecker admits or refuses an allocation before it happens.
// Implementations return an error matching ErrMemoryBudget to refuse.
type MemoryChecker interface {
	CheckMemoryForOperation(bytes int64, purpose string) error
}

// MemoryBudget refuses any single operation larger than Limit bytes.
// A non-positive Limit admits everything.
type MemoryBudget struct {
	Limit int64
}

// NewMemoryBudget returns a budget of limitMB mebibytes.
func NewMemoryBudget(limitMB int64) MemoryBudget {
	return MemoryBudget{Limit: limitMB << 20}
}

// CheckMemoryForOperation implements MemoryChecker.
func (b MemoryBudget) CheckMemoryForOperation(bytes int64, purpose string) error {
	if b.Limit <= 0 || bytes <= b.Limit {
		return nil
	}
	return &MemoryError{Requested: bytes, Available: b.Limit, Purpose: purpose}
}

// Unlimited admits every allocation.
var Unlimited MemoryChecker = MemoryBudget{}
