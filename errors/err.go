package errors

import (
	"fmt"
)

var (
	ErrInvalidConfig    = fmt.Errorf("memorymap: invalid config")
	ErrNotFound         = fmt.Errorf("memorymap: not found")
	ErrInvalidParams    = fmt.Errorf("memorymap: invalid params")
	ErrInvalidDateRange = fmt.Errorf("memorymap: invalid date range")
	ErrInternal         = fmt.Errorf("memorymap: internal error")
)
