package config

import (
	"fmt"
	"time"
)

const (
	// AllocationModeScan derives the next sequence from the stock numbers
	// already stored under the prefix.
	AllocationModeScan = "scan"
	// AllocationModeCounter increments a per-prefix counter row.
	AllocationModeCounter = "counter"

	LockBackendRedis = "redis"
	LockBackendLocal = "local"
)

type Allocation struct {
	Mode        string        `env:"ALLOCATION_MODE" envDefault:"scan"`
	LockBackend string        `env:"ALLOCATION_LOCK_BACKEND" envDefault:"redis"`
	LockTTL     time.Duration `env:"ALLOCATION_LOCK_TTL" envDefault:"5s"`
	LockWait    time.Duration `env:"ALLOCATION_LOCK_WAIT" envDefault:"3s"`
	MaxAttempts int           `env:"ALLOCATION_MAX_ATTEMPTS" envDefault:"3"`
}

func (a Allocation) validate() error {
	switch a.Mode {
	case AllocationModeScan, AllocationModeCounter:
	default:
		return fmt.Errorf("unknown mode %q", a.Mode)
	}

	switch a.LockBackend {
	case LockBackendRedis, LockBackendLocal:
	default:
		return fmt.Errorf("unknown lock backend %q", a.LockBackend)
	}

	if a.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be positive, got %d", a.MaxAttempts)
	}

	return nil
}
