package ledger

import "time"

// Clock is the trusted time source operations read created_at from.
type Clock interface {
	UnixTimestamp() int64
}

type SystemClock struct{}

func (SystemClock) UnixTimestamp() int64 {
	return time.Now().Unix()
}

// FixedClock always reports the same instant.
type FixedClock int64

func (c FixedClock) UnixTimestamp() int64 {
	return int64(c)
}
