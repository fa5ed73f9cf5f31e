package lzw

import (
	"fmt"
	"strings"
)

// Strategy decides what happens when the encoding dictionary is full and a new sequence
// needs an index.
type Strategy int

const (
	// Abort fails the encoding with ErrTooManyEncodings.
	Abort Strategy = iota
	// StopStore keeps encoding with the entries stored so far.
	StopStore
	// UseMinimumRequired raises the dictionary cap by one for every entry that needs it.
	UseMinimumRequired
)

var strategyNames = map[Strategy]string{
	Abort:              "ABORT",
	StopStore:          "STOP_STORE",
	UseMinimumRequired: "USE_MINIMUM_REQUIRED",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy accepts the names printed by String, case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown memory strategy %q", name)
}

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{Abort, StopStore, UseMinimumRequired}
}
