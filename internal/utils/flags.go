package utils

import (
	"errors"
)

// ErrMutuallyExclusive signals that both the short and long variant of a
// flag pair were set.
var ErrMutuallyExclusive = errors.New("mutually exclusive flags")

// ReturnNonDefault returns whichever of the two flag values differs from
// the default, erroring when both do.
func ReturnNonDefault[T comparable](flagVal, otherFlagVal, defaultVal T) (T, error) {
	if flagVal != defaultVal && otherFlagVal != defaultVal {
		return defaultVal, ErrMutuallyExclusive
	}
	if flagVal != defaultVal {
		return flagVal, nil
	}
	return otherFlagVal, nil
}
