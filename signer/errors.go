// Copyright 2024 TochusC AOSP Lab. All rights reserved.

package signer

import "fmt"

// KeyError reports a problem loading or using a signing key.
type KeyError struct {
	msg string
}

func (e *KeyError) Error() string { return e.msg }

func NewKeyError(format string, args ...any) *KeyError {
	return &KeyError{msg: fmt.Sprintf(format, args...)}
}
