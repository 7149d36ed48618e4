// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// errors.go defines the zone package's error type, grounded on wire's
// FormatError/LogicError split: zone construction errors are data
// problems reported to the operator, not programmer mistakes.
package zone

import "fmt"

// ZoneError reports a problem building or querying a zone: a duplicate
// RRset with a conflicting TTL, an owner outside the apex, and similar.
type ZoneError struct {
	msg string
}

func (e *ZoneError) Error() string { return e.msg }

func NewZoneError(format string, args ...any) *ZoneError {
	return &ZoneError{msg: fmt.Sprintf(format, args...)}
}
