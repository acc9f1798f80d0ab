// Package value implements the tagged numeric cell shared by the device
// contract and the script engine: an unsigned 32-bit, signed 32-bit, or
// single-precision float value, plus the two sentinel kinds NaN and Test.
package value

import "errors"

// Operation-result sentinels from the error taxonomy. Device and script
// code compares against these with errors.Is; most are returned bare
// (unwrapped) since no extra context is usually needed at this layer.
var (
	ErrDivideByZero           = errors.New("value: divide by zero")
	ErrWriteValueNaN          = errors.New("value: cannot write NaN")
	ErrWriteValueNotUintOrInt = errors.New("value: write requires an integer value")
	ErrWriteValueOutOfRange   = errors.New("value: write value out of range")
	ErrInvalidArgument        = errors.New("value: invalid argument")
)
