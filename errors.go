// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package huff

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrFormat reports encoded data that cannot be decoded: a truncated
	// header or payload, an invalid leaf symbol, or a bit stream that ends
	// in the middle of a code.
	ErrFormat = errors.New("huff: invalid format")

	// ErrEncoding reports input that is not valid UTF-8, or that contains
	// a symbol the Code does not know.
	ErrEncoding = errors.New("huff: invalid encoding")

	// ErrEmpty is returned when a tree is requested for an empty FrequencyTable.
	ErrEmpty = errors.New("huff: no symbols")
)

// An IOError records a failure of the underlying reader or writer.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("huff: %s: %v", e.Op, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

func ioError(op string, err error) error {
	return errors.WithStack(&IOError{Op: op, Err: err})
}

func formatErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrFormat, format, args...)
}

func encodingErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrEncoding, format, args...)
}
