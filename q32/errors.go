// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package q32

import "errors"

// ErrDivByZero is returned by FromRatio and Div when the denominator
// is zero.
var ErrDivByZero = errors.New("q32: division by zero")
