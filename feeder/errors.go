// SPDX-License-Identifier: EPL-2.0

package feeder

import "errors"

var (
	ErrNilSource     = errors.New("feeder: nil source")
	ErrNegativeIndex = errors.New("feeder: negative chunk index")
)
