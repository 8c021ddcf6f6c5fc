// SPDX-License-Identifier: EPL-2.0

package hopstream

import "errors"

var (
	ErrNilSource       = errors.New("hopstream: nil source")
	ErrNilSink         = errors.New("hopstream: nil sink")
	ErrAlreadyRunning  = errors.New("hopstream: player is already running")
	ErrUnknownFormat   = errors.New("hopstream: no decoder for file extension")
	ErrInvalidPosition = errors.New("hopstream: position must be finite")
)
