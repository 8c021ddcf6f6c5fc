// SPDX-License-Identifier: EPL-2.0

package protocol

import "errors"

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrInvalidEvent   = errors.New("event has invalid kind")
)
