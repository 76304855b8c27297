package mqueue

import "errors"

var errTimeout = errors.New("mqueue: timed out")
