package mqueue

import "time"

const mqTestTimeout = 50 * time.Millisecond
