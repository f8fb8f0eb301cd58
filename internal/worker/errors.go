package worker

import "errors"

var (
	ErrorNothingToRun   = errors.New("nothing_to_run")
	ErrorQueueUndefined = errors.New("queue_undefined")
)
