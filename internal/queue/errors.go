package queue

import "errors"

var (
	ErrorClientUndefined          = errors.New("client_undefined")
	ErrorStreamingClientUndefined = errors.New("streaming_client_undefined")
	ErrorHandlerUndefined         = errors.New("handler_undefined")
)
