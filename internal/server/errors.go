package server

import "net/http"

// httpError carries the status and the user-facing text of a failed request.
type httpError struct {
	Status  int
	Message string
}

func (e *httpError) Error() string {
	return e.Message
}

var errFileNotFound = &httpError{
	Status:  http.StatusNotFound,
	Message: "File not found",
}
