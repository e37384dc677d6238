package kbulib

// ErrorInfo describes a failure the portal reported in-band: rejected
// credentials, an expired session, an empty loan table. Transport failures
// (connection errors, timeouts) are returned as plain Go errors instead.
type ErrorInfo struct {
	Title  string   `json:"title"`
	Code   string   `json:"code,omitempty"`
	Alerts []string `json:"alerts,omitempty"`
}

// Result is the outcome of one scrape step. Either Data or Error is set,
// Link always records the url the response came from.
type Result[T any] struct {
	Data  T          `json:"data,omitempty"`
	Link  string     `json:"link"`
	Error *ErrorInfo `json:"error,omitempty"`
}

func (r Result[T]) Ok() bool {
	return r.Error == nil
}

func success[T any](data T, link string) Result[T] {
	return Result[T]{Data: data, Link: link}
}

func failure[T any](err *ErrorInfo, link string) Result[T] {
	return Result[T]{Error: err, Link: link}
}
