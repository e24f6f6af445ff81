package loader

import "fmt"

// StatusMessage is the user-facing text for any non-success HTTP status.
// The status code itself is kept on LoadError for logs and metrics only.
const StatusMessage = "Could not fetch data from server. Please try again later."

// ErrorClass represents a classification of load failures.
type ErrorClass string

const (
	// ClassStatus represents a response outside the 2xx range.
	ClassStatus ErrorClass = "status"

	// ClassNetwork represents transport failures and invalid requests.
	ClassNetwork ErrorClass = "network"

	// ClassDecode represents a body that is not a JSON array of records.
	ClassDecode ErrorClass = "decode"

	// ClassCanceled represents a load abandoned through its context.
	ClassCanceled ErrorClass = "canceled"
)

// LoadError describes why a load failed.
type LoadError struct {
	Class      ErrorClass
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface. It returns only the user-facing
// message.
func (e *LoadError) Error() string {
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// String gives the diagnostic form used in logs.
func (e *LoadError) String() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Class, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Class, e.Message)
}

// Result is the outcome of a single load. Exactly one of Items or Err is
// meaningful: Err == nil means success.
type Result struct {
	Items []Item
	Err   *LoadError
}

// OK reports whether the load succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Success builds a successful result. A nil slice is normalised to empty.
func Success(items []Item) Result {
	if items == nil {
		items = []Item{}
	}
	return Result{Items: items}
}

// Failure builds a failed result.
func Failure(class ErrorClass, statusCode int, message string, err error) Result {
	return Result{Err: &LoadError{
		Class:      class,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}}
}
