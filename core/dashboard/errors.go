package dashboard

import "fmt"

// AggregationError is returned when a fetch the whole dashboard depends on fails.
type AggregationError struct {
	Op     string
	UserID string
	Err    error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message(), e.Err)
}

// Message describes the failed operation without its cause.
func (e *AggregationError) Message() string {
	return "failed to fetch dashboard " + e.Op
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}
