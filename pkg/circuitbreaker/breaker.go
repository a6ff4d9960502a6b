package circuitbreaker

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// NewHTTP returns a circuit breaker for calls against a single HTTP upstream.
// It trips after five consecutive transport failures and probes again after
// thirty seconds. Non-2xx responses are not failures from the breaker's point
// of view: the upstream answered.
func NewHTTP(name string) *gobreaker.CircuitBreaker[*http.Response] {
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}
