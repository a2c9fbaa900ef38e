package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func WrapHandler(handler http.Handler) http.Handler {
	return HTTPMetrics(handler)
}
