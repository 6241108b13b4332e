package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parrot_messages_scanned_total",
		Help: "Messages scanned for emoji.",
	})

	TokensFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parrot_emoji_tokens_total",
		Help: "Emoji tokens found in scanned messages.",
	}, []string{"kind"})

	CatalogEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "parrot_catalog_entries",
		Help: "Entries in the live emoji catalog.",
	})

	GatewayReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parrot_gateway_reconnects_total",
		Help: "Gateway connection drops that triggered a reconnect.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
