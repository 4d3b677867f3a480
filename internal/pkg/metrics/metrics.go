package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CertificatesIssued counts successful single and batch issuances.
	CertificatesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "certledger_certificates_issued_total",
		Help: "Total certificates issued.",
	})

	// CertificatesRevoked counts revocations that flipped a record to invalid.
	CertificatesRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "certledger_certificates_revoked_total",
		Help: "Total certificates revoked.",
	})

	// TransfersRejected counts transfer attempts blocked by the soulbound guard.
	TransfersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "certledger_transfers_rejected_total",
		Help: "Total transfer attempts rejected (tokens are soulbound).",
	})

	// IssueFailures counts failed issuance calls by reason.
	IssueFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "certledger_issue_failures_total",
		Help: "Total failed issuance calls.",
	}, []string{"reason"})
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
