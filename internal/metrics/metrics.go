package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess           = "success"
	OutcomeInvalidPayment    = "invalid_payment"
	OutcomeEmptyCart         = "empty_cart"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeError             = "error"
)

var (
	CheckoutsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookstore_checkouts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})

	SaleAmountTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookstore_sale_amount_total",
		Help: "Cumulative value of committed sales.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(CheckoutsTotal, SaleAmountTotal)
}
