package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Remote cart mutations by operation and result.",
	}, []string{"op", "result"})

	staleHydrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_stale_hydrations_total",
		Help: "Cart snapshots dropped because a newer one was already applied.",
	})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_search_duration_seconds",
		Help:    "Catalogue query latency.",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	}, []string{"kind"})

	catalogProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_catalog_products",
		Help: "Products in the loaded catalogue snapshot.",
	})

	catalogRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_refreshes_total",
		Help: "Catalogue refreshes by result (ok, partial, failed).",
	}, []string{"result"})

	formSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_form_submissions_total",
		Help: "Form submissions by kind and result.",
	}, []string{"kind", "result"})
)
