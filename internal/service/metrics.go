package service

import "github.com/prometheus/client_golang/prometheus"

var (
	articlesPublishedCounter prometheus.Counter
	articleViewsCounter      prometheus.Counter
)

func init() {
	articlesPublishedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_published_total",
			Help: "Total number of articles transitioned from draft to published.",
		},
	)
	articleViewsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "article_views_total",
			Help: "Total number of counted reads of published articles.",
		},
	)
	prometheus.MustRegister(articlesPublishedCounter, articleViewsCounter)
}
