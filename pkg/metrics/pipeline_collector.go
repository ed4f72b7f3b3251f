package metrics

import (
	"context"
	"fmt"

	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type pipelineStatsCollector struct {
	store                store.Store
	applicationsByStatus *prometheus.Desc
	jobPostsByStatus     *prometheus.Desc
	pendingRounds        *prometheus.Desc
	totalCompanies       *prometheus.Desc
	totalSeekers         *prometheus.Desc
}

// NewPipelineStatsCollector scrapes pipeline counts straight from the store
// on each /metrics pull.
func NewPipelineStatsCollector(s store.Store) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_pipeline_%s", hiredeck, name)
	}

	return &pipelineStatsCollector{
		store: s,
		applicationsByStatus: prometheus.NewDesc(
			fqName("applications_total"),
			"Total number of applications by status.",
			[]string{"status"},
			prometheus.Labels{},
		),
		jobPostsByStatus: prometheus.NewDesc(
			fqName("job_posts_total"),
			"Total number of job posts by status.",
			[]string{"status"},
			prometheus.Labels{},
		),
		pendingRounds: prometheus.NewDesc(
			fqName("pending_rounds_total"),
			"Total number of interview rounds awaiting evaluation.",
			nil,
			prometheus.Labels{},
		),
		totalCompanies: prometheus.NewDesc(
			fqName("companies_total"),
			"Total number of company profiles.",
			nil,
			prometheus.Labels{},
		),
		totalSeekers: prometheus.NewDesc(
			fqName("seekers_total"),
			"Total number of job seeker profiles.",
			nil,
			prometheus.Labels{},
		),
	}
}

func (c *pipelineStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.applicationsByStatus
	ch <- c.jobPostsByStatus
	ch <- c.pendingRounds
	ch <- c.totalCompanies
	ch <- c.totalSeekers
}

// Collect implements Collector.
func (c *pipelineStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.store.Statistics(context.Background())
	if err != nil {
		zap.S().Named("pipeline_collector").Errorf("failed to collect pipeline statistics: %s", err)
		return
	}

	for status, total := range stats.ApplicationsByStatus {
		ch <- prometheus.MustNewConstMetric(c.applicationsByStatus, prometheus.GaugeValue, float64(total), status)
	}
	for status, total := range stats.JobPostsByStatus {
		ch <- prometheus.MustNewConstMetric(c.jobPostsByStatus, prometheus.GaugeValue, float64(total), status)
	}
	ch <- prometheus.MustNewConstMetric(c.pendingRounds, prometheus.GaugeValue, float64(stats.PendingRounds))
	ch <- prometheus.MustNewConstMetric(c.totalCompanies, prometheus.GaugeValue, float64(stats.TotalCompanies))
	ch <- prometheus.MustNewConstMetric(c.totalSeekers, prometheus.GaugeValue, float64(stats.TotalSeekers))
}
