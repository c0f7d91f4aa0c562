// Package observability holds domain metrics and the tracing setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records query latency by GORM operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogapp_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// InteractionToggles counts like and bookmark toggles by kind and resulting action.
	InteractionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogapp_interaction_toggles_total",
		Help: "Total number of like/bookmark toggles",
	}, []string{"kind", "action"})

	// NotificationsCreated counts stored notifications by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogapp_notifications_created_total",
		Help: "Total number of notifications created",
	}, []string{"type"})

	// NotificationPublishFailures counts realtime publishes that failed after commit.
	NotificationPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blogapp_notification_publish_failures_total",
		Help: "Total number of notification events that could not be published",
	})

	// PostViews counts detail views that incremented a post's view counter.
	PostViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blogapp_post_views_total",
		Help: "Total number of post detail views",
	})

	// MediaUploads counts stored uploads by kind (post, profile) and format.
	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogapp_media_uploads_total",
		Help: "Total number of stored media uploads",
	}, []string{"kind", "format"})
)

const queryStartKey = "observability:query_start"

// RegisterGormMetrics installs before/after callbacks that feed DatabaseQueryLatency.
func RegisterGormMetrics(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	steps := []struct {
		op       string
		register func(name string, fn func(*gorm.DB)) error
		after    func(name string, fn func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, s := range steps {
		if err := s.register("metrics:before_"+s.op, before); err != nil {
			return err
		}
		if err := s.after("metrics:after_"+s.op, after(s.op)); err != nil {
			return err
		}
	}
	return nil
}
