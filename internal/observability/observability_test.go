package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "blogapp-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "service", "Noop")
	span.SetError(errors.New("ignored by no-op span"))
	span.End()
	assert.NotNil(t, ctx)
	assert.Empty(t, span.TraceID())
}

func TestSpan_NilSafe(t *testing.T) {
	var s *Span
	s.SetError(errors.New("x"))
	s.End()
	assert.Empty(t, s.TraceID())
}

func TestRegisterGormMetrics_ObservesQueries(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, RegisterGormMetrics(db))

	type widget struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&widget{}))

	before := testutil.CollectAndCount(DatabaseQueryLatency)
	require.NoError(t, db.Create(&widget{Name: "a"}).Error)
	var got []widget
	require.NoError(t, db.Find(&got).Error)

	assert.Len(t, got, 1)
	assert.Greater(t, testutil.CollectAndCount(DatabaseQueryLatency), before)
}
