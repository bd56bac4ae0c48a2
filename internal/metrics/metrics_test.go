package metrics_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type probe struct {
	ID   uint
	Name string
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&probe{}))

	return db
}

func TestGormPluginRecordsQueries(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	db := openDB(t)
	require.NoError(t, db.Use(metrics.NewGormPlugin(m, zap.NewNop())))

	require.NoError(t, db.Create(&probe{Name: "stella"}).Error)

	var found probe
	require.NoError(t, db.First(&found, "name = ?", "stella").Error)
	assert.ErrorIs(t, db.First(&found, "name = ?", "buried").Error, gorm.ErrRecordNotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("create", "probes", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("query", "probes", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("query", "probes", "not_found")))
}

func TestDatabaseMonitor(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	db := openDB(t)
	monitor := metrics.NewDatabaseMonitor(m, zap.NewNop(), db)

	require.NoError(t, monitor.HealthCheck(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("ping", "health_check", "success")))

	monitor.Sample()
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.DBConnectionsIdle), 0.0)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.Error(t, monitor.HealthCheck(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBConnectionErrors))
}

type countingSampler struct {
	n atomic.Int32
}

func (s *countingSampler) Sample() { s.n.Add(1) }

func TestCollectorSamplesUntilStopped(t *testing.T) {
	sampler := &countingSampler{}
	collector := metrics.NewCollector(zap.NewNop(), sampler)

	collector.Start(5 * time.Millisecond)
	collector.Start(5 * time.Millisecond)

	assert.Eventually(t, func() bool { return sampler.n.Load() >= 3 }, time.Second, time.Millisecond)

	collector.Stop()
	stopped := sampler.n.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, sampler.n.Load())

	collector.Stop()
}

func TestRuntimeSampler(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())

	metrics.NewRuntimeSampler(m).Sample()

	assert.Greater(t, testutil.ToFloat64(m.Goroutines), 0.0)
	assert.Greater(t, testutil.ToFloat64(m.MemoryUsageBytes.WithLabelValues("sys")), 0.0)
}
