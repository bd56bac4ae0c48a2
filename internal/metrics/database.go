package metrics

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	slowQueryThreshold = 100 * time.Millisecond
	startKey           = "metrics:start"
)

// DatabaseMonitor samples the connection pool and answers health probes.
type DatabaseMonitor struct {
	metrics *Metrics
	logger  *zap.Logger
	sqlDB   *sql.DB
}

func NewDatabaseMonitor(metrics *Metrics, logger *zap.Logger, db *gorm.DB) *DatabaseMonitor {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Database handle unavailable for metrics", zap.Error(err))
		metrics.RecordDBConnectionError()
	}

	return &DatabaseMonitor{metrics: metrics, logger: logger, sqlDB: sqlDB}
}

func (d *DatabaseMonitor) Sample() {
	if d.sqlDB == nil {
		return
	}

	stats := d.sqlDB.Stats()
	d.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	d.metrics.DBConnectionsIdle.Set(float64(stats.Idle))
}

func (d *DatabaseMonitor) HealthCheck(ctx context.Context) error {
	if d.sqlDB == nil {
		d.metrics.RecordDBConnectionError()
		return sql.ErrConnDone
	}

	start := time.Now()
	err := d.sqlDB.PingContext(ctx)
	d.metrics.RecordDBQuery("ping", "health_check", queryStatus(err), time.Since(start))
	if err != nil {
		d.metrics.RecordDBConnectionError()
	}

	return err
}

// GormPlugin times every statement gorm executes, labelled by operation and
// table.
type GormPlugin struct {
	metrics *Metrics
	logger  *zap.Logger
}

var _ gorm.Plugin = (*GormPlugin)(nil)

func NewGormPlugin(metrics *Metrics, logger *zap.Logger) *GormPlugin {
	return &GormPlugin{metrics: metrics, logger: logger}
}

func (p *GormPlugin) Name() string { return "arcmarket:metrics" }

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	return errors.Join(
		cb.Create().Before("gorm:create").Register("metrics:before_create", markStart),
		cb.Create().After("gorm:create").Register("metrics:after_create", p.observe("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", markStart),
		cb.Query().After("gorm:query").Register("metrics:after_query", p.observe("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", markStart),
		cb.Update().After("gorm:update").Register("metrics:after_update", p.observe("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", markStart),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", p.observe("delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", markStart),
		cb.Row().After("gorm:row").Register("metrics:after_row", p.observe("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", markStart),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", p.observe("raw")),
	)
}

func markStart(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func (p *GormPlugin) observe(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}

		duration := time.Since(start)
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		status := queryStatus(db.Error)

		p.metrics.RecordDBQuery(operation, table, status, duration)

		if duration > slowQueryThreshold {
			p.logger.Warn("Slow database query",
				zap.String("operation", operation),
				zap.String("table", table),
				zap.String("status", status),
				zap.Duration("duration", duration),
			)
		}
	}
}

func queryStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "not_found"
	default:
		return "error"
	}
}
