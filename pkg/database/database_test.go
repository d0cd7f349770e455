package database

import (
	"database/sql"
	"testing"

	"content_moderation/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

type recordingGauge struct {
	active, idle int
	calls        int
}

func (g *recordingGauge) UpdateDBConnections(active, idle int) {
	g.active, g.idle = active, idle
	g.calls++
}

func TestPoolMonitorCollect(t *testing.T) {
	gauge := &recordingGauge{}
	m := &PoolMonitor{
		stats: func() sql.DBStats {
			return sql.DBStats{InUse: 7, Idle: 3, WaitCount: 500}
		},
		gauge:     gauge,
		waitAlert: 100,
	}

	m.collect()
	m.collect()

	assert.Equal(t, 2, gauge.calls)
	assert.Equal(t, 7, gauge.active)
	assert.Equal(t, 3, gauge.idle)
	assert.Equal(t, int64(500), m.lastWait)
}

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db", User: "app", Password: "pw", DBName: "moderation",
		Port: "5432", SSLMode: "disable", TimeZone: "UTC",
	}

	assert.Equal(t, "host=db user=app password=pw dbname=moderation port=5432 sslmode=disable TimeZone=UTC", DSN(cfg))
	assert.Equal(t, "postgres://app:pw@db:5432/moderation?sslmode=disable", MigrateURL(cfg))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseLogLevel("silent"))
	assert.Equal(t, logger.Info, parseLogLevel("INFO"))
	assert.Equal(t, logger.Warn, parseLogLevel(""))
}
