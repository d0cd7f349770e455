package database

import (
	"context"
	"database/sql"
	"time"

	"content_moderation/pkg/logger"

	"go.uber.org/zap"
)

// PoolGauge 连接池指标
type PoolGauge interface {
	UpdateDBConnections(active, idle int)
}

// PoolMonitor 定期把连接池状态写入指标
type PoolMonitor struct {
	stats    func() sql.DBStats
	gauge    PoolGauge
	interval time.Duration
	// 等待连接次数告警阈值，超过时输出警告日志
	waitAlert int64
	lastWait  int64
}

// NewPoolMonitor 创建连接池监控器
func NewPoolMonitor(db *sql.DB, gauge PoolGauge, interval time.Duration) *PoolMonitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &PoolMonitor{
		stats:     db.Stats,
		gauge:     gauge,
		interval:  interval,
		waitAlert: 100,
	}
}

// Run 阻塞运行直到 ctx 取消
func (m *PoolMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.collect()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collect()
		}
	}
}

func (m *PoolMonitor) collect() {
	s := m.stats()
	m.gauge.UpdateDBConnections(s.InUse, s.Idle)

	waits := s.WaitCount - m.lastWait
	m.lastWait = s.WaitCount
	if waits > m.waitAlert {
		logger.L().Warn("database pool saturated",
			zap.Int64("waits", waits),
			zap.Duration("waitDuration", s.WaitDuration),
			zap.Int("open", s.OpenConnections),
			zap.Int("maxOpen", s.MaxOpenConnections),
		)
	}
}
