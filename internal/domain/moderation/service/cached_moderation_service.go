package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"content_moderation/internal/domain/moderation/model"
	"content_moderation/pkg/cache"
	"content_moderation/pkg/logger"
	"content_moderation/pkg/utils"

	"go.uber.org/zap"
)

// 缓存键常量
const (
	StatsCacheKey         = "moderation:stats"
	RecordCacheKeyPrefix  = "moderation:record:"
	DefaultStatsCacheTTL  = 30 * time.Second
	DefaultRecordCacheTTL = 5 * time.Minute
)

// CacheRecorder 缓存命中指标
type CacheRecorder interface {
	RecordCacheOperation(keyPrefix string, hit bool)
}

// CachedModerationService 带缓存的审核服务
// 缓存 GetStats 和 FindOne，所有写操作都会使相关缓存失效
type CachedModerationService struct {
	inner     ModerationService
	cache     cache.CacheService
	statsTTL  time.Duration
	recordTTL time.Duration
	metrics   CacheRecorder
}

// NewCachedModerationService 创建带缓存的审核服务
func NewCachedModerationService(inner ModerationService, c cache.CacheService, statsTTL, recordTTL time.Duration, metrics CacheRecorder) ModerationService {
	if statsTTL <= 0 {
		statsTTL = DefaultStatsCacheTTL
	}
	if recordTTL <= 0 {
		recordTTL = DefaultRecordCacheTTL
	}
	return &CachedModerationService{
		inner:     inner,
		cache:     c,
		statsTTL:  statsTTL,
		recordTTL: recordTTL,
		metrics:   metrics,
	}
}

func recordCacheKey(id string) string {
	return fmt.Sprintf("%s%s", RecordCacheKeyPrefix, id)
}

// invalidate 清除统计缓存以及给定记录的缓存
func (s *CachedModerationService) invalidate(ctx context.Context, ids ...string) {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, StatsCacheKey)
	for _, id := range ids {
		keys = append(keys, recordCacheKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.L().Warn("failed to invalidate moderation cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *CachedModerationService) recordHit(prefix string, hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(prefix, hit)
	}
}

func (s *CachedModerationService) ModerateContent(ctx context.Context, contentType model.ContentType, contentID, content, authorID string) (*model.ModerationRecord, error) {
	record, err := s.inner.ModerateContent(ctx, contentType, contentID, content, authorID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return record, nil
}

func (s *CachedModerationService) Create(ctx context.Context, in CreateInput) (*model.ModerationRecord, error) {
	record, err := s.inner.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return record, nil
}

// FindAll 列表不缓存，过滤条件组合太多
func (s *CachedModerationService) FindAll(ctx context.Context, q Query) (*utils.PageResult, error) {
	return s.inner.FindAll(ctx, q)
}

// FindOne 获取单条记录（带缓存）
func (s *CachedModerationService) FindOne(ctx context.Context, id string) (*model.ModerationRecord, error) {
	key := recordCacheKey(id)

	var cached model.ModerationRecord
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		s.recordHit("record", true)
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.L().Warn("moderation cache read failed", zap.String("key", key), zap.Error(err))
	}
	s.recordHit("record", false)

	record, err := s.inner.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, record, s.recordTTL); err != nil {
		logger.L().Warn("failed to cache moderation record", zap.String("id", id), zap.Error(err))
	}
	return record, nil
}

func (s *CachedModerationService) Update(ctx context.Context, id string, in UpdateInput) (*model.ModerationRecord, error) {
	record, err := s.inner.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return record, nil
}

func (s *CachedModerationService) BulkUpdate(ctx context.Context, ids []string, status model.Status, moderatorID string, reason *string) (*model.BulkResult, error) {
	result, err := s.inner.BulkUpdate(ctx, ids, status, moderatorID, reason)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, result.UpdatedIDs...)
	return result, nil
}

// GetPendingReviews 队列变化频繁，直接读库
func (s *CachedModerationService) GetPendingReviews(ctx context.Context, limit int) ([]model.ModerationRecord, error) {
	return s.inner.GetPendingReviews(ctx, limit)
}

// GetStats 获取统计（带缓存）
func (s *CachedModerationService) GetStats(ctx context.Context) (*model.Stats, error) {
	var cached model.Stats
	if err := s.cache.Get(ctx, StatsCacheKey, &cached); err == nil {
		s.recordHit("stats", true)
		return &cached, nil
	}
	s.recordHit("stats", false)

	stats, err := s.inner.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, StatsCacheKey, stats, s.statsTTL); err != nil {
		logger.L().Warn("failed to cache moderation stats", zap.Error(err))
	}
	return stats, nil
}

func (s *CachedModerationService) Remove(ctx context.Context, id string) error {
	if err := s.inner.Remove(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}
