package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"content_moderation/internal/domain/moderation/analyzer"
	"content_moderation/internal/domain/moderation/model"
	"content_moderation/internal/domain/moderation/repository"
	"content_moderation/pkg/logger"
	"content_moderation/pkg/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 审核记录不存在
	ErrNotFound = errors.New("moderation record not found")
	// ErrInvalidState 记录已处理，不能改为其他状态
	ErrInvalidState = errors.New("moderation record has already been processed")
)

// DefaultPendingLimit 待审核队列默认条数
const DefaultPendingLimit = 50

// ModerationService 内容审核服务接口
type ModerationService interface {
	ModerateContent(ctx context.Context, contentType model.ContentType, contentID, content, authorID string) (*model.ModerationRecord, error)
	Create(ctx context.Context, in CreateInput) (*model.ModerationRecord, error)
	FindAll(ctx context.Context, q Query) (*utils.PageResult, error)
	FindOne(ctx context.Context, id string) (*model.ModerationRecord, error)
	Update(ctx context.Context, id string, in UpdateInput) (*model.ModerationRecord, error)
	BulkUpdate(ctx context.Context, ids []string, status model.Status, moderatorID string, reason *string) (*model.BulkResult, error)
	GetPendingReviews(ctx context.Context, limit int) ([]model.ModerationRecord, error)
	GetStats(ctx context.Context) (*model.Stats, error)
	Remove(ctx context.Context, id string) error
}

// Notifier 审核结果通知，实现方需保证不阻塞调用方
type Notifier interface {
	Notify(ctx context.Context, record model.ModerationRecord)
}

// Recorder 审核指标
type Recorder interface {
	RecordDecision(contentType, action string, toxicity float64)
	RecordResolution(status, mode string, count int)
}

// CreateInput 手工创建审核记录
type CreateInput struct {
	ContentType      model.ContentType
	ContentID        string
	Content          string
	AuthorID         string
	Action           model.Action
	ModerationReason *string
	FlaggedKeywords  []string
	ToxicityScore    *float64
	Metadata         map[string]interface{}
}

// UpdateInput 人工审核
type UpdateInput struct {
	Status           model.Status
	ModeratorID      *string
	ModerationReason *string
}

// Query 列表查询
type Query struct {
	utils.Pagination
	Status      model.Status      `form:"status" binding:"omitempty,oneof=pending approved rejected flagged"`
	ContentType model.ContentType `form:"contentType" binding:"omitempty,oneof=review message space_description user_profile partner_profile"`
	AuthorID    string            `form:"authorId" binding:"omitempty,uuid"`
	ModeratorID string            `form:"moderatorId" binding:"omitempty,uuid"`
	Search      string            `form:"search" binding:"omitempty,max=200"`
}

// Options 可选依赖
type Options struct {
	PendingLimit int
	Notifier     Notifier
	Metrics      Recorder
}

type moderationService struct {
	repo         repository.ModerationRepository
	pendingLimit int
	notifier     Notifier
	metrics      Recorder
	now          func() time.Time
}

// NewModerationService 创建审核服务
func NewModerationService(repo repository.ModerationRepository, opts Options) ModerationService {
	if opts.PendingLimit <= 0 {
		opts.PendingLimit = DefaultPendingLimit
	}
	return &moderationService{
		repo:         repo,
		pendingLimit: opts.PendingLimit,
		notifier:     opts.Notifier,
		metrics:      opts.Metrics,
		now:          time.Now,
	}
}

// ModerateContent 自动审核并落库
func (s *moderationService) ModerateContent(ctx context.Context, contentType model.ContentType, contentID, content, authorID string) (*model.ModerationRecord, error) {
	verdict := analyzer.Analyze(content)
	now := s.now()

	record := &model.ModerationRecord{
		ContentType:      contentType,
		ContentID:        contentID,
		Content:          content,
		AuthorID:         authorID,
		Status:           analyzer.StatusFor(verdict.Action),
		Action:           verdict.Action,
		ModerationReason: &verdict.Reason,
		FlaggedKeywords:  pq.StringArray(verdict.FlaggedKeywords),
		ToxicityScore:    &verdict.ToxicityScore,
		Metadata: datatypes.JSONMap{
			"autoModerated":     true,
			"analysisTimestamp": now.UTC().Format(time.RFC3339),
		},
	}
	if record.FlaggedKeywords == nil {
		record.FlaggedKeywords = pq.StringArray{}
	}
	if verdict.Action != model.ActionManualReview {
		record.ModeratedAt = &now
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("save moderation record: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordDecision(string(contentType), string(verdict.Action), verdict.ToxicityScore)
	}
	logger.L().Info("content moderated",
		zap.String("id", record.ID),
		zap.String("contentType", string(contentType)),
		zap.String("contentId", contentID),
		zap.String("action", string(verdict.Action)),
		zap.Float64("toxicity", verdict.ToxicityScore),
	)

	if verdict.Action == model.ActionAutoRejected {
		s.notify(ctx, *record)
	}
	return record, nil
}

// Create 手工创建，无论 action 是什么都进入 pending
func (s *moderationService) Create(ctx context.Context, in CreateInput) (*model.ModerationRecord, error) {
	keywords := pq.StringArray{}
	if len(in.FlaggedKeywords) > 0 {
		keywords = pq.StringArray(in.FlaggedKeywords)
	}
	metadata := datatypes.JSONMap{}
	for k, v := range in.Metadata {
		metadata[k] = v
	}

	record := &model.ModerationRecord{
		ContentType:      in.ContentType,
		ContentID:        in.ContentID,
		Content:          in.Content,
		AuthorID:         in.AuthorID,
		Status:           model.StatusPending,
		Action:           in.Action,
		ModerationReason: in.ModerationReason,
		FlaggedKeywords:  keywords,
		ToxicityScore:    in.ToxicityScore,
		Metadata:         metadata,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("save moderation record: %w", err)
	}
	return record, nil
}

// FindAll 分页查询
func (s *moderationService) FindAll(ctx context.Context, q Query) (*utils.PageResult, error) {
	offset, limit := q.GetPageOffset()
	filter := repository.Filter{
		Status:      q.Status,
		ContentType: q.ContentType,
		AuthorID:    q.AuthorID,
		ModeratorID: q.ModeratorID,
		Search:      q.Search,
	}

	records, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list moderation records: %w", err)
	}
	result := utils.NewPageResult(records, total, q.Page, limit)
	return &result, nil
}

// FindOne 查询单条
func (s *moderationService) FindOne(ctx context.Context, id string) (*model.ModerationRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get moderation record %s: %w", id, err)
	}
	return record, nil
}

// Update 人工审核单条记录
// 写入以读取时的状态为条件，并发下只有一个请求能成功
func (s *moderationService) Update(ctx context.Context, id string, in UpdateInput) (*model.ModerationRecord, error) {
	current, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.IsTerminal() && current.Status != in.Status {
		return nil, ErrInvalidState
	}

	res := repository.Resolution{
		Status:           in.Status,
		ModerationReason: in.ModerationReason,
	}
	// 重新提交为 pending 时只合并原因，审核员和审核时间保持为空
	if in.Status.IsTerminal() {
		res.ModeratorID = in.ModeratorID
		res.ModeratedAt = s.now()
	}
	affected, err := s.repo.UpdateIfStatus(ctx, id, current.Status, res)
	if err != nil {
		return nil, fmt.Errorf("update moderation record %s: %w", id, err)
	}

	if affected == 0 {
		// 读写之间被其他请求处理或删除
		latest, err := s.FindOne(ctx, id)
		if err != nil {
			return nil, err
		}
		if latest.Status != in.Status {
			logger.L().Warn("moderation update lost race",
				zap.String("id", id),
				zap.String("requested", string(in.Status)),
				zap.String("current", string(latest.Status)),
			)
			return nil, ErrInvalidState
		}
		return latest, nil
	}

	applyResolution(current, res)
	if !in.Status.IsTerminal() {
		return current, nil
	}
	if s.metrics != nil {
		s.metrics.RecordResolution(string(in.Status), "single", 1)
	}
	s.notify(ctx, *current)
	return current, nil
}

// BulkUpdate 批量处理，只会命中当前为 pending 的记录
func (s *moderationService) BulkUpdate(ctx context.Context, ids []string, status model.Status, moderatorID string, reason *string) (*model.BulkResult, error) {
	if !status.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot bulk update to %s", ErrInvalidState, status)
	}

	unique := dedupe(ids)
	result := &model.BulkResult{
		Requested:  len(unique),
		UpdatedIDs: []string{},
		SkippedIDs: []string{},
	}
	if len(unique) == 0 {
		return result, nil
	}

	updated, err := s.repo.BulkResolve(ctx, unique, repository.Resolution{
		Status:           status,
		ModeratorID:      &moderatorID,
		ModerationReason: reason,
		ModeratedAt:      s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("bulk update moderation records: %w", err)
	}

	hit := make(map[string]struct{}, len(updated))
	for _, r := range updated {
		hit[r.ID] = struct{}{}
	}
	for _, id := range unique {
		if _, ok := hit[id]; ok {
			result.UpdatedIDs = append(result.UpdatedIDs, id)
		} else {
			result.SkippedIDs = append(result.SkippedIDs, id)
		}
	}
	result.Affected = int64(len(result.UpdatedIDs))

	if s.metrics != nil && len(updated) > 0 {
		s.metrics.RecordResolution(string(status), "bulk", len(updated))
	}
	logger.L().Info("bulk moderation",
		zap.String("moderatorId", moderatorID),
		zap.String("status", string(status)),
		zap.Int("requested", result.Requested),
		zap.Int64("affected", result.Affected),
	)
	for _, r := range updated {
		s.notify(ctx, r)
	}
	return result, nil
}

// GetPendingReviews 待审核队列，先进先出
func (s *moderationService) GetPendingReviews(ctx context.Context, limit int) ([]model.ModerationRecord, error) {
	if limit <= 0 {
		limit = s.pendingLimit
	}
	records, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}
	if records == nil {
		records = []model.ModerationRecord{}
	}
	return records, nil
}

// GetStats 统计
func (s *moderationService) GetStats(ctx context.Context) (*model.Stats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count moderation records: %w", err)
	}
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byAction, err := s.repo.CountByAction(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by action: %w", err)
	}

	return &model.Stats{
		Total:        total,
		Pending:      byStatus[model.StatusPending],
		Approved:     byStatus[model.StatusApproved],
		Rejected:     byStatus[model.StatusRejected],
		Flagged:      byStatus[model.StatusFlagged],
		AutoApproved: byAction[model.ActionAutoApproved],
		AutoRejected: byAction[model.ActionAutoRejected],
		ManualReview: byAction[model.ActionManualReview],
	}, nil
}

// Remove 物理删除
func (s *moderationService) Remove(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete moderation record %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *moderationService) notify(ctx context.Context, record model.ModerationRecord) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, record)
}

func applyResolution(record *model.ModerationRecord, res repository.Resolution) {
	record.Status = res.Status
	if res.Status.IsTerminal() {
		moderatedAt := res.ModeratedAt
		record.ModeratorID = res.ModeratorID
		record.ModeratedAt = &moderatedAt
	} else {
		record.ModeratorID = nil
		record.ModeratedAt = nil
	}
	if res.ModerationReason != nil {
		record.ModerationReason = res.ModerationReason
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
