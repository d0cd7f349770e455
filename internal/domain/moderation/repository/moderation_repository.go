package repository

import (
	"context"
	"time"

	"content_moderation/internal/domain/moderation/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter 列表查询条件，空值表示不过滤，多个条件之间为 AND
type Filter struct {
	Status      model.Status
	ContentType model.ContentType
	AuthorID    string
	ModeratorID string
	Search      string
}

// Resolution 人工审核写入的字段
type Resolution struct {
	Status           model.Status
	ModeratorID      *string
	ModerationReason *string
	ModeratedAt      time.Time
}

// ModerationRepository 审核记录仓库
type ModerationRepository interface {
	Create(ctx context.Context, record *model.ModerationRecord) error
	GetByID(ctx context.Context, id string) (*model.ModerationRecord, error)
	List(ctx context.Context, filter Filter, offset, limit int) ([]model.ModerationRecord, int64, error)
	ListPending(ctx context.Context, limit int) ([]model.ModerationRecord, error)
	UpdateIfStatus(ctx context.Context, id string, expected model.Status, res Resolution) (int64, error)
	BulkResolve(ctx context.Context, ids []string, res Resolution) ([]model.ModerationRecord, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[model.Status]int64, error)
	CountByAction(ctx context.Context) (map[model.Action]int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type moderationRepository struct {
	db *gorm.DB
}

// NewModerationRepository 创建仓库实例
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) Create(ctx context.Context, record *model.ModerationRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *moderationRepository) GetByID(ctx context.Context, id string) (*model.ModerationRecord, error) {
	var record model.ModerationRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// List 分页查询，按创建时间倒序
func (r *moderationRepository) List(ctx context.Context, filter Filter, offset, limit int) ([]model.ModerationRecord, int64, error) {
	var records []model.ModerationRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ModerationRecord{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.ContentType != "" {
		query = query.Where("content_type = ?", string(filter.ContentType))
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.ModeratorID != "" {
		query = query.Where("moderator_id = ?", filter.ModeratorID)
	}
	if filter.Search != "" {
		query = query.Where("content ILIKE ?", "%"+escapeLike(filter.Search)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.ModerationRecord{}, 0, nil
	}

	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListPending 待审核队列，先进先出
func (r *moderationRepository) ListPending(ctx context.Context, limit int) ([]model.ModerationRecord, error) {
	var records []model.ModerationRecord
	err := r.db.WithContext(ctx).
		Where("status = ?", string(model.StatusPending)).
		Order("created_at asc").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// UpdateIfStatus 条件更新（CAS），只有当前状态等于 expected 时才会写入
func (r *moderationRepository) UpdateIfStatus(ctx context.Context, id string, expected model.Status, res Resolution) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.ModerationRecord{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(resolutionColumns(res))
	return result.RowsAffected, result.Error
}

// BulkResolve 单条语句批量处理，只会命中 pending 记录，返回实际更新的行
func (r *moderationRepository) BulkResolve(ctx context.Context, ids []string, res Resolution) ([]model.ModerationRecord, error) {
	var updated []model.ModerationRecord
	err := r.db.WithContext(ctx).Model(&updated).
		Clauses(clause.Returning{}).
		Where("id IN ? AND status = ?", ids, string(model.StatusPending)).
		Updates(resolutionColumns(res)).Error
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *moderationRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.ModerationRecord{}).Count(&total).Error
	return total, err
}

type groupCount struct {
	GroupKey string
	Count    int64
}

func (r *moderationRepository) countBy(ctx context.Context, column string) ([]groupCount, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).Model(&model.ModerationRecord{}).
		Select(column + " AS group_key, count(*) AS count").
		Group(column).
		Scan(&rows).Error
	return rows, err
}

func (r *moderationRepository) CountByStatus(ctx context.Context) (map[model.Status]int64, error) {
	rows, err := r.countBy(ctx, "status")
	if err != nil {
		return nil, err
	}
	out := make(map[model.Status]int64, len(rows))
	for _, row := range rows {
		out[model.Status(row.GroupKey)] = row.Count
	}
	return out, nil
}

func (r *moderationRepository) CountByAction(ctx context.Context) (map[model.Action]int64, error) {
	rows, err := r.countBy(ctx, "action")
	if err != nil {
		return nil, err
	}
	out := make(map[model.Action]int64, len(rows))
	for _, row := range rows {
		out[model.Action(row.GroupKey)] = row.Count
	}
	return out, nil
}

// Delete 物理删除
func (r *moderationRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ModerationRecord{})
	return result.RowsAffected, result.Error
}

func resolutionColumns(res Resolution) map[string]interface{} {
	cols := map[string]interface{}{
		"status":       string(res.Status),
		"moderator_id": res.ModeratorID,
		"moderated_at": res.ModeratedAt,
	}
	if res.ModerationReason != nil {
		cols["moderation_reason"] = res.ModerationReason
	}
	// pending 记录不带审核员和审核时间
	if !res.Status.IsTerminal() {
		cols["moderator_id"] = nil
		cols["moderated_at"] = nil
	}
	return cols
}

// escapeLike 转义 ILIKE 通配符，搜索按字面子串匹配
func escapeLike(s string) string {
	r := []rune{}
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(r)
}
