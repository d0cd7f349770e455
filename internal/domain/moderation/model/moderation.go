package model

import (
	"time"

	baseModel "content_moderation/pkg/model"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ContentType 内容来源
type ContentType string

const (
	ContentTypeReview           ContentType = "review"
	ContentTypeMessage          ContentType = "message"
	ContentTypeSpaceDescription ContentType = "space_description"
	ContentTypeUserProfile      ContentType = "user_profile"
	ContentTypePartnerProfile   ContentType = "partner_profile"
)

// Status 当前审核状态，pending 是唯一的非终态
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusFlagged  Status = "flagged"
)

// Action 记录是如何进入当前状态的，创建后不再修改
type Action string

const (
	ActionAutoApproved Action = "auto_approved"
	ActionAutoRejected Action = "auto_rejected"
	ActionManualReview Action = "manual_review"
	ActionUserReported Action = "user_reported"
)

// IsTerminal 是否已经处理完成
func (s Status) IsTerminal() bool {
	return s != StatusPending
}

// ModerationRecord 审核记录
type ModerationRecord struct {
	baseModel.BaseModel
	ContentType      ContentType       `gorm:"type:varchar(32);not null;index" json:"contentType"`
	ContentID        string            `gorm:"type:varchar(255);not null;index" json:"contentId"`
	Content          string            `gorm:"type:text;not null" json:"content"`
	AuthorID         string            `gorm:"type:uuid;not null;index" json:"authorId"`
	Status           Status            `gorm:"type:varchar(16);not null;index" json:"status"`
	Action           Action            `gorm:"type:varchar(32);not null;index" json:"action"`
	ModeratorID      *string           `gorm:"type:uuid;index" json:"moderatorId"`
	ModerationReason *string           `gorm:"type:text" json:"moderationReason"`
	FlaggedKeywords  pq.StringArray    `gorm:"type:text[];not null" json:"flaggedKeywords"`
	ToxicityScore    *float64          `gorm:"type:numeric(4,3)" json:"toxicityScore"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb;not null" json:"metadata"`
	ModeratedAt      *time.Time        `json:"moderatedAt"`
}

// TableName 表名
func (ModerationRecord) TableName() string {
	return "content_moderations"
}

// Stats 审核统计，按状态和按来源两种维度分别计数，两者不是同一总数的划分
type Stats struct {
	Total        int64 `json:"total"`
	Pending      int64 `json:"pending"`
	Approved     int64 `json:"approved"`
	Rejected     int64 `json:"rejected"`
	Flagged      int64 `json:"flagged"`
	AutoApproved int64 `json:"autoApproved"`
	AutoRejected int64 `json:"autoRejected"`
	ManualReview int64 `json:"manualReview"`
}

// BulkResult 批量审核结果
type BulkResult struct {
	Requested  int      `json:"requested"`
	Affected   int64    `json:"affected"`
	UpdatedIDs []string `json:"updatedIds"`
	SkippedIDs []string `json:"skippedIds"` // 不存在或已处理
}
