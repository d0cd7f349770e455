package handler

import (
	"errors"
	"fmt"
	"net/http"

	"content_moderation/internal/domain/moderation/model"
	"content_moderation/internal/domain/moderation/service"
	"content_moderation/internal/pkg/middleware"
	"content_moderation/pkg/logger"
	"content_moderation/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ModerationHandler 内容审核处理器
type ModerationHandler struct {
	service service.ModerationService
}

// NewModerationHandler 创建处理器
func NewModerationHandler(service service.ModerationService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

// CreateRequest 手工创建审核记录
type CreateRequest struct {
	ContentType      model.ContentType      `json:"contentType" binding:"required,oneof=review message space_description user_profile partner_profile"`
	ContentID        string                 `json:"contentId" binding:"required,max=255"`
	Content          string                 `json:"content" binding:"required"`
	AuthorID         string                 `json:"authorId" binding:"required,uuid"`
	Action           model.Action           `json:"action" binding:"required,oneof=auto_approved auto_rejected manual_review user_reported"`
	ModerationReason *string                `json:"moderationReason" binding:"omitempty,max=1000"`
	FlaggedKeywords  []string               `json:"flaggedKeywords" binding:"omitempty,dive,required"`
	ToxicityScore    *float64               `json:"toxicityScore" binding:"omitempty,min=0,max=1"`
	Metadata         map[string]interface{} `json:"metadata"`
}

// ModerateRequest 提交待审内容
type ModerateRequest struct {
	ContentType model.ContentType `json:"contentType" binding:"required,oneof=review message space_description user_profile partner_profile"`
	ContentID   string            `json:"contentId" binding:"required,max=255"`
	Content     string            `json:"content" binding:"required"`
	AuthorID    string            `json:"authorId" binding:"required,uuid"`
}

// UpdateRequest 人工审核，pending 记录可原样重新提交为 pending
type UpdateRequest struct {
	Status           model.Status `json:"status" binding:"required,oneof=pending approved rejected flagged"`
	ModeratorID      *string      `json:"moderatorId" binding:"omitempty,uuid"`
	ModerationReason *string      `json:"moderationReason" binding:"omitempty,max=1000"`
}

// BulkUpdateRequest 批量审核
type BulkUpdateRequest struct {
	IDs    []string     `json:"ids" binding:"required,min=1,max=500,dive,uuid"`
	Status model.Status `json:"status" binding:"required,oneof=approved rejected flagged"`
	Reason *string      `json:"reason" binding:"omitempty,max=1000"`
}

// BulkUpdateResponse 批量审核结果
type BulkUpdateResponse struct {
	Message string            `json:"message"`
	Result  *model.BulkResult `json:"result"`
}

type idParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type pendingQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// Create 手工创建审核记录
// @Summary 手工创建审核记录
// @Tags ContentModeration
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CreateRequest true "审核记录"
// @Success 201 {object} response.Response{data=model.ModerationRecord}
// @Failure 400 {object} response.Response{data=[]response.FieldError}
// @Router /content-moderation [post]
func (h *ModerationHandler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	if len(req.FlaggedKeywords) > 0 && req.Action != model.ActionAutoRejected {
		response.FieldErrors(c, []response.FieldError{{
			Field:   "flaggedKeywords",
			Message: "only allowed when action is auto_rejected",
		}})
		return
	}

	record, err := h.service.Create(c.Request.Context(), service.CreateInput{
		ContentType:      req.ContentType,
		ContentID:        req.ContentID,
		Content:          req.Content,
		AuthorID:         req.AuthorID,
		Action:           req.Action,
		ModerationReason: req.ModerationReason,
		FlaggedKeywords:  req.FlaggedKeywords,
		ToxicityScore:    req.ToxicityScore,
		Metadata:         req.Metadata,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, record)
}

// Moderate 自动审核一段内容
// @Summary 自动审核内容（供评论、私信等模块调用）
// @Tags ContentModeration
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body ModerateRequest true "待审内容"
// @Success 201 {object} response.Response{data=model.ModerationRecord}
// @Failure 400 {object} response.Response{data=[]response.FieldError}
// @Router /content-moderation/moderate [post]
func (h *ModerationHandler) Moderate(c *gin.Context) {
	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	record, err := h.service.ModerateContent(c.Request.Context(), req.ContentType, req.ContentID, req.Content, req.AuthorID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, record)
}

// FindAll 分页查询审核记录
// @Summary 分页查询审核记录
// @Tags ContentModeration
// @Security BearerAuth
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页条数，最大 100"
// @Param status query string false "状态" Enums(pending, approved, rejected, flagged)
// @Param contentType query string false "内容类型"
// @Param authorId query string false "作者 ID"
// @Param moderatorId query string false "审核员 ID"
// @Param search query string false "内容关键字"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /content-moderation [get]
func (h *ModerationHandler) FindAll(c *gin.Context) {
	var q service.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}

	result, err := h.service.FindAll(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, result)
}

// GetPendingReviews 待审核队列
// @Summary 获取待人工审核的记录（最早的在前）
// @Tags ContentModeration
// @Security BearerAuth
// @Produce json
// @Param limit query int false "最大条数"
// @Success 200 {object} response.Response{data=[]model.ModerationRecord}
// @Router /content-moderation/pending [get]
func (h *ModerationHandler) GetPendingReviews(c *gin.Context) {
	var q pendingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}

	records, err := h.service.GetPendingReviews(c.Request.Context(), q.Limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, records)
}

// GetStats 审核统计
// @Summary 审核统计
// @Tags ContentModeration
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=model.Stats}
// @Router /content-moderation/stats [get]
func (h *ModerationHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, stats)
}

// FindOne 查询单条审核记录
// @Summary 查询单条审核记录
// @Tags ContentModeration
// @Security BearerAuth
// @Produce json
// @Param id path string true "记录 ID"
// @Success 200 {object} response.Response{data=model.ModerationRecord}
// @Failure 404 {object} response.Response
// @Router /content-moderation/{id} [get]
func (h *ModerationHandler) FindOne(c *gin.Context) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		response.ValidationError(c, err)
		return
	}

	record, err := h.service.FindOne(c.Request.Context(), p.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, record)
}

// Update 人工审核单条记录，未指定审核员时使用当前登录用户
// @Summary 人工审核
// @Tags ContentModeration
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "记录 ID"
// @Param body body UpdateRequest true "审核结果"
// @Success 200 {object} response.Response{data=model.ModerationRecord}
// @Failure 400 {object} response.Response "参数错误或记录已处理"
// @Failure 404 {object} response.Response
// @Router /content-moderation/{id} [patch]
func (h *ModerationHandler) Update(c *gin.Context) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		response.ValidationError(c, err)
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	if req.ModeratorID == nil {
		caller := middleware.CurrentUserID(c)
		req.ModeratorID = &caller
	}

	record, err := h.service.Update(c.Request.Context(), p.ID, service.UpdateInput{
		Status:           req.Status,
		ModeratorID:      req.ModeratorID,
		ModerationReason: req.ModerationReason,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, record)
}

// BulkUpdate 批量审核，只处理当前为 pending 的记录
// @Summary 批量通过/拒绝
// @Tags ContentModeration
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body BulkUpdateRequest true "批量审核"
// @Success 200 {object} response.Response{data=BulkUpdateResponse}
// @Failure 400 {object} response.Response{data=[]response.FieldError}
// @Router /content-moderation/bulk-update [post]
func (h *ModerationHandler) BulkUpdate(c *gin.Context) {
	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	result, err := h.service.BulkUpdate(c.Request.Context(), req.IDs, req.Status, middleware.CurrentUserID(c), req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, BulkUpdateResponse{
		Message: fmt.Sprintf("Successfully updated %d moderation records", result.Affected),
		Result:  result,
	})
}

// Remove 删除审核记录
// @Summary 删除审核记录
// @Tags ContentModeration
// @Security BearerAuth
// @Param id path string true "记录 ID"
// @Success 204
// @Failure 404 {object} response.Response
// @Router /content-moderation/{id} [delete]
func (h *ModerationHandler) Remove(c *gin.Context) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		response.ValidationError(c, err)
		return
	}

	if err := h.service.Remove(c.Request.Context(), p.ID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleError 领域错误转换为 HTTP 状态码
func (h *ModerationHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.ErrModerationNotFound, "Moderation record not found")
	case errors.Is(err, service.ErrInvalidState):
		response.Error(c, http.StatusBadRequest, response.ErrModerationProcessed, err.Error())
	default:
		_ = c.Error(err)
		logger.L().Error("moderation request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}
