package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"content_moderation/internal/domain/moderation/model"
	"content_moderation/pkg/logger"

	"go.uber.org/zap"
)

// NotificationTask 审核结果通知任务
type NotificationTask struct {
	RecordID    string
	ContentID   string
	AuthorID    string
	ContentType string
	Status      string
	Reason      string
	Retry       int // 重试次数
}

// Sender 推送通道
type Sender interface {
	PushToAccount(accountID string, title, body string, extParameters map[string]string) error
}

// Recorder 投递结果指标
type Recorder interface {
	RecordNotification(result string)
}

type WorkerPool struct {
	TaskQueue  chan NotificationTask
	RetryQueue chan NotificationTask // 重试队列
	Sender     Sender
	WorkerNum  int
	MaxRetry   int           // 最大重试次数
	RetryDelay time.Duration // 每次重试的基础延迟
	metrics    Recorder

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorkerPool(sender Sender, workerNum int, bufferSize int, metrics Recorder) *WorkerPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize < 2 {
		bufferSize = 2
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		TaskQueue:  make(chan NotificationTask, bufferSize),
		RetryQueue: make(chan NotificationTask, bufferSize/2),
		Sender:     sender,
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
		RetryDelay: time.Second,
		metrics:    metrics,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	// 启动重试处理协程
	p.wg.Add(1)
	go p.retryWorker()
	logger.L().Info("notification worker pool started", zap.Int("workers", p.WorkerNum))
}

// Stop 停止所有协程，队列中未处理的任务会被丢弃
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	logger.L().Info("notification worker pool stopped",
		zap.Int("dropped", len(p.TaskQueue)+len(p.RetryQueue)))
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.TaskQueue:
			p.handle(id, task)
		}
	}
}

func (p *WorkerPool) handle(id int, task NotificationTask) {
	err := p.processTask(task)
	if err == nil {
		p.record("delivered")
		return
	}

	log := logger.L().With(
		zap.Int("worker", id),
		zap.String("recordId", task.RecordID),
		zap.String("authorId", task.AuthorID),
		zap.Error(err),
	)

	// 如果未达到最大重试次数，加入重试队列
	if task.Retry < p.MaxRetry {
		task.Retry++
		select {
		case p.RetryQueue <- task:
			p.record("retried")
			log.Warn("notification failed, queued for retry", zap.Int("attempt", task.Retry), zap.Int("max", p.MaxRetry))
		default:
			p.logFailedTask(task, err)
		}
		return
	}
	p.logFailedTask(task, err)
}

func (p *WorkerPool) retryWorker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.RetryQueue:
			// 延迟重试，避免立即重试
			timer := time.NewTimer(time.Duration(task.Retry) * p.RetryDelay)
			select {
			case <-p.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			// 重新加入主队列
			select {
			case p.TaskQueue <- task:
			default:
				p.logFailedTask(task, fmt.Errorf("main queue full"))
			}
		}
	}
}

func (p *WorkerPool) processTask(task NotificationTask) error {
	title, body := buildMessage(task)
	return p.Sender.PushToAccount(task.AuthorID, title, body, map[string]string{
		"type":      "content_moderation",
		"recordId":  task.RecordID,
		"contentId": task.ContentID,
		"status":    task.Status,
	})
}

func (p *WorkerPool) logFailedTask(task NotificationTask, err error) {
	p.record("dropped")
	logger.L().Error("notification dropped",
		zap.String("recordId", task.RecordID),
		zap.String("authorId", task.AuthorID),
		zap.Int("retry", task.Retry),
		zap.Error(err),
	)
}

func (p *WorkerPool) record(result string) {
	if p.metrics != nil {
		p.metrics.RecordNotification(result)
	}
}

func (p *WorkerPool) AddTask(task NotificationTask) {
	select {
	case p.TaskQueue <- task:
		// 任务入队成功
	default:
		p.logFailedTask(task, fmt.Errorf("queue full"))
	}
}

// Notify 将审核结果转换为通知任务，队列满时直接丢弃，不阻塞审核请求
func (p *WorkerPool) Notify(ctx context.Context, record model.ModerationRecord) {
	task := NotificationTask{
		RecordID:    record.ID,
		ContentID:   record.ContentID,
		AuthorID:    record.AuthorID,
		ContentType: string(record.ContentType),
		Status:      string(record.Status),
	}
	if record.ModerationReason != nil {
		task.Reason = *record.ModerationReason
	}
	p.AddTask(task)
}

func buildMessage(task NotificationTask) (string, string) {
	subject := strings.ReplaceAll(task.ContentType, "_", " ")
	if subject == "" {
		subject = "content"
	}
	body := fmt.Sprintf("Your %s has been %s.", subject, task.Status)
	if task.Reason != "" {
		body += " Reason: " + task.Reason
	}
	return "Content moderation update", body
}
