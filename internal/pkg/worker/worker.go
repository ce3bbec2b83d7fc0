package worker

import (
	"context"
	"sync"
	"time"

	"embroidery_shop/pkg/logger"

	"go.uber.org/zap"
)

// 通知任务类型
const (
	JobOrderPlaced    = "order_placed"
	JobOrderDelivered = "order_delivered"
)

// Job 异步通知任务
type Job struct {
	Kind    string
	OrderID string
}

// Dispatcher 任务执行方
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}

// Pool 通知任务池。通知是尽力而为的：超时或失败只记录日志，
// 不重试，也绝不影响已提交的业务事务。
type Pool struct {
	queue      chan Job
	dispatcher Dispatcher
	workerNum  int
	timeout    time.Duration
	wg         sync.WaitGroup
}

// NewPool 创建通知任务池
func NewPool(d Dispatcher, workerNum, bufferSize int, timeout time.Duration) *Pool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Pool{
		queue:      make(chan Job, bufferSize),
		dispatcher: d,
		workerNum:  workerNum,
		timeout:    timeout,
	}
}

// Start 启动工作协程
func (p *Pool) Start() {
	p.wg.Add(p.workerNum)
	for i := 0; i < p.workerNum; i++ {
		go p.worker(i)
	}
	logger.Log.Info("notification worker pool started", zap.Int("workers", p.workerNum))
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.dispatcher.Dispatch(ctx, job); err != nil {
			logger.Log.Warn("notification job failed",
				zap.Int("worker", id),
				zap.String("kind", job.Kind),
				zap.String("order_id", job.OrderID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Enqueue 提交任务。队列满时丢弃并记录，不阻塞调用方。
func (p *Pool) Enqueue(job Job) {
	select {
	case p.queue <- job:
	default:
		logger.Log.Warn("notification queue full, job dropped",
			zap.String("kind", job.Kind),
			zap.String("order_id", job.OrderID),
		)
	}
}

// Stop 关闭队列并阻塞到已入队的任务全部处理完
func (p *Pool) Stop() {
	close(p.queue)
	p.wg.Wait()
}
