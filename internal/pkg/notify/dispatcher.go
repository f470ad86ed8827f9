// Package notify 异步通知分发：入队立即返回，由后台 worker 渲染模板并投递到各个通道
package notify

import (
	"Scribe/internal/pkg/i18n"
	"Scribe/internal/pkg/logger"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Kind 通知类型，同时作为站内信的 type 字段
type Kind int8

const (
	KindModerationRequest Kind = iota + 1
	KindPostAccepted
	KindPostDeclined
	KindPasswordRestore
	KindModerationDigest
)

// Notification 业务侧提交的通知，SubjectKey/BodyKey 为消息目录中的模板
type Notification struct {
	To         string
	ReceiverID uint64 // 0 表示不写入站内信
	Kind       Kind
	TargetID   uint64
	SubjectKey string
	BodyKey    string
	Params     []any
}

// Message 渲染后交给 Sender 的内容
type Message struct {
	To         string
	ReceiverID uint64
	Kind       Kind
	TargetID   uint64
	Subject    string
	Body       string
}

type Sender interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

type job struct {
	ctx   context.Context
	n     Notification
	enqAt time.Time
}

type Dispatcher struct {
	catalog     *i18n.Catalog
	senders     []Sender
	ch          chan job
	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	sendTimeout time.Duration
	abort       chan struct{} // 关闭后正在退避的重试立即放弃
}

func NewDispatcher(catalog *i18n.Catalog, queueSize, maxAttempts int, senders ...Sender) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Dispatcher{
		catalog:     catalog,
		senders:     senders,
		ch:          make(chan job, queueSize),
		maxAttempts: maxAttempts,
		baseBackoff: 100 * time.Millisecond,
		maxBackoff:  5 * time.Second,
		sendTimeout: 10 * time.Second,
		abort:       make(chan struct{}),
	}
}

// SetBackoff 调整重试退避区间
func (d *Dispatcher) SetBackoff(base, max time.Duration) {
	d.baseBackoff, d.maxBackoff = base, max
}

// Notify 非阻塞入队；队列满时丢弃并告警，调用方永远不会因为投递失败而失败
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	select {
	case d.ch <- job{ctx: logger.DetachContext(ctx), n: n, enqAt: time.Now()}:
	default:
		log.WarnContext(ctx, "notification queue full, drop",
			"kind", n.Kind, "to", n.To, "receiver_id", n.ReceiverID, "subject_key", n.SubjectKey)
	}
}

// QueueLen 当前队列长度（采样值）
func (d *Dispatcher) QueueLen() int { return len(d.ch) }

// Start 启动 workers 个投递协程，返回的 stop 函数会先等待队列排空和在途投递结束；
// ctx 到期后放弃剩余的重试
func (d *Dispatcher) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case j := <-d.ch:
					d.deliver(j)
				case <-stopCh:
					return
				}
			}
		}()
	}

	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			ticker := time.NewTicker(20 * time.Millisecond)
			defer ticker.Stop()
		drain:
			for len(d.ch) > 0 {
				select {
				case <-ctx.Done():
					err = ctx.Err()
					break drain
				case <-ticker.C:
				}
			}
			close(stopCh)

			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-ctx.Done():
				err = ctx.Err()
				close(d.abort)
				<-done
			}
			if n := len(d.ch); n > 0 {
				log.Warn("notification dispatcher stopped with pending items", "pending", n)
			}
		})
		return err
	}
}

func (d *Dispatcher) deliver(j job) {
	msg := &Message{
		To:         j.n.To,
		ReceiverID: j.n.ReceiverID,
		Kind:       j.n.Kind,
		TargetID:   j.n.TargetID,
		Subject:    d.catalog.Message(j.n.SubjectKey, j.n.Params...),
		Body:       d.catalog.Message(j.n.BodyKey, j.n.Params...),
	}

	for _, s := range d.senders {
		if err := d.sendWithRetry(j.ctx, s, msg); err != nil {
			log.ErrorContext(j.ctx, "notification delivery failed",
				"sender", s.Name(), "kind", msg.Kind, "to", msg.To, "receiver_id", msg.ReceiverID, "err", err)
			continue
		}
		log.InfoContext(j.ctx, "notification delivered",
			"sender", s.Name(), "kind", msg.Kind, "latency", time.Since(j.enqAt))
	}
}

// sendWithRetry 指数退避：base 起步翻倍，不超过 max
func (d *Dispatcher) sendWithRetry(ctx context.Context, s Sender, msg *Message) error {
	backoff := d.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		err := s.Send(sendCtx, msg)
		cancel()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrSkip) {
			return nil
		}
		lastErr = err
		if attempt == d.maxAttempts {
			break
		}

		log.WarnContext(ctx, "notification send failed, retrying",
			"sender", s.Name(), "attempt", attempt, "backoff", backoff, "err", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return errors.Wrapf(lastErr, "send via %s canceled after %d attempts", s.Name(), attempt)
		case <-d.abort:
			return errors.Wrapf(lastErr, "send via %s aborted on shutdown after %d attempts", s.Name(), attempt)
		}
		backoff *= 2
		if backoff > d.maxBackoff {
			backoff = d.maxBackoff
		}
	}
	return errors.Wrapf(lastErr, "send via %s after %d attempts", s.Name(), d.maxAttempts)
}

// ErrSkip Sender 判定该消息不适用于本通道（如无收件地址）时返回，不计为失败
var ErrSkip = errors.New("notification skipped by sender")
