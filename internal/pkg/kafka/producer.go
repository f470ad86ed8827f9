package kafka

import (
	"Scribe/internal/api/config"
	"Scribe/internal/pkg/logger"
	"context"
	log "log/slog"
	"strconv"
	"sync"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// PostEventProducer 异步投递帖子事件，发送失败只记录日志
type PostEventProducer struct {
	producer sarama.AsyncProducer
	topic    string
	wg       sync.WaitGroup
	once     sync.Once
}

func NewPostEventProducer(cfg config.KafkaConfig) (*PostEventProducer, error) {
	producer, err := sarama.NewAsyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	return newPostEventProducer(producer, cfg.Producer.PostTopic), nil
}

func newPostEventProducer(producer sarama.AsyncProducer, topic string) *PostEventProducer {
	p := &PostEventProducer{producer: producer, topic: topic}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for perr := range producer.Errors() {
			log.Error("kafka produce failed", "topic", p.topic, "err", perr.Err)
		}
	}()
	log.Info("Post event producer started", "topic", topic)
	return p
}

func (p *PostEventProducer) PublishPostEvent(ctx context.Context, event *PostEvent) {
	if event.TraceID == "" {
		event.TraceID = logger.TraceID(ctx)
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "encode post event failed", "post_id", event.PostID, "err", err)
		return
	}

	p.producer.Input() <- &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(event.PostID, 10)),
		Value: sarama.ByteEncoder(body),
	}
}

// Close 刷出缓冲区中的消息后关闭
func (p *PostEventProducer) Close() error {
	p.once.Do(func() {
		p.producer.AsyncClose()
		p.wg.Wait()
	})
	return nil
}

// NoopPublisher kafka 未启用时使用
type NoopPublisher struct{}

func (NoopPublisher) PublishPostEvent(context.Context, *PostEvent) {}

func (NoopPublisher) Close() error { return nil }
