package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostEventProducer_EncodesEvent(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Errors = true
	mock := mocks.NewAsyncProducer(t, cfg)

	var got PostEvent
	mock.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "7" {
			return errors.New("unexpected key " + string(key))
		}
		body, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		return json.Unmarshal(body, &got)
	})

	p := newPostEventProducer(mock, "scribe.post.events")
	p.PublishPostEvent(context.Background(), &PostEvent{
		Type:       PostCreated,
		PostID:     7,
		UserID:     3,
		Status:     "NEW",
		Active:     true,
		OccurredAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, p.Close())

	assert.Equal(t, PostCreated, got.Type)
	assert.EqualValues(t, 3, got.UserID)
	assert.Equal(t, "NEW", got.Status)
}

func TestPostEventProducer_FailureIsNotFatal(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Errors = true
	mock := mocks.NewAsyncProducer(t, cfg)
	mock.ExpectInputAndFail(sarama.ErrOutOfBrokers)

	p := newPostEventProducer(mock, "scribe.post.events")
	p.PublishPostEvent(context.Background(), &PostEvent{Type: PostModerated, PostID: 1})
	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	p.PublishPostEvent(context.Background(), &PostEvent{PostID: 1})
	assert.NoError(t, p.Close())
}
