package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"taste-haven/internal/model"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testOrder() *model.Order {
	notes := "Leave at the door"
	return &model.Order{
		ID:                  "3f1c3c1e-4b7a-4f53-9d0a-8e3b8f2f6a10",
		CustomerName:        "Alice",
		CustomerPhone:       "5551234567",
		CustomerAddress:     "12 Market Street",
		SpecialInstructions: &notes,
		Items:               `[{"id":"m1","name":"Pizza","price":"8.99","quantity":2},{"id":"m2","name":"Salad","price":"5.99","quantity":1}]`,
		Subtotal:            "23.97",
		Tax:                 "1.92",
		DeliveryFee:         "3.99",
		Total:               "29.88",
		Status:              model.OrderStatusPending,
		CreatedAt:           time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

type stubNotifier struct {
	err    error
	calls  int
	closed bool
}

func (s *stubNotifier) OrderPlaced(context.Context, *model.Order) error {
	s.calls++
	return s.err
}

func (s *stubNotifier) Close() error {
	s.closed = true
	return s.err
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent(testOrder())

	assert.Equal(t, EventOrderPlaced, ev.Type)
	assert.Equal(t, "3f1c3c1e-4b7a-4f53-9d0a-8e3b8f2f6a10", ev.OrderID)
	assert.Equal(t, "29.88", ev.Total)
	assert.Equal(t, 3, ev.ItemCount)
	assert.Equal(t, model.OrderStatusPending, ev.Status)

	order := testOrder()
	order.Items = "not json"
	assert.Zero(t, NewEvent(order).ItemCount)
}

func TestMulti(t *testing.T) {
	t.Run("Every notifier is called even after a failure", func(t *testing.T) {
		failing := &stubNotifier{err: errors.New("broker down")}
		ok := &stubNotifier{}

		err := Multi(failing, ok).OrderPlaced(context.Background(), testOrder())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker down")
		assert.Equal(t, 1, failing.calls)
		assert.Equal(t, 1, ok.calls)
	})

	t.Run("Close reaches every notifier", func(t *testing.T) {
		a, b := &stubNotifier{}, &stubNotifier{}

		require.NoError(t, Multi(a, b).Close())
		assert.True(t, a.closed)
		assert.True(t, b.closed)
	})

	t.Run("Empty set is a no-op", func(t *testing.T) {
		n := Multi()
		assert.NoError(t, n.OrderPlaced(context.Background(), testOrder()))
		assert.NoError(t, n.Close())
	})

	t.Run("Single notifier is returned as-is", func(t *testing.T) {
		a := &stubNotifier{}
		assert.Same(t, a, Multi(a))
	})
}

// MockChannel is a mock implementation of the AMQP channel.
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func (m *MockChannel) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestRabbitMQ_OrderPlaced(t *testing.T) {
	ch := new(MockChannel)
	n := newRabbitMQ(ch, "orders", zerolog.Nop())

	var published amqp091.Publishing
	ch.On("PublishWithContext", mock.Anything, "orders", EventOrderPlaced, false, false, mock.AnythingOfType("amqp091.Publishing")).
		Run(func(args mock.Arguments) {
			published = args.Get(5).(amqp091.Publishing)
		}).
		Return(nil)

	require.NoError(t, n.OrderPlaced(context.Background(), testOrder()))

	assert.Equal(t, "application/json", published.ContentType)
	assert.Equal(t, amqp091.Persistent, published.DeliveryMode)

	var ev Event
	require.NoError(t, json.Unmarshal(published.Body, &ev))
	assert.Equal(t, "3f1c3c1e-4b7a-4f53-9d0a-8e3b8f2f6a10", ev.OrderID)
	assert.Equal(t, 3, ev.ItemCount)

	ch.AssertExpectations(t)
}

func TestRabbitMQ_PublishError(t *testing.T) {
	ch := new(MockChannel)
	n := newRabbitMQ(ch, "orders", zerolog.Nop())

	ch.On("PublishWithContext", mock.Anything, "orders", EventOrderPlaced, false, false, mock.Anything).
		Return(amqp091.ErrClosed)

	err := n.OrderPlaced(context.Background(), testOrder())
	require.Error(t, err)
	assert.ErrorIs(t, err, amqp091.ErrClosed)

	ch.On("Close").Return(nil)
	assert.NoError(t, n.Close())
}

func TestKafka_OrderPlaced(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev Event
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Type != EventOrderPlaced {
			return errors.New("unexpected event type " + ev.Type)
		}
		return nil
	})

	n := newKafka(producer, "orders", zerolog.Nop())

	require.NoError(t, n.OrderPlaced(context.Background(), testOrder()))
	require.NoError(t, n.Close())
}

func TestKafka_SendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	n := newKafka(producer, "orders", zerolog.Nop())

	err := n.OrderPlaced(context.Background(), testOrder())
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, n.Close())
}

func TestKafka_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	n := newKafka(producer, "orders", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, n.OrderPlaced(ctx, testOrder()), context.Canceled)
	require.NoError(t, n.Close())
}

// MockSender is a mock implementation of the Telegram sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

func TestTelegram_OrderPlaced(t *testing.T) {
	bot := new(MockSender)
	n := newTelegram(bot, 42, zerolog.Nop())

	var sent tgbotapi.MessageConfig
	bot.On("Send", mock.AnythingOfType("tgbotapi.MessageConfig")).
		Run(func(args mock.Arguments) {
			sent = args.Get(0).(tgbotapi.MessageConfig)
		}).
		Return(nil)

	require.NoError(t, n.OrderPlaced(context.Background(), testOrder()))

	assert.Equal(t, int64(42), sent.ChatID)
	assert.Contains(t, sent.Text, "3f1c3c1e-4b7a-4f53-9d0a-8e3b8f2f6a10")
	assert.Contains(t, sent.Text, "Notes: Leave at the door")
	assert.Contains(t, sent.Text, "Items: 3")
	assert.Contains(t, sent.Text, "Total: $29.88")
	bot.AssertExpectations(t)
}

func TestTelegram_SendError(t *testing.T) {
	bot := new(MockSender)
	n := newTelegram(bot, 42, zerolog.Nop())

	bot.On("Send", mock.Anything).Return(errors.New("unauthorized"))

	err := n.OrderPlaced(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestFormatOrder_WithoutNotes(t *testing.T) {
	order := testOrder()
	order.SpecialInstructions = nil

	assert.NotContains(t, formatOrder(order), "Notes:")
}
