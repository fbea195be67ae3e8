package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *models.Order {
	order := models.NewOrder(3, "bob@test.com", []models.OrderItem{
		{ProductID: 1, ProductName: "Board", Price: decimal.RequireFromString("200"), Quantity: 2},
		{ProductID: 2, ProductName: "Hat", Price: decimal.RequireFromString("10.5"), Quantity: 1},
	})
	order.ID = 12
	return order
}

func TestOrderCreatedEvent(t *testing.T) {
	event := NewOrderCreated(sampleOrder())

	assert.Equal(t, "order-created-12", event.Key())
	assert.Equal(t, 3, event.ItemCount)
	assert.Equal(t, "410.5", event.Total.String())

	raw, err := event.Encode()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.EqualValues(t, 12, decoded["orderId"])
	assert.Equal(t, "bob@test.com", decoded["buyerEmail"])
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewKafkaPublisher(writer)

	require.NoError(t, publisher.PublishOrderCreated(context.Background(), sampleOrder()))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "order-created-12", string(writer.messages[0].Key))
	assert.Contains(t, string(writer.messages[0].Value), `"total":410.5`)

	writer.err = errors.New("broker down")
	err := publisher.PublishOrderCreated(context.Background(), sampleOrder())
	assert.ErrorContains(t, err, "broker down")

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "store.orders")
	assert.Equal(t, "store.orders", w.Topic)
	assert.True(t, w.AllowAutoTopicCreation)
	assert.IsType(t, &kafka.LeastBytes{}, w.Balancer)
}

type recordingPublisher struct {
	calls int
	err   error
}

func (p *recordingPublisher) PublishOrderCreated(context.Context, *models.Order) error {
	p.calls++
	return p.err
}

func TestMultiPublishesToAll(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("nope")}
	ok := &recordingPublisher{}

	err := Multi{failing, ok, Nop{}}.PublishOrderCreated(context.Background(), sampleOrder())
	assert.ErrorContains(t, err, "nope")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)
}

func dial(t *testing.T, server *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func TestHubBroadcastsOrders(t *testing.T) {
	hub := NewHub("https://localhost:4200", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(hub)
	defer server.Close()

	conn, _, err := dial(t, server, "https://localhost:4200")
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// client chatter is ignored
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))

	require.NoError(t, hub.PublishOrderCreated(context.Background(), sampleOrder()))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var event OrderCreated
	require.NoError(t, json.Unmarshal(message, &event))
	assert.EqualValues(t, 12, event.OrderID)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	hub := NewHub("https://localhost:4200", zerolog.Nop())
	server := httptest.NewServer(hub)
	defer server.Close()

	_, resp, err := dial(t, server, "https://evil.example")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, hub.ClientCount())
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub("*", zerolog.Nop())
	for i := 0; i < 150; i++ {
		require.NoError(t, hub.PublishOrderCreated(context.Background(), sampleOrder()))
	}
}

func TestHubRunClosesClientsOnShutdown(t *testing.T) {
	hub := NewHub("*", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	server := httptest.NewServer(hub)
	defer server.Close()

	conn, _, err := dial(t, server, "")
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done
	assert.Zero(t, hub.ClientCount())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
