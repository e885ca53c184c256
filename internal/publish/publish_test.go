package publish

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/segmentio/kafka-go"

	"water_dashboard/internal/models"
)

var sample = models.SensorReading{
	Timestamp:   time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	PH:          models.Float(7.2),
	TDS:         models.Float(300),
	Temperature: models.Float(21.5),
}

// --- MQTT fakes ---

type fakeToken struct {
	done chan struct{}
	err  error
}

func newDoneToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { <-t.done; return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

// fakeMQTT implements only what the publisher calls; other methods panic via
// the nil embedded interface.
type fakeMQTT struct {
	mqtt.Client
	mu           sync.Mutex
	topic        string
	qos          byte
	payload      []byte
	err          error
	token        mqtt.Token
	disconnected bool
}

func (f *fakeMQTT) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topic, f.qos = topic, qos
	f.payload = payload.([]byte)
	if f.token != nil {
		return f.token
	}
	return newDoneToken(f.err)
}

func (f *fakeMQTT) Disconnect(uint) { f.disconnected = true }

func TestMQTTPublisher_Publish(t *testing.T) {
	c := &fakeMQTT{}
	p := NewMQTT(c, "blueroot/readings", 1)

	if err := p.Publish(context.Background(), sample); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if c.topic != "blueroot/readings" || c.qos != 1 {
		t.Fatalf("topic/qos = %s/%d", c.topic, c.qos)
	}
	var got map[string]any
	if err := json.Unmarshal(c.payload, &got); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if got["ph"] != 7.2 || got["turbidity"] != nil {
		t.Fatalf("payload = %s", c.payload)
	}
	if p.Name() != "mqtt" {
		t.Fatalf("name = %q", p.Name())
	}
	_ = p.Close()
	if !c.disconnected {
		t.Fatalf("Close should disconnect")
	}
}

func TestMQTTPublisher_BrokerError(t *testing.T) {
	c := &fakeMQTT{err: errors.New("not authorized")}
	err := NewMQTT(c, "t", 0).Publish(context.Background(), sample)
	if err == nil || !strings.Contains(err.Error(), "not authorized") {
		t.Fatalf("expected broker error, got %v", err)
	}
}

func TestMQTTPublisher_ContextCancelled(t *testing.T) {
	c := &fakeMQTT{token: &fakeToken{done: make(chan struct{})}} // never completes
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMQTT(c, "t", 0).Publish(ctx, sample); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// --- Kafka fakes ---

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { w.closed = true; return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w, topic: "water.readings"}

	if err := p.Publish(context.Background(), sample); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "2025-05-01T12:00:00.000Z" {
		t.Fatalf("key = %s", w.msgs[0].Key)
	}
	var got models.SensorReading
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil {
		t.Fatalf("value: %v", err)
	}
	if *got.PH != 7.2 || got.Turbidity != nil {
		t.Fatalf("decoded = %+v", got)
	}
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &KafkaPublisher{w: w, topic: "water.readings"}
	if err := p.Publish(context.Background(), sample); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewKafka_Configures(t *testing.T) {
	p := NewKafka([]string{"localhost:9092"}, "water.readings")
	kw, ok := p.w.(*kafka.Writer)
	if !ok || kw.Topic != "water.readings" {
		t.Fatalf("unexpected writer: %#v", p.w)
	}
	if p.Name() != "kafka" {
		t.Fatalf("name = %q", p.Name())
	}
}

func TestCloseAll(t *testing.T) {
	w := &fakeWriter{}
	c := &fakeMQTT{}
	if err := CloseAll([]Publisher{&KafkaPublisher{w: w}, NewMQTT(c, "t", 0)}); err != nil {
		t.Fatalf("CloseAll: %v", err)
	}
	if !w.closed || !c.disconnected {
		t.Fatalf("not all publishers closed")
	}
}
