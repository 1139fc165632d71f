// Package publish forwards tracked head positions to an MQTT broker.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/ayusman/kinectmask/internal/skeleton"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

// Config holds MQTT publisher settings.
type Config struct {
	Broker   string // host:port or scheme://host:port
	Topic    string
	ClientID string // generated when empty
	QoS      byte
}

// Head is one published head: sensor-space meters and color pixel position.
type Head struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	PX int     `json:"px"`
	PY int     `json:"py"`
}

// Message is the JSON payload published for each frame with heads.
type Message struct {
	Heads     []Head `json:"heads"`
	Timestamp int64  `json:"timestamp"`
}

// NewMessage pairs heads with their projected points.
func NewMessage(heads []skeleton.Point3D, points []image.Point, at time.Time) Message {
	msg := Message{
		Heads:     make([]Head, len(heads)),
		Timestamp: at.UnixMilli(),
	}
	for i, h := range heads {
		msg.Heads[i] = Head{X: h.X, Y: h.Y, Z: h.Z}
		if i < len(points) {
			msg.Heads[i].PX = points[i].X
			msg.Heads[i].PY = points[i].Y
		}
	}
	return msg
}

// MQTTPublisher publishes head positions to a topic. Publishing never
// blocks the frame loop and failed messages are not retried.
type MQTTPublisher struct {
	cfg       Config
	client    mqtt.Client
	newClient func(*mqtt.ClientOptions) mqtt.Client

	mu        sync.RWMutex
	published uint64
	errors    uint64
}

// NewMQTTPublisher creates a publisher; call Connect before publishing.
func NewMQTTPublisher(cfg Config) *MQTTPublisher {
	if cfg.ClientID == "" {
		cfg.ClientID = "kinectmask-" + uuid.New().String()[:8]
	}
	return &MQTTPublisher{cfg: cfg, newClient: mqtt.NewClient}
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}

// Connect establishes the broker connection.
func (p *MQTTPublisher) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(p.cfg.Broker))
	opts.SetClientID(p.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		slog.Info("mqtt connection established",
			"broker", p.cfg.Broker,
			"client_id", p.cfg.ClientID)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		slog.Warn("mqtt connection lost, will auto-reconnect",
			"error", err,
			"broker", p.cfg.Broker)
	}

	client := p.newClient(opts)

	slog.Info("connecting to mqtt broker", "broker", p.cfg.Broker)

	token := client.Connect()
	select {
	case <-token.Done():
	case <-time.After(connectTimeout):
		client.Disconnect(0)
		return fmt.Errorf("mqtt connection timeout")
	case <-ctx.Done():
		client.Disconnect(0)
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		client.Disconnect(0)
		return fmt.Errorf("mqtt connection failed: %w", err)
	}

	p.client = client
	return nil
}

// Publish sends one message for the given heads. Delivery is confirmed
// asynchronously; only marshal and connection errors are returned.
func (p *MQTTPublisher) Publish(heads []skeleton.Point3D, points []image.Point) error {
	if p.client == nil || !p.client.IsConnected() {
		p.countError()
		return fmt.Errorf("mqtt not connected")
	}

	payload, err := json.Marshal(NewMessage(heads, points, time.Now()))
	if err != nil {
		p.countError()
		return fmt.Errorf("failed to marshal heads: %w", err)
	}

	token := p.client.Publish(p.cfg.Topic, p.cfg.QoS, false, payload)
	go p.await(token, len(payload))

	return nil
}

func (p *MQTTPublisher) await(token mqtt.Token, size int) {
	if !token.WaitTimeout(publishTimeout) {
		p.countError()
		slog.Warn("mqtt publish timeout", "topic", p.cfg.Topic)
		return
	}
	if err := token.Error(); err != nil {
		p.countError()
		slog.Warn("mqtt publish failed", "topic", p.cfg.Topic, "error", err)
		return
	}

	p.mu.Lock()
	p.published++
	p.mu.Unlock()

	slog.Debug("heads published", "topic", p.cfg.Topic, "size", size)
}

func (p *MQTTPublisher) countError() {
	p.mu.Lock()
	p.errors++
	p.mu.Unlock()
}

// Stats returns the number of confirmed and failed publishes.
func (p *MQTTPublisher) Stats() (published, errors uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.published, p.errors
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
		slog.Info("mqtt disconnected")
	}
}
