// Package mqtt publishes the camera mode and the day's sun times to an MQTT
// broker, so home automation can follow what the scheduler does.
//
// All messages are retained. <prefix>/status carries online/offline (offline
// is also the last will), <prefix>/mode the last applied mode and <prefix>/sun
// the active schedule's sun times as JSON.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/camdaynight/daynight/internal/config"
	"github.com/camdaynight/daynight/internal/logging"
	"github.com/camdaynight/daynight/internal/schedule"
	"github.com/camdaynight/daynight/internal/suntimes"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	qos            = 1
	clientID       = "daynight"
)

// client is the part of pahomqtt.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

// Message is one retained publication.
type Message struct {
	Topic   string
	Payload []byte
}

// sunPayload is the JSON body of <prefix>/sun.
type sunPayload struct {
	Date     string `json:"date"`
	Sunrise  string `json:"sunrise"`
	Sunset   string `json:"sunset"`
	Fallback bool   `json:"fallback"`
}

// Publisher implements runner.Observer over an MQTT connection.
type Publisher struct {
	client client
	prefix string
}

// NewPublisher connects to the broker in cfg and announces online status.
func NewPublisher(cfg config.MQTT) (*Publisher, error) {
	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = config.DefaultTopicPrefix
	}
	p := &Publisher{prefix: prefix}

	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(StatusTopic(prefix), "offline", qos, true).
		SetOnConnectHandler(func(_ pahomqtt.Client) {
			logging.Info("MQTT connected", zap.String("broker", cfg.Broker))
			p.publish(StatusMessage(prefix, true))
		}).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			logging.Warn("MQTT connection lost", zap.Error(err))
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	c := pahomqtt.NewClient(opts)
	p.client = c

	if err := connect(c, cfg.Broker, connectTimeout); err != nil {
		return nil, err
	}
	return p, nil
}

// connector is the part of pahomqtt.Client used to connect.
type connector interface {
	Connect() pahomqtt.Token
	Disconnect(quiesce uint)
}

// connect waits up to timeout for the first connection. On failure the client
// is disconnected so its retry loop cannot announce online later.
func connect(c connector, broker string, timeout time.Duration) error {
	token := c.Connect()
	if !token.WaitTimeout(timeout) {
		c.Disconnect(0)
		return fmt.Errorf("mqtt connect to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		c.Disconnect(0)
		return fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return nil
}

// newPublisher wraps an already connected client.
func newPublisher(c client, prefix string) *Publisher {
	return &Publisher{client: c, prefix: prefix}
}

// Close publishes offline status and disconnects.
func (p *Publisher) Close() {
	token := p.client.Publish(StatusTopic(p.prefix), qos, true, []byte("offline"))
	token.WaitTimeout(publishTimeout)
	p.client.Disconnect(1000)
	logging.Info("MQTT disconnected")
}

// ModeDecided is a no-op; only applied modes are published.
func (p *Publisher) ModeDecided(schedule.Mode, time.Time, suntimes.Result) {}

// SwitchAttempted publishes the mode after a successful switch.
func (p *Publisher) SwitchAttempted(mode schedule.Mode, ok bool, _ time.Time) {
	if ok {
		p.publish(ModeMessage(p.prefix, mode))
	}
}

// ScheduleBuilt publishes the new schedule's sun times.
func (p *Publisher) ScheduleBuilt(s *schedule.Schedule) {
	msg, err := SunMessage(p.prefix, s)
	if err != nil {
		logging.Warn("MQTT sun payload", zap.Error(err))
		return
	}
	p.publish(msg)
}

// NextAction is a no-op.
func (p *Publisher) NextAction(schedule.ScheduledAction, bool) {}

// publish sends msg without blocking the caller. Failures are logged.
func (p *Publisher) publish(msg Message) {
	token := p.client.Publish(msg.Topic, qos, true, msg.Payload)
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			logging.Warn("MQTT publish timeout", zap.String("topic", msg.Topic))
		} else if err := token.Error(); err != nil {
			logging.Warn("MQTT publish error", zap.String("topic", msg.Topic), zap.Error(err))
		}
	}()
}

// StatusTopic returns <prefix>/status.
func StatusTopic(prefix string) string {
	return prefix + "/status"
}

// StatusMessage builds the availability message.
func StatusMessage(prefix string, online bool) Message {
	payload := "offline"
	if online {
		payload = "online"
	}
	return Message{Topic: StatusTopic(prefix), Payload: []byte(payload)}
}

// ModeMessage builds the <prefix>/mode message.
func ModeMessage(prefix string, mode schedule.Mode) Message {
	return Message{Topic: prefix + "/mode", Payload: []byte(mode.String())}
}

// SunMessage builds the <prefix>/sun message for a schedule.
func SunMessage(prefix string, s *schedule.Schedule) (Message, error) {
	payload, err := json.Marshal(sunPayload{
		Date:     s.Date.Format("2006-01-02"),
		Sunrise:  s.Sun.Sunrise.Format(time.RFC3339),
		Sunset:   s.Sun.Sunset.Format(time.RFC3339),
		Fallback: s.Sun.Fallback,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{Topic: prefix + "/sun", Payload: payload}, nil
}
