package mqtt

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	mqttIface "github.com/tetragramaton/smh-sensors/internal/interface/mqtt"
)

type mqttClient struct {
	mqttIface.API
	logger zerolog.Logger
}

type Config struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
	TLS       bool

	// WillTopic gets "offline" from the broker if the client drops.
	WillTopic string
}

func LoadConfigFromEnv() (Config, error) {
	var cfg Config

	cfg.BrokerURL = os.Getenv("MQTT_URL")
	if cfg.BrokerURL == "" {
		return cfg, errors.New("missing MQTT_URL")
	}
	cfg.ClientID = os.Getenv("MQTT_CLIENT_ID")
	if cfg.ClientID == "" {
		return cfg, errors.New("missing MQTT_CLIENT_ID")
	}
	cfg.Username = os.Getenv("MQTT_USERNAME")
	cfg.Password = os.Getenv("MQTT_PASSWORD")

	if v := os.Getenv("MQTT_TLS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid MQTT_TLS %q: %w", v, err)
		}
		cfg.TLS = b
	}
	cfg.WillTopic = AvailabilityTopic(cfg.ClientID)

	return cfg, nil
}

// AvailabilityTopic carries "online"/"offline" for a client id.
func AvailabilityTopic(clientID string) string {
	return "smh/" + clientID + "/availability"
}

func NewClient(logger zerolog.Logger) (mqttIface.Client, error) {
	cfg, err := LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	logger = logger.With().Str("component", "mqtt").Str("client_id", cfg.ClientID).Logger()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetKeepAlive(30 * time.Second).
		SetConnectTimeout(5 * time.Second).
		SetPingTimeout(3 * time.Second).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn().Err(err).Msg("connection lost")
		}).
		SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
			logger.Info().Msg("reconnecting")
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.TLS {
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	}
	if cfg.WillTopic != "" {
		opts.SetWill(cfg.WillTopic, "offline", 1, true)
		opts.SetOnConnectHandler(func(c mqtt.Client) {
			c.Publish(cfg.WillTopic, 1, true, "online")
			logger.Info().Str("broker", cfg.BrokerURL).Msg("connected")
		})
	}

	client := mqtt.NewClient(opts)
	t := client.Connect()
	if ok := t.WaitTimeout(10 * time.Second); !ok {
		return nil, fmt.Errorf("mqtt: connect to %s timed out", cfg.BrokerURL)
	}
	if err := t.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", cfg.BrokerURL, err)
	}
	return Wrap(client, logger), nil
}

// Wrap adds the event helpers to an already connected API.
func Wrap(api mqttIface.API, logger zerolog.Logger) mqttIface.Client {
	return &mqttClient{API: api, logger: logger}
}

func (c *mqttClient) PublishEvent(message mqttIface.Message) error {
	t := c.API.Publish(message.Topic, message.QoS, message.Retain, message.Payload)
	t.Wait()
	if err := t.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", message.Topic, err)
	}
	c.logger.Debug().Str("topic", message.Topic).Int("bytes", len(message.Payload)).Msg("published")
	return nil
}

func (c *mqttClient) SubscribeToTopic(sub mqttIface.Subscription) error {
	t := c.API.Subscribe(sub.Topic, sub.QoS, sub.Callback)
	t.Wait()
	if err := t.Error(); err != nil {
		return fmt.Errorf("mqtt: subscribe %s: %w", sub.Topic, err)
	}
	return nil
}

func (c *mqttClient) Close(quiesce uint) error {
	if c.IsConnectionOpen() {
		c.Disconnect(quiesce)
	}
	return nil
}
