package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	mq "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"

	"github.com/tetragramaton/smh-sensors/internal/ha"
	"github.com/tetragramaton/smh-sensors/internal/interface/mqtt"
	"github.com/tetragramaton/smh-sensors/internal/logging"
)

func main() {
	envErr := godotenv.Load()
	logger := logging.FromEnv()
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("no .env loaded")
	}

	handler, err := InitMainHandler(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init failed")
	}
	handler.Handle()
}

func (h *MainHandler) Handle() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer h.MQQTClient.Close(250)

	subscription := mqtt.Subscription{
		Topic: ha.MetaTopic("+"),
		QoS:   1,
		Callback: func(_ mq.Client, m mq.Message) {
			h.onMeta(m.Payload())
		},
	}
	if err := h.MQQTClient.SubscribeToTopic(subscription); err != nil {
		h.Logger.Fatal().Err(err).Msg("subscribe")
	}
	h.Logger.Info().Msg("smh-core up; waiting for meta...")
	<-ctx.Done()
}

func (h *MainHandler) onMeta(payload []byte) {
	var meta ha.Meta
	if err := json.Unmarshal(payload, &meta); err != nil {
		h.Logger.Warn().Err(err).Msg("bad meta")
		return
	}
	if meta.DeviceID == "" {
		h.Logger.Warn().Msg("meta without device_id")
		return
	}
	publishDiscovery(h, meta)
}

func publishDiscovery(h *MainHandler, meta ha.Meta) {
	configs, unknown := ha.Discover(meta)
	for _, c := range unknown {
		h.Logger.Warn().Str("device", meta.DeviceID).Str("cap", c).Msg("unknown capability")
	}
	for _, d := range configs {
		pubCfg(h, d.Topic, d.Config)
	}
	h.Logger.Info().Str("device", meta.DeviceID).Strs("caps", meta.Caps).Msg("HA discovery published")
}

func pubCfg(h *MainHandler, topic string, cfg *ha.SensorConfig) {
	b, err := cfg.Marshal()
	if err != nil {
		h.Logger.Error().Err(err).Msg("marshal cfg")
		return
	}
	if err := h.MQQTClient.PublishEvent(mqtt.Message{
		Topic:   topic,
		Payload: b,
		QoS:     1,
		Retain:  true,
	}); err != nil {
		h.Logger.Error().Err(err).Str("topic", topic).Msg("publish cfg")
	}
}
