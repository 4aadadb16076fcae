package main

import (
	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-sensors/internal/client/mqtt"
	mqttIface "github.com/tetragramaton/smh-sensors/internal/interface/mqtt"
)

type MainHandler struct {
	MQQTClient mqttIface.Client
	Logger     zerolog.Logger
}

func NewMainHandler(
	mqttClient mqttIface.Client,
	logger zerolog.Logger,
) *MainHandler {
	return &MainHandler{
		MQQTClient: mqttClient,
		Logger:     logger,
	}
}

func ProvideMqttClient(logger zerolog.Logger) (mqttIface.Client, error) {
	return mqtt.NewClient(logger)
}
