package main

import (
	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-sensors/internal/client/modbus"
	"github.com/tetragramaton/smh-sensors/internal/client/mqtt"
	modbusIface "github.com/tetragramaton/smh-sensors/internal/interface/modbus"
	mqttIface "github.com/tetragramaton/smh-sensors/internal/interface/mqtt"
)

type MainHandler struct {
	MQQTClient   mqttIface.Client
	ModbusClient modbusIface.Client
	Logger       zerolog.Logger
}

func NewMainHandler(
	mqttClient mqttIface.Client,
	modbusClient modbusIface.Client,
	logger zerolog.Logger,
) *MainHandler {
	return &MainHandler{
		MQQTClient:   mqttClient,
		ModbusClient: modbusClient,
		Logger:       logger,
	}
}

func ProvideMqttClient(logger zerolog.Logger) (mqttIface.Client, error) {
	return mqtt.NewClient(logger)
}

func ProvideNewModbusClient(logger zerolog.Logger) (modbusIface.Client, error) {
	return modbus.NewHandler(logger)
}
