//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"
)

func InitMainHandler(logger zerolog.Logger) (*MainHandler, error) {
	wire.Build(
		NewMainHandler,
		ProvideMqttClient,
	)
	return nil, nil // wire will generate the result
}
