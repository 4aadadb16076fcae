package main

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetragramaton/smh-sensors/internal/ha"
	"github.com/tetragramaton/smh-sensors/internal/interface/mqtt"
)

type recorder struct {
	mqtt.API
	msgs []mqtt.Message
}

func (r *recorder) PublishEvent(m mqtt.Message) error {
	r.msgs = append(r.msgs, m)
	return nil
}

func (r *recorder) SubscribeToTopic(mqtt.Subscription) error { return nil }
func (r *recorder) Close(uint) error                         { return nil }

func TestOnMetaPublishesDiscovery(t *testing.T) {
	rec := &recorder{}
	h := NewMainHandler(rec, zerolog.Nop())

	meta := ha.Meta{DeviceID: "well", Model: "acculevel", Caps: []string{ha.CapDepth, ha.CapPressure, ha.CapTemperature}}
	b, err := json.Marshal(meta)
	require.NoError(t, err)

	h.onMeta(b)
	require.Len(t, rec.msgs, 3)
	for _, m := range rec.msgs {
		assert.True(t, m.Retain)
		assert.Equal(t, byte(1), m.QoS)
	}
	assert.Equal(t, "homeassistant/sensor/well/depth_m/config", rec.msgs[0].Topic)

	var cfg map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.msgs[0].Payload, &cfg))
	assert.Equal(t, "smh/well/state", cfg["state_topic"])
	assert.Equal(t, "m", cfg["unit_of_measurement"])
}

func TestOnMetaIgnoresGarbage(t *testing.T) {
	rec := &recorder{}
	h := NewMainHandler(rec, zerolog.Nop())

	h.onMeta([]byte("not json"))
	h.onMeta([]byte(`{"caps":["water.depth"]}`))
	assert.Empty(t, rec.msgs)
}
