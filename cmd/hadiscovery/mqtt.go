package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	hlog "github.com/nlowe/hadiscovery/log"
	"github.com/nlowe/hadiscovery/mqtt"
	adapter "github.com/nlowe/hadiscovery/mqtt/adapter/autopaho"
)

func configureMQTT(ctx context.Context, cfg config, clientID string, willTopic string) (mqtt.Writer, adapter.DisconnectFunc, error) {
	log := hlog.ForComponent("mqtt")

	mqttConfig := autopaho.ClientConfig{
		ServerUrls: []*url.URL{&cfg.Broker},
		KeepAlive:  20,

		ConnectUsername: cfg.Username,
		ConnectPassword: []byte(cfg.Password),

		// Queued discovery payloads survive a short reconnect.
		SessionExpiryInterval: 60,

		OnConnectionUp: func(*autopaho.ConnectionManager, *paho.Connack) {
			log.Info("mqtt connected")
		},
		OnConnectError: func(err error) {
			log.With(hlog.Error(err)).Error("mqtt connection error")
		},

		ClientConfig: paho.ClientConfig{
			ClientID: clientID,
			OnClientError: func(err error) {
				log.With(hlog.Error(err)).Error("mqtt client error")
			},
			OnServerDisconnect: func(d *paho.Disconnect) {
				log := log.With(slog.Int("reason", int(d.ReasonCode)))

				if d.Properties != nil {
					log = log.With(
						slog.Group(
							"properties",
							slog.String("reference", d.Properties.ServerReference),
							slog.String("reason", d.Properties.ReasonString),
						),
					)
				}

				log.Warn("Disconnected from server")
			},
		},
	}

	log.With(slog.String("broker", cfg.Broker.Redacted()), slog.String("client_id", clientID)).Info("Connecting to mqtt")
	w, disconnect, err := adapter.DialMQTT(ctx, mqttConfig, willTopic)
	if err != nil {
		return nil, nil, fmt.Errorf("mqtt: connect: %w", err)
	}

	return w, disconnect, nil
}
