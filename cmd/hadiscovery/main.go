// Command hadiscovery announces (or retracts) the entities described by a manifest file to Home Assistant over MQTT.
//
// It is configured from the environment:
//
//	HADISCOVERY_BROKER        broker URL (default mqtt://localhost:1883)
//	HADISCOVERY_CLIENT_ID     MQTT client ID (default hadiscovery-<device id>)
//	HADISCOVERY_USERNAME      MQTT username
//	HADISCOVERY_PASSWORD      MQTT password
//	HADISCOVERY_MANIFEST      path to the manifest (default hadiscovery.yaml)
//	HADISCOVERY_LOG_LEVEL     debug, info, warn or error (default info)
//	HADISCOVERY_REMOVE        retract the entities instead of announcing them
//	HADISCOVERY_AVAILABILITY  publish online/offline on the will topic for the lifetime of the connection
//
// Entities always reference the manifest's will topic for availability. By default hadiscovery leaves that topic
// alone, since the device owns it and a retained "offline" on exit would mark every entity unavailable.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/nlowe/hadiscovery"
	hlog "github.com/nlowe/hadiscovery/log"
	"github.com/nlowe/hadiscovery/manifest"
	"github.com/nlowe/hadiscovery/mqtt"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, env.ToMap(os.Environ())); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, environ map[string]string) error {
	cfg, err := parseConfig(environ)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	hlog.To(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	log := hlog.ForComponent("main")

	m, err := manifest.Load(cfg.Manifest)
	if err != nil {
		return err
	}

	components, err := m.Components()
	if err != nil {
		return err
	}

	w, disconnect, err := configureMQTT(ctx, cfg, cfg.clientID(m.Device.ID), cfg.connectionWillTopic(m.WillTopic))
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		log.Info("Disconnecting from mqtt")
		if err := disconnect(shutdownCtx); err != nil {
			log.With(hlog.Error(err)).Error("Failed to disconnect from mqtt")
		}
	}()

	e := hadiscovery.New()
	e.SetOrigin(&hadiscovery.DefaultOrigin)
	m.Configure(e)

	announce(e, m, mqtt.PublisherFor(ctx, w, mqtt.DiscoveryWriteOptions), components, cfg.Remove)

	return nil
}

// announce publishes every component, or retracts them when remove is set.
func announce(e *hadiscovery.Engine, m *manifest.Manifest, publisher hadiscovery.Publisher, components []hadiscovery.Component, remove bool) {
	log := hlog.ForComponent("main")

	e.Begin(m.HADevice(), m.BaseTopic, publisher)
	defer e.End()

	for _, c := range components {
		if remove {
			e.Unpublish(c)
			continue
		}

		e.Publish(c)
	}

	action := "Announced"
	if remove {
		action = "Retracted"
	}

	log.With(slog.Int("count", len(components)), slog.Any("device", m.HADevice())).Info(action + " entities")
}
