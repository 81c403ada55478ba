// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package events

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/thebox/internal/config"
	"github.com/tomtom215/thebox/internal/logging"
)

// Supported backends.
const (
	BackendGoChannel = "gochannel"
	BackendNATS      = "nats"
)

// Bus owns the publisher and subscriber of one backend.
type Bus struct {
	backend    string
	publisher  message.Publisher
	subscriber message.Subscriber
	wmLogger   watermill.LoggerAdapter
}

// NewBus connects the configured backend. For gochannel the publisher and
// subscriber are the same in-process pub/sub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(cfg *config.EventsConfig, logger zerolog.Logger) (*Bus, error) {
	wmLogger := watermill.NewSlogLogger(slog.New(logging.NewSlogHandlerWithLogger(
		logger.With().Str("component", "events").Logger(),
	)))

	switch cfg.Backend {
	case "", BackendGoChannel:
		ps := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, wmLogger)
		return &Bus{backend: BackendGoChannel, publisher: ps, subscriber: ps, wmLogger: wmLogger}, nil

	case BackendNATS:
		return newNATSBus(cfg, wmLogger)
	}
	return nil, fmt.Errorf("events: unknown backend %q", cfg.Backend)
}

func natsOptions(logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name("thebox"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

func newNATSBus(cfg *config.EventsConfig, wmLogger watermill.LoggerAdapter) (*Bus, error) {
	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOptions(wmLogger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.NATSURL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: cfg.SubscribersCount,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOptions(wmLogger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, wmLogger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create nats subscriber: %w", err)
	}

	return &Bus{backend: BackendNATS, publisher: pub, subscriber: sub, wmLogger: wmLogger}, nil
}

// Backend returns the backend name.
func (b *Bus) Backend() string { return b.backend }

// Publisher returns the Watermill publisher.
func (b *Bus) Publisher() message.Publisher { return b.publisher }

// Subscriber returns the Watermill subscriber.
func (b *Bus) Subscriber() message.Subscriber { return b.subscriber }

// WatermillLogger returns the adapter the bus logs through.
func (b *Bus) WatermillLogger() watermill.LoggerAdapter { return b.wmLogger }

// Close shuts down both sides of the bus.
func (b *Bus) Close() error {
	if b.backend == BackendGoChannel {
		return b.publisher.Close()
	}
	return errors.Join(b.publisher.Close(), b.subscriber.Close())
}
