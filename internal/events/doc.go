// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package events carries recorded interactions over a Watermill bus.

The interaction recorder publishes one message per applied interaction. The
payload is the JSON form of models.InteractionEvent; metadata repeats the
action, actor_id and target_id so consumers can route without decoding.

Two backends are available:

	gochannel  in-process, the default; messages are lost on restart
	nats       core NATS subjects via watermill-nats, with a queue group

Nothing on the bus is authoritative. The store already holds every effect
of an interaction before its event is published, so consumers only observe:
the bundled Logger handler counts and logs events.

Usage:

	bus, err := events.NewBus(&cfg.Events, logger)
	pub := events.NewPublisher(bus.Publisher(), cfg.Events.Topic, logger)
	router, err := events.NewRouter(events.DefaultRouterConfig(), bus.WatermillLogger())
	router.AddConsumerHandler("interaction-log", cfg.Events.Topic, bus.Subscriber(), events.NewLogger(cfg.Events.Topic, logger).Handle)
*/
package events
