/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
)

const (
	defaultBatchSize          = 100
	consumerInactiveThreshold = 10 * time.Minute
	consumerAckWait           = 30 * time.Second
	natsClientName            = "flowlogs-viewer"
)

// NATSSource reads JSON flow logs from a JetStream stream through a durable
// pull consumer. Undecodable messages are terminated so they are not
// redelivered.
type NATSSource struct {
	cfg       models.NATSSourceConfig
	limit     int
	log       logger.Logger
	nc        *nats.Conn
	js        jetstream.JetStream
	consumer  jetstream.Consumer
	ephemeral bool
}

// NewNATSSource connects to cfg.URL and binds a consumer on cfg.StreamName.
// The stream must already exist.
func NewNATSSource(ctx context.Context, cfg *models.NATSSourceConfig, limit int, log logger.Logger) (*NATSSource, error) {
	opts := []nats.Option{nats.Name(natsClientName)}

	if cfg.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(cfg.CredsFile))
	}

	tlsConf, err := tlsConfig(cfg.Security, "")
	if err != nil {
		return nil, fmt.Errorf("failed to build NATS TLS config: %w", err)
	}

	if tlsConf != nil {
		opts = append(opts, nats.Secure(tlsConf))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	s, err := newNATSSource(ctx, nc, cfg, limit, log)
	if err != nil {
		nc.Close()

		return nil, err
	}

	return s, nil
}

func newNATSSource(
	ctx context.Context, nc *nats.Conn, cfg *models.NATSSourceConfig, limit int, log logger.Logger,
) (*NATSSource, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	stream, err := js.Stream(ctx, cfg.StreamName)
	if errors.Is(err, jetstream.ErrStreamNotFound) {
		return nil, fmt.Errorf("%w: %s", errStreamNotFound, cfg.StreamName)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get stream %s: %w", cfg.StreamName, err)
	}

	s := &NATSSource{
		cfg:   *cfg,
		limit: limit,
		log:   log,
		nc:    nc,
		js:    js,
	}

	if s.cfg.ConsumerName == "" {
		s.cfg.ConsumerName = "flowlogs-viewer-" + uuid.NewString()
		s.ephemeral = true
	}

	if s.cfg.BatchSize <= 0 {
		s.cfg.BatchSize = defaultBatchSize
	}

	deliver := jetstream.DeliverAllPolicy
	if s.cfg.DeliverNew {
		deliver = jetstream.DeliverNewPolicy
	}

	s.consumer, err = stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:           s.cfg.ConsumerName,
		Description:       "Flow log viewer",
		DeliverPolicy:     deliver,
		AckPolicy:         jetstream.AckExplicitPolicy,
		AckWait:           consumerAckWait,
		FilterSubject:     s.cfg.Subject,
		InactiveThreshold: consumerInactiveThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer %s: %w", s.cfg.ConsumerName, err)
	}

	log.Info().
		Str("stream", s.cfg.StreamName).
		Str("consumer", s.cfg.ConsumerName).
		Msg("Bound JetStream consumer")

	return s, nil
}

// Load drains the messages currently pending for the consumer.
func (s *NATSSource) Load(ctx context.Context) ([]*models.FlowLog, error) {
	var rows []*models.FlowLog

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := s.consumer.FetchNoWait(s.cfg.BatchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch messages: %w", err)
		}

		n := 0

		for msg := range batch.Messages() {
			n++

			if f := s.handle(msg); f != nil {
				rows = append(rows, f)
			}
		}

		if err := batch.Error(); err != nil {
			return nil, fmt.Errorf("failed to fetch messages: %w", err)
		}

		if n == 0 {
			break
		}
	}

	return keepLast(rows, s.limit), nil
}

// Stream delivers every new message to fn until ctx is done.
func (s *NATSSource) Stream(ctx context.Context, fn func(*models.FlowLog)) error {
	cc, err := s.consumer.Consume(func(msg jetstream.Msg) {
		if f := s.handle(msg); f != nil {
			fn(f)
		}
	}, jetstream.ConsumeErrHandler(func(_ jetstream.ConsumeContext, err error) {
		s.log.Warn().Err(err).Msg("JetStream consume error")
	}))
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	<-ctx.Done()
	cc.Stop()

	return nil
}

func (s *NATSSource) handle(msg jetstream.Msg) *models.FlowLog {
	f, err := decodeFlowLog(msg.Data(), s.log)
	if err != nil {
		s.log.Warn().Err(err).Str("subject", msg.Subject()).Msg("Terminating undecodable message")

		if err := msg.Term(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to term message")
		}

		return nil
	}

	if err := msg.Ack(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to ack message")
	}

	return f
}

// Close removes a generated consumer and closes the connection.
func (s *NATSSource) Close() error {
	var err error

	if s.ephemeral {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if derr := s.js.DeleteConsumer(ctx, s.cfg.StreamName, s.cfg.ConsumerName); derr != nil &&
			!errors.Is(derr, jetstream.ErrConsumerNotFound) {
			err = fmt.Errorf("failed to delete consumer %s: %w", s.cfg.ConsumerName, derr)
		}
	}

	s.nc.Close()

	return err
}

// ConsumerName returns the durable consumer the source reads through.
func (s *NATSSource) ConsumerName() string {
	return s.cfg.ConsumerName
}
