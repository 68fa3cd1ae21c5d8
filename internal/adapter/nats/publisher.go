package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adboard/adverts-service/internal/config"
	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
)

const (
	AdvertCreatedSubject  = "advert.created"
	AdvertUpdatedSubject  = "advert.updated"
	AdvertDeletedSubject  = "advert.deleted"
	AdvertArchivedSubject = "advert.archived"
)

type Publisher struct {
	nc  *nats.Conn
	log logger.Logger
}

type advertIDPayload struct {
	ID int64 `json:"id"`
}

func NewPublisher(cfg config.NATSConfig, log logger.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.ConnectTimeout),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warnf("NATS disconnected: %v", err)
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Infof("Connected to NATS at %s", nc.ConnectedUrl())

	return &Publisher{nc: nc, log: log}, nil
}

func (p *Publisher) PublishAdvertCreated(ctx context.Context, advert *entity.Advert) error {
	return p.publish(AdvertCreatedSubject, advert)
}

func (p *Publisher) PublishAdvertUpdated(ctx context.Context, advert *entity.Advert) error {
	return p.publish(AdvertUpdatedSubject, advert)
}

func (p *Publisher) PublishAdvertDeleted(ctx context.Context, advertID int64) error {
	return p.publish(AdvertDeletedSubject, advertIDPayload{ID: advertID})
}

func (p *Publisher) PublishAdvertArchived(ctx context.Context, advertID int64) error {
	return p.publish(AdvertArchivedSubject, advertIDPayload{ID: advertID})
}

func (p *Publisher) publish(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Errorf("Failed to marshal payload for %s: %v", subject, err)
		return fmt.Errorf("failed to marshal payload for %s: %w", subject, err)
	}

	if err := p.nc.Publish(subject, data); err != nil {
		p.log.Errorf("Failed to publish NATS message on %s: %v", subject, err)
		return fmt.Errorf("failed to publish NATS message for %s: %w", subject, err)
	}
	p.log.Debugf("Published NATS message on %s", subject)
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil && !p.nc.IsClosed() {
		if err := p.nc.Drain(); err != nil {
			p.log.Errorf("Error draining NATS connection: %v", err)
		}
		p.nc.Close()
	}
}
