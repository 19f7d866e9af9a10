package collector

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Publisher sends collected records to a NATS subject
type Publisher struct {
	nc      *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url, subject string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{
		nc:      nc,
		subject: subject,
		logger:  logger,
	}, nil
}

// Publish sends every record as a JSON message and returns how many were
// published. A record that fails to publish is logged and skipped.
func (p *Publisher) Publish(records []Record) (int, error) {
	published := 0
	for _, r := range records {
		if err := p.publishRecord(r); err != nil {
			p.logger.Warn("failed to publish repository", "full_name", r.FullName, "error", err)
			continue
		}
		published++
	}

	if err := p.nc.Flush(); err != nil {
		return published, fmt.Errorf("failed to flush NATS connection: %w", err)
	}

	p.logger.Info("published repositories", "subject", p.subject, "count", published)
	return published, nil
}

func (p *Publisher) publishRecord(r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal repository: %w", err)
	}

	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}
	return nil
}

// Close cleanly shuts down the NATS connection
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
