package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	// Register all transports (tcp, ipc, inproc)
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/kmcrae/sociogram/pkg/logging"
)

// TopicDatasetAnalyzed prefixes all analysis completion events.
const TopicDatasetAnalyzed = "dataset.analyzed"

// DatasetAnalyzed is broadcast after each successful analysis so dashboards
// can refresh without polling.
type DatasetAnalyzed struct {
	Dataset    string    `json:"dataset"`
	Nodes      int       `json:"nodes"`
	Edges      int       `json:"edges"`
	Density    float64   `json:"density"`
	Modularity float64   `json:"modularity"`
	Duration   float64   `json:"duration_seconds"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher broadcasts analysis events over a pub socket. Messages are the
// topic, a space, then the JSON payload, so subscribers can filter on the
// topic prefix.
type Publisher struct {
	sock   mangos.Socket
	logger logging.Logger
	mu     sync.Mutex
}

// NewPublisher creates a publisher listening on addr, for example
// "tcp://127.0.0.1:7780" or "inproc://events" in tests.
func NewPublisher(addr string, logger logging.Logger) (*Publisher, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create pub socket: %w", err)
	}
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	logger.Info("Event publisher listening", logging.String("addr", addr))

	return &Publisher{sock: sock, logger: logger}, nil
}

// PublishDatasetAnalyzed broadcasts an analysis completion event. Publish
// errors are logged, not returned: event delivery is best effort and must
// not fail an analysis.
func (p *Publisher) PublishDatasetAnalyzed(event DatasetAnalyzed) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to encode event", logging.Error(err))
		return
	}

	msg := append([]byte(TopicDatasetAnalyzed+" "), payload...)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.sock.Send(msg); err != nil {
		p.logger.Error("Failed to publish event",
			logging.Dataset(event.Dataset),
			logging.Error(err),
		)
	}
}

// Close shuts down the pub socket.
func (p *Publisher) Close() error {
	return p.sock.Close()
}
