package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"alexa-skill-backend/internal/common/config"
)

// ElasticsearchSink indexes transcript entries into Elasticsearch.
type ElasticsearchSink struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearch(cfg config.TranscriptConfig) (*ElasticsearchSink, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}

	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticsearchSink{client: es, index: cfg.Index}, nil
}

// Ping tests the Elasticsearch connection.
func (s *ElasticsearchSink) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := s.client.Ping(
		s.client.Ping.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}

	return nil
}

func (s *ElasticsearchSink) Record(ctx context.Context, entry *Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal transcript entry: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithDocumentID(entry.RequestID),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index transcript entry: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index transcript entry: %s", res.Status())
	}

	return nil
}
