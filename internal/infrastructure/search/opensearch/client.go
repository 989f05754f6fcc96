// Package opensearch implements free-text catalog search.  Entities are
// indexed into per-type indices and queried with multi_match; results carry
// only ids, which the application layer resolves against the snapshot.
package opensearch

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v3"
	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/scholarmap/scholarmap/internal/config"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// Client wraps the opensearch API client with index-name construction.
type Client struct {
	api         *opensearchapi.Client
	indexPrefix string
	logger      logging.Logger
}

// NewClient connects to the search cluster.
func NewClient(ctx context.Context, cfg config.OpenSearchConfig, log logging.Logger) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New(errors.CodeInvalidParam, "no opensearch addresses configured")
	}

	var transport http.RoundTripper
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}

	api, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: cfg.Addresses,
			Username:  cfg.User,
			Password:  cfg.Password,
			Transport: transport,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternalService, "create opensearch client")
	}

	if _, err := api.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, errors.CodeExternalService, "opensearch ping failed")
	}

	log.Info("connected to opensearch", logging.Int("addresses", len(cfg.Addresses)))
	return &Client{api: api, indexPrefix: cfg.IndexPrefix, logger: log}, nil
}

// indexName qualifies an entity index with the configured prefix.
func (c *Client) indexName(entity string) string {
	if c.indexPrefix == "" {
		return entity
	}
	return c.indexPrefix + "-" + entity
}
