package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
)

// Sources holds the constructed data sources for the pipeline. The
// stats source is mandatory; the odds source is nil when no odds
// provider is enabled.
type Sources struct {
	Stats PlayByPlaySource
	Odds  OddsSource
}

// Factory creates data sources from configuration
type Factory struct {
	log    *logrus.Logger
	client *RateLimitedHTTPClient
}

// NewFactory creates a new data source factory
func NewFactory(client *RateLimitedHTTPClient, log *logrus.Logger) *Factory {
	return &Factory{
		log:    log,
		client: client,
	}
}

// Build constructs all enabled data sources from configuration
func (f *Factory) Build(dataCfg config.DataIngestionConfig) (*Sources, error) {
	if f.client == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	sources := &Sources{}
	for _, srcCfg := range dataCfg.Sources {
		if !srcCfg.Enabled {
			if f.log != nil {
				f.log.WithField("source", srcCfg.Name).Debug("Skipping disabled data source")
			}
			continue
		}

		switch srcCfg.Name {
		case config.NFLVerseSourceName:
			if srcCfg.BaseURL == "" {
				return nil, fmt.Errorf("data source %s: base URL is required", srcCfg.Name)
			}
			sources.Stats = NewNFLVerseSource(srcCfg, f.client, f.log)

		case config.OddsAPISourceName:
			if srcCfg.APIKey == "" {
				return nil, fmt.Errorf("data source %s: API key is required", srcCfg.Name)
			}
			sources.Odds = NewOddsAPISource(srcCfg, f.client, f.log)

		default:
			return nil, fmt.Errorf("unknown data source: %s", srcCfg.Name)
		}

		if f.log != nil {
			f.log.WithField("source", srcCfg.Name).Info("Created data source")
		}
	}

	if sources.Stats == nil {
		return nil, fmt.Errorf("no enabled play-by-play source configured")
	}

	return sources, nil
}
