// Package source loads the list of feed addresses to ingest.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/ingestion/validator"
	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
)

// Source yields feed addresses in their configured order.
type Source interface {
	Load(ctx context.Context) ([]string, error)
}

// filter keeps valid addresses and logs the rest. A list without any
// address line is reported as ErrSourceRead; a list whose lines are all
// rejected yields no addresses and no error.
func filter(origin string, lines []string, logger *slog.Logger) ([]string, error) {
	valid, verr := validator.FeedAddresses(lines)
	rejected := 0
	if verr != nil {
		rejected = len(verr.Fields)
		for pos, msg := range verr.Fields {
			logger.Warn("skipping feed address", "source", origin, "at", pos, "reason", msg)
		}
	}
	if len(valid)+rejected == 0 {
		return nil, fmt.Errorf("%w: %s lists no feed addresses", apperrors.ErrSourceRead, origin)
	}
	if len(valid) == 0 {
		logger.Warn("no usable feed addresses", "source", origin, "rejected", rejected)
	}
	return valid, nil
}
