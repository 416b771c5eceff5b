package source

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/logger"
)

const feedsQuery = `SELECT url FROM feeds ORDER BY created_at, url`

// Querier is satisfied by *postgres.Client.
type Querier interface {
	QueryStrings(ctx context.Context, query string, args ...any) ([]string, error)
}

// PostgresSource reads feed addresses from the feeds table.
type PostgresSource struct {
	db     Querier
	logger *slog.Logger
}

func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{
		db:     db,
		logger: logger.WithComponent("postgres-source"),
	}
}

func (s *PostgresSource) Load(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryStrings(ctx, feedsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSourceRead, err)
	}
	addrs, err := filter("feeds table", rows, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Info("feed list loaded", "feeds", len(addrs))
	return addrs, nil
}
