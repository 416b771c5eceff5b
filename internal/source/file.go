package source

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/logger"
)

// FileSource reads one feed address per line.
type FileSource struct {
	path   string
	logger *slog.Logger
}

func NewFileSource(path string) *FileSource {
	return &FileSource{
		path:   path,
		logger: logger.WithComponent("file-source"),
	}
}

func (s *FileSource) Load(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSourceRead, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", apperrors.ErrSourceRead, s.path, err)
	}
	addrs, err := filter(s.path, lines, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Info("feed list loaded", "path", s.path, "feeds", len(addrs))
	return addrs, nil
}
