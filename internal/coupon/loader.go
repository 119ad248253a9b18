package coupon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading coupon JSON files from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based coupon loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads a coupon file and returns a Table. The file is a JSON array of
// coupon objects.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Table, error) {
	l.logger.Info().Str("file", filePath).Msg("loading coupon file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open coupon file")
		return nil, fmt.Errorf("failed to open coupon file %s: %w", filePath, err)
	}
	defer file.Close()

	table, err := decodeCoupons(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse coupon file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("coupons_loaded", table.Size()).
		Msg("coupon file loaded successfully")

	return table, nil
}

// decodeCoupons parses a JSON array of coupons and validates each entry.
func decodeCoupons(r io.Reader) (*Table, error) {
	var coupons []Coupon
	if err := json.NewDecoder(r).Decode(&coupons); err != nil {
		return nil, fmt.Errorf("invalid coupon JSON: %w", err)
	}

	for i, c := range coupons {
		if c.Code == "" {
			return nil, fmt.Errorf("coupon %d: code is required", i)
		}
		if c.Type != TypeFlat && c.Type != TypePercent {
			return nil, fmt.Errorf("coupon %q: unknown type %q", c.Code, c.Type)
		}
		if c.Value < 0 {
			return nil, fmt.Errorf("coupon %q: value must not be negative", c.Code)
		}
		if c.Type == TypePercent && c.Value > 100 {
			return nil, fmt.Errorf("coupon %q: percentage must not exceed 100", c.Code)
		}
	}

	return NewTable(coupons), nil
}
