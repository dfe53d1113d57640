package sqliteplaces

import (
	"context"
	"io"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-places-export/export"
	"github.com/goliatone/go-places-export/places"
)

// Source reads restaurant rows from the collector's SQLite store.
type Source struct {
	DB *bun.DB
}

// NewSource creates a restaurant row source over an open store.
func NewSource(db *bun.DB) *Source {
	return &Source{DB: db}
}

// Open executes the selection and returns an iterator over the result.
// Rows are ordered by (city, place_id) so re-running an export against an
// unchanged store produces identical output.
func (s *Source) Open(ctx context.Context, spec export.RowSourceSpec) (export.RowIterator, error) {
	if s == nil || s.DB == nil {
		return nil, export.NewError(export.KindValidation, "store database is required", nil)
	}

	var records []places.Restaurant
	query := s.DB.NewSelect().
		Model(&records).
		Order("city ASC", "place_id ASC")
	if city := spec.Request.City; city != "" {
		query = query.Where("city = ?", city)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, export.NewError(export.KindInternal, "query restaurants", err)
	}

	return &iterator{records: records, columns: spec.Columns}, nil
}

type iterator struct {
	records []places.Restaurant
	columns []export.Column
	index   int
}

// Next maps the next record onto the projected columns. A record that
// violates the required-field policy aborts the run here, before any
// output is published.
func (it *iterator) Next(ctx context.Context) (export.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if it.index >= len(it.records) {
		return nil, io.EOF
	}
	record := &it.records[it.index]
	it.index++
	return places.BuildRow(record, it.columns)
}

func (it *iterator) Close() error {
	return nil
}

// CityStats summarizes collected rows for one city.
type CityStats struct {
	City      string   `bun:"city"`
	Rows      int64    `bun:"row_count"`
	AvgRating *float64 `bun:"avg_rating"`
}

// Stats reports per-city row counts and average ratings, mirroring the
// quick-look queries the collection side runs before analysis.
func (s *Source) Stats(ctx context.Context) ([]CityStats, error) {
	if s == nil || s.DB == nil {
		return nil, export.NewError(export.KindValidation, "store database is required", nil)
	}

	var stats []CityStats
	err := s.DB.NewSelect().
		Model((*places.Restaurant)(nil)).
		ColumnExpr("city AS city").
		ColumnExpr("COUNT(*) AS row_count").
		ColumnExpr("AVG(rating) AS avg_rating").
		GroupExpr("city").
		OrderExpr("city ASC").
		Scan(ctx, &stats)
	if err != nil {
		return nil, export.NewError(export.KindInternal, "query city stats", err)
	}
	return stats, nil
}
