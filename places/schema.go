// Package places maps the restaurants table written by the place-collection
// scripts onto the export engine's schema.
package places

import (
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-places-export/export"
)

// RowSourceKey identifies the SQLite-backed restaurant row source.
const RowSourceKey = "places.sqlite"

// DefinitionName is the registered export definition for restaurants.
const DefinitionName = "restaurants"

// Restaurant mirrors one row of the collector's restaurants table. Every
// column except the (city, place_id) key is nullable in the store, so the
// model uses pointers throughout and the export layer decides which gaps
// are acceptable.
type Restaurant struct {
	bun.BaseModel `bun:"table:restaurants,alias:r"`

	City             string   `bun:"city,pk"`
	PlaceID          *string  `bun:"place_id,pk"`
	Name             *string  `bun:"name"`
	FormattedAddress *string  `bun:"formatted_address"`
	Lat              *float64 `bun:"lat"`
	Lng              *float64 `bun:"lng"`
	Rating           *float64 `bun:"rating"`
	UserRatingsTotal *int64   `bun:"user_ratings_total"`
	PriceLevel       *int64   `bun:"price_level"`
	BusinessStatus   *string  `bun:"business_status"`
	Types            *string  `bun:"types"`
	FetchedAt        *string  `bun:"fetched_at"`
}

// Column names for the restaurant export schema. The first seven are the
// default projection; the rest come straight from the collector and are
// selectable with --columns.
const (
	ColName             = "name"
	ColAddress          = "address"
	ColLat              = "lat"
	ColLng              = "lng"
	ColPlaceID          = "place_id"
	ColRating           = "rating"
	ColUserRatingsTotal = "user_ratings_total"
	ColCity             = "city"
	ColPriceLevel       = "price_level"
	ColBusinessStatus   = "business_status"
	ColTypes            = "types"
	ColFetchedAt        = "fetched_at"
)

// Definition returns the export definition for the restaurants dataset.
func Definition() export.ExportDefinition {
	return export.ExportDefinition{
		Name:     DefinitionName,
		Resource: "restaurant",
		Schema: export.Schema{Columns: []export.Column{
			{Name: ColName, Type: "string"},
			{Name: ColAddress, Type: "string"},
			{Name: ColLat, Type: "float"},
			{Name: ColLng, Type: "float"},
			{Name: ColPlaceID, Type: "string"},
			{Name: ColRating, Type: "float"},
			{Name: ColUserRatingsTotal, Type: "int"},
			{Name: ColCity, Type: "string"},
			{Name: ColPriceLevel, Type: "int"},
			{Name: ColBusinessStatus, Type: "string"},
			{Name: ColTypes, Type: "string"},
			{Name: ColFetchedAt, Type: "datetime"},
		}},
		DefaultColumns: []string{
			ColName, ColAddress, ColLat, ColLng,
			ColPlaceID, ColRating, ColUserRatingsTotal,
		},
		DefaultFilename: "restaurants_{{.Timestamp}}",
		RowSourceKey:    RowSourceKey,
	}
}

// Validate enforces the malformed-row policy: name and place_id must be
// present on every record. A violation fails the whole export run.
func (r *Restaurant) Validate() error {
	if r.PlaceID == nil || *r.PlaceID == "" {
		return export.NewError(export.KindMalformed,
			fmt.Sprintf("restaurant in city %q has no place_id", r.City), nil)
	}
	if r.Name == nil || *r.Name == "" {
		return export.NewError(export.KindMalformed,
			fmt.Sprintf("restaurant %q has no name", *r.PlaceID), nil)
	}
	return nil
}

// BuildRow projects a validated record onto the requested columns.
// Optional fields that are NULL in the store become nil cells.
func BuildRow(r *Restaurant, columns []export.Column) (export.Row, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	row := make(export.Row, 0, len(columns))
	for _, col := range columns {
		switch col.Name {
		case ColName:
			row = append(row, deref(r.Name))
		case ColAddress:
			row = append(row, deref(r.FormattedAddress))
		case ColLat:
			row = append(row, deref(r.Lat))
		case ColLng:
			row = append(row, deref(r.Lng))
		case ColPlaceID:
			row = append(row, deref(r.PlaceID))
		case ColRating:
			row = append(row, deref(r.Rating))
		case ColUserRatingsTotal:
			row = append(row, deref(r.UserRatingsTotal))
		case ColCity:
			row = append(row, r.City)
		case ColPriceLevel:
			row = append(row, deref(r.PriceLevel))
		case ColBusinessStatus:
			row = append(row, deref(r.BusinessStatus))
		case ColTypes:
			row = append(row, deref(r.Types))
		case ColFetchedAt:
			row = append(row, deref(r.FetchedAt))
		default:
			return nil, export.NewError(export.KindValidation,
				fmt.Sprintf("unknown column %q", col.Name), nil)
		}
	}
	return row, nil
}

func deref[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
