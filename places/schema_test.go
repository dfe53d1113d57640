package places

import (
	"testing"

	"github.com/goliatone/go-places-export/export"
)

func strptr(s string) *string   { return &s }
func f64ptr(f float64) *float64 { return &f }
func i64ptr(i int64) *int64     { return &i }

func sampleRestaurant() *Restaurant {
	return &Restaurant{
		City:             "San Francisco",
		PlaceID:          strptr("ChIJ123"),
		Name:             strptr("Joe's Diner"),
		FormattedAddress: strptr("123 Main St"),
		Lat:              f64ptr(37.77),
		Lng:              f64ptr(-122.41),
		Rating:           f64ptr(4.5),
		UserRatingsTotal: i64ptr(120),
	}
}

func TestBuildRow_DefaultColumns(t *testing.T) {
	def := Definition()
	columns := make([]export.Column, 0, len(def.DefaultColumns))
	byName := make(map[string]export.Column)
	for _, col := range def.Schema.Columns {
		byName[col.Name] = col
	}
	for _, name := range def.DefaultColumns {
		columns = append(columns, byName[name])
	}

	row, err := BuildRow(sampleRestaurant(), columns)
	if err != nil {
		t.Fatalf("build row: %v", err)
	}

	want := export.Row{"Joe's Diner", "123 Main St", 37.77, -122.41, "ChIJ123", 4.5, int64(120)}
	if len(row) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(row))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("cell %d: got %v, want %v", i, row[i], want[i])
		}
	}
}

func TestBuildRow_OptionalNullsStayNil(t *testing.T) {
	r := &Restaurant{
		City:    "Chicago",
		PlaceID: strptr("ChIJ456"),
		Name:    strptr("Quiet Spot"),
	}

	columns := Definition().Schema.Columns
	row, err := BuildRow(r, columns)
	if err != nil {
		t.Fatalf("build row: %v", err)
	}
	if len(row) != len(columns) {
		t.Fatalf("expected full-width row, got %d cells", len(row))
	}

	for i, col := range columns {
		switch col.Name {
		case ColName, ColPlaceID, ColCity:
			if row[i] == nil {
				t.Fatalf("expected value for %s", col.Name)
			}
		default:
			if row[i] != nil {
				t.Fatalf("expected nil for %s, got %v", col.Name, row[i])
			}
		}
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	missingName := sampleRestaurant()
	missingName.Name = nil
	if err := missingName.Validate(); err == nil {
		t.Fatalf("expected error for missing name")
	} else if export.KindFromError(err) != export.KindMalformed {
		t.Fatalf("expected malformed kind, got %s", export.KindFromError(err))
	}

	missingID := sampleRestaurant()
	missingID.PlaceID = nil
	if err := missingID.Validate(); err == nil {
		t.Fatalf("expected error for missing place_id")
	}

	emptyName := sampleRestaurant()
	emptyName.Name = strptr("")
	if err := emptyName.Validate(); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
