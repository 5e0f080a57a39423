package stations

import (
	"context"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "stops.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func coord(v float64) *float64 { return &v }

func TestUpsertCreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	rec := Record{
		OpisID: 101, Name: "BIG RIG FUEL", Address: "I-40 EXIT 12",
		City: "Amarillo", State: "TX", RackID: 7, Price: 3.459,
		Lat: coord(35.19), Lon: coord(-101.85),
	}
	created, err := store.Upsert(ctx, rec)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Error("first upsert should create")
	}

	rec.Price = 3.399
	created, err = store.Upsert(ctx, rec)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Error("second upsert should update")
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count %d, want 1", n)
	}

	got, err := store.WithinBox(ctx, 35, 36, -102, -101, 10)
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("found %d stations, want 1", len(got))
	}
	if got[0].Price() != 3.399 {
		t.Errorf("price %v, want refreshed 3.399", got[0].Price())
	}
}

func TestUpsertPriceRefreshKeepsCoordinates(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	rec := Record{
		OpisID: 55, Name: "STOP A", Address: "US-54", City: "Tucumcari", State: "NM",
		RackID: 3, Price: 3.2, Lat: coord(35.17), Lon: coord(-103.72),
	}
	if _, err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// A later price feed row has no coordinates.
	rec.Price = 3.1
	rec.Lat, rec.Lon = nil, nil
	if _, err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	got, err := store.WithinBox(ctx, 35, 36, -104, -103, 10)
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("geocoded station lost on price refresh")
	}
	if got[0].Price() != 3.1 {
		t.Errorf("price %v, want 3.1", got[0].Price())
	}
}

func TestWithinBoxExcludesUngeocodedAndOrdersByPrice(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	rows := []Record{
		{OpisID: 1, Name: "A", Address: "a", City: "c", State: "OK", RackID: 1, Price: 3.6, Lat: coord(35.4), Lon: coord(-97.6)},
		{OpisID: 2, Name: "B", Address: "b", City: "c", State: "OK", RackID: 1, Price: 3.1, Lat: coord(35.5), Lon: coord(-97.5)},
		{OpisID: 3, Name: "C", Address: "c", City: "c", State: "OK", RackID: 1, Price: 2.9},                                      // not geocoded
		{OpisID: 4, Name: "D", Address: "d", City: "c", State: "OK", RackID: 1, Price: 3.3, Lat: coord(44.0), Lon: coord(-97.5)}, // outside box
	}
	for _, r := range rows {
		if _, err := store.Upsert(ctx, r); err != nil {
			t.Fatalf("seed %d: %v", r.OpisID, err)
		}
	}

	got, err := store.WithinBox(ctx, 35, 36, -98, -97, 10)
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("found %d stations, want 2", len(got))
	}
	if got[0].Name != "B" || got[1].Name != "A" {
		t.Errorf("order %s, %s; want cheapest first", got[0].Name, got[1].Name)
	}
}

func TestWithinBoxHonorsLimit(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	for i := int64(1); i <= 5; i++ {
		rec := Record{
			OpisID: i, Name: "S", Address: "addr", City: "c", State: "TX",
			RackID: 1, Price: 3.0 + float64(i)/100, Lat: coord(31.1), Lon: coord(-100.1),
		}
		rec.Address = rec.Address + string(rune('a'+i))
		if _, err := store.Upsert(ctx, rec); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	got, err := store.WithinBox(ctx, 31, 32, -101, -100, 3)
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("limit ignored: got %d rows", len(got))
	}
}
