package stations

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSV column headers of the OPIS truckstop price feed.
const (
	colOpisID = "OPIS Truckstop ID"
	colName   = "Truckstop Name"
	colAddr   = "Address"
	colCity   = "City"
	colState  = "State"
	colRackID = "Rack ID"
	colPrice  = "Retail Price"
)

// LoadResult summarizes one CSV ingestion run.
type LoadResult struct {
	Created int
	Updated int
}

// LoadCSV ingests the price feed into the store, creating new stops and
// refreshing prices of known ones.
func LoadCSV(ctx context.Context, store *SQLiteStore, path string) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("open price feed: %w", err)
	}
	defer f.Close()
	return loadCSV(ctx, store, f)
}

func loadCSV(ctx context.Context, store *SQLiteStore, src io.Reader) (LoadResult, error) {
	r := csv.NewReader(src)
	header, err := r.Read()
	if err != nil {
		return LoadResult{}, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{colOpisID, colName, colAddr, colCity, colState, colRackID, colPrice} {
		if _, ok := idx[col]; !ok {
			return LoadResult{}, fmt.Errorf("price feed missing column %q", col)
		}
	}

	var res LoadResult
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		line++

		rec, err := recordFromRow(row, idx)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		created, err := store.Upsert(ctx, rec)
		if err != nil {
			return res, err
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res, nil
}

func recordFromRow(row []string, idx map[string]int) (Record, error) {
	get := func(col string) string { return strings.TrimSpace(row[idx[col]]) }

	opisID, err := strconv.ParseInt(get(colOpisID), 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("bad opis id %q", get(colOpisID))
	}
	rackID, err := strconv.ParseInt(get(colRackID), 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("bad rack id %q", get(colRackID))
	}
	price, err := strconv.ParseFloat(get(colPrice), 64)
	if err != nil {
		return Record{}, fmt.Errorf("bad retail price %q", get(colPrice))
	}
	return Record{
		OpisID:  opisID,
		Name:    get(colName),
		Address: get(colAddr),
		City:    get(colCity),
		State:   get(colState),
		RackID:  rackID,
		Price:   price,
	}, nil
}
