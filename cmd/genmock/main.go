// Command genmock writes a deterministic watershed land-use fixture CSV for
// tests and local sweeps. Values are fixed, not sampled, so every generated
// fixture is byte-identical and downstream sweep output is reproducible.
//
// Usage:
//
//	go run ./cmd/genmock -out data/landuse.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/salt-sweep/internal/domain"
)

// mockWatershed mirrors one input row: six land-use values plus drainage area.
type mockWatershed struct {
	name    string
	landUse map[domain.Category]float64
	area    float64 // km²
}

// Fixture values loosely follow an urbanizing cold-climate basin: large
// residential parking footprints, modest institutional area, and a local
// road network several times longer than the arterial one.
var mockWatersheds = []mockWatershed{
	{
		name: "Alder Run",
		landUse: map[domain.Category]float64{
			domain.Commercial:    182000,
			domain.Industrial:    64500,
			domain.Institutional: 21800,
			domain.Residential:   395000,
			domain.RoadLocal:     48.6,
			domain.RoadArterial:  17.3,
		},
		area: 14.2,
	},
	{
		name: "Birch Brook",
		landUse: map[domain.Category]float64{
			domain.Commercial:    96000,
			domain.Industrial:    128000,
			domain.Institutional: 8400,
			domain.Residential:   211000,
			domain.RoadLocal:     31.2,
			domain.RoadArterial:  12.9,
		},
		area: 9.8,
	},
	{
		name: "Cedar Creek",
		landUse: map[domain.Category]float64{
			domain.Commercial:    31000,
			domain.Industrial:    0,
			domain.Institutional: 45200,
			domain.Residential:   502000,
			domain.RoadLocal:     61.4,
			domain.RoadArterial:  8.1,
		},
		area: 22.5,
	},
	{
		name: "Dunmore Ditch",
		landUse: map[domain.Category]float64{
			domain.Commercial:    240500,
			domain.Industrial:    92300,
			domain.Institutional: 15600,
			domain.Residential:   118000,
			domain.RoadLocal:     24.8,
			domain.RoadArterial:  21.6,
		},
		area: 7.4,
	},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the land-use fixture CSV")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)

	header := []string{"Watershed"}
	for _, c := range domain.Categories() {
		header = append(header, string(c))
	}
	header = append(header, "Area")
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}

	for _, m := range mockWatersheds {
		rec := []string{m.name}
		for _, c := range domain.Categories() {
			rec = append(rec, strconv.FormatFloat(m.landUse[c], 'f', -1, 64))
		}
		rec = append(rec, strconv.FormatFloat(m.area, 'f', -1, 64))
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("wrote %d watersheds to %s\n", len(mockWatersheds), *out)
	return nil
}
