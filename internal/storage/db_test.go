package storage

import (
	"path/filepath"
	"testing"

	"pcprep/internal"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInsertAndListRuns(t *testing.T) {
	db := openTemp(t)

	stats := internal.NewRunStats()
	stats.Accept()
	stats.Accept()
	stats.Reject(internal.RejectWarranty)

	for i, variant := range []string{"convert", "filter"} {
		err := db.InsertRun(internal.RunRecord{
			TraceID:    "trace-" + variant,
			Variant:    variant,
			InputPath:  "in.csv",
			InputHash:  "abc",
			OutputPath: "out.csv",
			Status:     "ok",
			Stats:      stats,
			Timings:    map[string]float64{"totalMs": float64(i + 1)},
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("len=%d", len(runs))
	}
	if runs[0].Variant != "filter" {
		t.Fatalf("expected newest first, got %s", runs[0].Variant)
	}
	if runs[0].Stats.Accepted != 2 || runs[0].Stats.Rejected[internal.RejectWarranty] != 1 {
		t.Fatalf("counts did not round-trip: %+v", runs[0].Stats)
	}
	if runs[0].Timings["totalMs"] != 2 {
		t.Fatalf("timings=%v", runs[0].Timings)
	}
}

func TestMetadata(t *testing.T) {
	db := openTemp(t)

	got, err := db.GetMetadata("missing")
	if err != nil || got != nil {
		t.Fatalf("got %v err %v", got, err)
	}
	if err := db.SetMetadata("k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("k", "v2"); err != nil {
		t.Fatal(err)
	}
	got, err = db.GetMetadata("k")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != "v2" {
		t.Fatalf("got %v", got)
	}
}
