package repo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestNormalizeSymbol(t *testing.T) {
	cases := map[string]string{"cu": "Cu", " CO ": "Co", "Mo": "Mo", "": "", "x": "X"}
	for in, want := range cases {
		if got := NormalizeSymbol(in); got != want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(DefaultAnodes)

	list, err := r.ListAnodes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != len(DefaultAnodes) {
		t.Fatalf("len = %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Wavelength > list[i].Wavelength {
			t.Fatalf("not sorted by wavelength: %v", list)
		}
	}
	list[0].Wavelength = -1
	again, _ := r.ListAnodes(ctx)
	if again[0].Wavelength < 0 {
		t.Error("ListAnodes exposes internal slice")
	}

	cu, err := r.GetAnode(ctx, "CU")
	if err != nil || cu.Wavelength != 1.5406 || cu.Name != "Copper" {
		t.Errorf("GetAnode(CU) = %+v, %v", cu, err)
	}
	if _, err := r.GetAnode(ctx, "W"); !errors.Is(err, ErrAnodeNotFound) {
		t.Errorf("GetAnode(W) err = %v", err)
	}
}

// Runs against a live database only when XRD_TEST_DATABASE_URL is set.
func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("XRD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("XRD_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := OpenDB(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	r := NewPostgresRepository(db)
	if err := r.Migrate(ctx, DefaultAnodes); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := r.Migrate(ctx, DefaultAnodes); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	co, err := r.GetAnode(ctx, "co")
	if err != nil || co.Wavelength != 1.7890 {
		t.Errorf("GetAnode(co) = %+v, %v", co, err)
	}
	if _, err := r.GetAnode(ctx, "Zz"); !errors.Is(err, ErrAnodeNotFound) {
		t.Errorf("missing anode err = %v", err)
	}
	list, err := r.ListAnodes(ctx)
	if err != nil || len(list) < len(DefaultAnodes) {
		t.Errorf("ListAnodes = %v, %v", list, err)
	}
}
