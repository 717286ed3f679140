package repo

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ErrAnodeNotFound = errors.New("anode not found")

// Anode is an X-ray tube target and its Kα1 wavelength in Å.
type Anode struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Wavelength float64 `json:"wavelength"`
}

type Repository interface {
	ListAnodes(ctx context.Context) ([]Anode, error)
	GetAnode(ctx context.Context, symbol string) (Anode, error)
}

var DefaultAnodes = []Anode{
	{Symbol: "Ag", Name: "Silver", Wavelength: 0.5594},
	{Symbol: "Mo", Name: "Molybdenum", Wavelength: 0.7107},
	{Symbol: "Cu", Name: "Copper", Wavelength: 1.5406},
	{Symbol: "Co", Name: "Cobalt", Wavelength: 1.7890},
	{Symbol: "Fe", Name: "Iron", Wavelength: 1.9360},
	{Symbol: "Cr", Name: "Chromium", Wavelength: 2.2897},
}

// NormalizeSymbol turns " cu" or "CU" into "Cu".
func NormalizeSymbol(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

type MemoryRepository struct {
	anodes []Anode
}

func NewMemoryRepository(anodes []Anode) *MemoryRepository {
	sorted := slices.Clone(anodes)
	for i := range sorted {
		sorted[i].Symbol = NormalizeSymbol(sorted[i].Symbol)
	}
	slices.SortStableFunc(sorted, func(a, b Anode) int {
		switch {
		case a.Wavelength < b.Wavelength:
			return -1
		case a.Wavelength > b.Wavelength:
			return 1
		}
		return 0
	})
	return &MemoryRepository{anodes: sorted}
}

func (r *MemoryRepository) ListAnodes(ctx context.Context) ([]Anode, error) {
	return slices.Clone(r.anodes), nil
}

func (r *MemoryRepository) GetAnode(ctx context.Context, symbol string) (Anode, error) {
	symbol = NormalizeSymbol(symbol)
	for _, a := range r.anodes {
		if a.Symbol == symbol {
			return a, nil
		}
	}
	return Anode{}, ErrAnodeNotFound
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const schema = `CREATE TABLE IF NOT EXISTS anodes (
	symbol     TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	wavelength DOUBLE PRECISION NOT NULL CHECK (wavelength > 0)
)`

// Migrate creates the anodes table and inserts any missing seed rows.
func (r *PostgresRepository) Migrate(ctx context.Context, seed []Anode) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	query := "INSERT INTO anodes (symbol, name, wavelength) VALUES ($1, $2, $3) ON CONFLICT (symbol) DO NOTHING"
	for _, a := range seed {
		if _, err := r.db.ExecContext(ctx, query, NormalizeSymbol(a.Symbol), a.Name, a.Wavelength); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) ListAnodes(ctx context.Context) ([]Anode, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT symbol, name, wavelength FROM anodes ORDER BY wavelength, symbol")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Anode
	for rows.Next() {
		var a Anode
		if err := rows.Scan(&a.Symbol, &a.Name, &a.Wavelength); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetAnode(ctx context.Context, symbol string) (Anode, error) {
	var a Anode
	query := "SELECT symbol, name, wavelength FROM anodes WHERE symbol=$1"
	err := r.db.QueryRowContext(ctx, query, NormalizeSymbol(symbol)).Scan(&a.Symbol, &a.Name, &a.Wavelength)
	if err != nil {
		if err == sql.ErrNoRows {
			return Anode{}, ErrAnodeNotFound
		}
		return Anode{}, err
	}
	return a, nil
}
