package theaters

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// Entry is one row of the theater lookup table.
type Entry struct {
	Name string
	Code string
}

// Table is the read-only theater lookup table, rows are kept in file
// order. it is safe to share between goroutines once loaded.
type Table struct {
	entries []Entry
}

var ErrMissingColumn = errors.New("missing column")

// NotFoundError is returned by Resolve when no entry has exactly the
// requested name.
type NotFoundError struct {
	Name string
	// names that look similar to Name, for display only
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("theater %q not found", e.Name)
	}
	return fmt.Sprintf(
		"theater %q not found (did you mean %s?)",
		e.Name, strings.Join(e.Suggestions, ", "),
	)
}

func NewTable(entries []Entry) Table {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return Table{entries: copied}
}

// Load reads a CSV file with at least a "name" and a "code" column.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return Table{}, fmt.Errorf("load %s: %w", path, err)
	}
	return table, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.TrimSpace(col) == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
}

// Parse reads the table from CSV. every field is kept as text so codes
// like "0013" keep their leading zeros.
func Parse(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return Table{}, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	nameIdx, err := columnIndex(header, "name")
	if err != nil {
		return Table{}, err
	}
	codeIdx, err := columnIndex(header, "code")
	if err != nil {
		return Table{}, err
	}

	var entries []Entry
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, err
		}
		entries = append(entries, Entry{
			Name: row[nameIdx],
			Code: row[codeIdx],
		})
	}

	return Table{entries: entries}, nil
}

func (t Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the rows in file order.
func (t Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Resolve returns the code of the first entry whose name is exactly
// `name`. there is no case folding or trimming.
func (t Table) Resolve(name string) (string, error) {
	for _, e := range t.entries {
		if e.Name == name {
			return e.Code, nil
		}
	}
	return "", &NotFoundError{
		Name:        name,
		Suggestions: t.suggest(name),
	}
}

const (
	suggestionThreshold = 0.8
	maxSuggestions      = 3
)

type scoredName struct {
	name  string
	score float64
}

func (t Table) suggest(name string) []string {
	if name == "" {
		return nil
	}

	var scored []scoredName
	seen := map[string]bool{}
	for _, e := range t.entries {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true

		score := matchr.JaroWinkler(name, e.Name, false)
		if score >= suggestionThreshold {
			scored = append(scored, scoredName{name: e.Name, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	var out []string
	for i := 0; i < len(scored) && i < maxSuggestions; i++ {
		out = append(out, scored[i].name)
	}
	return out
}
