// Package catalog holds the fixed vocabulary of lab tests and their reference ranges.
// A Catalog is built once at startup and is read-only afterwards, so it can be shared
// between concurrent report renders without locking.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ByLCY/labreport/dsl"
)

var (
	// ErrDuplicateTest is returned when two entries share a test name.
	ErrDuplicateTest = errors.New("catalog: duplicate test")
	// ErrEmptyName is returned for an entry without a test name.
	ErrEmptyName = errors.New("catalog: empty test name")
	// ErrUnknownRange is returned when a test references an undefined named range.
	ErrUnknownRange = errors.New("catalog: unknown range reference")
)

// Entry pairs a test name with its human-readable reference range.
type Entry struct {
	Name  string `json:"name" yaml:"name"`
	Range string `json:"range" yaml:"range"`
}

// Catalog is an immutable, ordered test → range table.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New validates entries and returns a catalog preserving their order.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, ErrEmptyName
		}
		if _, ok := c.index[e.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTest, e.Name)
		}
		c.index[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Range returns the reference range for a test name. Names are matched exactly.
func (c *Catalog) Range(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	i, ok := c.index[name]
	if !ok {
		return "", false
	}
	return c.entries[i].Range, true
}

// Has reports whether name is a known test.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Range(name)
	return ok
}

// Entries returns a copy of all entries in definition order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Names returns test names in definition order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// Len returns the number of tests.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Parse reads a catalog file. filename is only used to annotate errors.
func Parse(filename string, r io.Reader) (*Catalog, error) {
	doc, err := dsl.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("解析化验目录失败: %w", err)
	}
	return fromDocument(doc)
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开化验目录 %s: %w", path, err)
	}
	defer f.Close()
	return Parse(path, f)
}

func fromDocument(doc *dsl.Catalog) (*Catalog, error) {
	ranges := map[string]string{}
	var entries []Entry
	for _, e := range doc.Entries {
		switch {
		case e.Range != nil:
			ranges[e.Range.Name] = string(e.Range.Value)
		case e.Test != nil:
			var value string
			switch {
			case e.Test.Range.Literal != nil:
				value = string(*e.Test.Range.Literal)
			case e.Test.Range.Ref != nil:
				v, ok := ranges[*e.Test.Range.Ref]
				if !ok {
					return nil, fmt.Errorf("%w %q at %s", ErrUnknownRange, *e.Test.Range.Ref, e.Test.Pos)
				}
				value = v
			}
			entries = append(entries, Entry{Name: string(e.Test.Name), Range: value})
		}
	}
	return New(entries)
}
