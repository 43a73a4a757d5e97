// Package importer loads domain lists for batch generation runs from
// plain-text and Excel files.
package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNoDomains is returned when an input file yields no usable domains.
var ErrNoDomains = errors.New("no domains found")

// domainPattern matches bare hostnames like news.example.co.uk.
var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)+$`)

// SkippedEntry records an input row that could not be imported.
type SkippedEntry struct {
	Row    int    `json:"row"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Result is a deduplicated domain list in input order, plus the rows that
// were rejected.
type Result struct {
	Domains []string
	Skipped []SkippedEntry
}

// FromFile loads domains from path, dispatching on the file extension:
// .xlsx is read as a spreadsheet, everything else as plain text.
func FromFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening domain list: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FromExcel(f)
	}
	return FromText(f)
}

// FromText reads one domain per line. Everything after a # is a comment;
// blank lines are skipped.
func FromText(r io.Reader) (Result, error) {
	c := newCollector()
	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.add(row, line)
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("reading domain list: %w", err)
	}
	return c.result()
}

// Normalize reduces a raw entry, possibly a full URL, to a bare lowercase
// domain. It applies the same scheme and path stripping the compliance and
// analysis stages use, then validates the remaining hostname shape.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.TrimPrefix(s, "//")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return "", errors.New("empty domain")
	}
	if !domainPattern.MatchString(s) {
		return "", fmt.Errorf("not a valid domain: %q", s)
	}
	return s, nil
}

type collector struct {
	seen    map[string]struct{}
	domains []string
	skipped []SkippedEntry
}

func newCollector() *collector {
	return &collector{seen: make(map[string]struct{})}
}

func (c *collector) add(row int, raw string) {
	domain, err := Normalize(raw)
	if err != nil {
		c.skipped = append(c.skipped, SkippedEntry{Row: row, Value: raw, Reason: err.Error()})
		return
	}
	if _, dup := c.seen[domain]; dup {
		return
	}
	c.seen[domain] = struct{}{}
	c.domains = append(c.domains, domain)
}

func (c *collector) result() (Result, error) {
	res := Result{Domains: c.domains, Skipped: c.skipped}
	if len(res.Domains) == 0 {
		return res, ErrNoDomains
	}
	return res, nil
}
