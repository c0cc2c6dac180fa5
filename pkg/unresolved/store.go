// Package unresolved persists identifiers that the authoritative
// source could not resolve, together with every namespace that observed
// them. The store is a tab-separated text file with one row per
// identifier, sorted, so successive runs produce stable diffs.
package unresolved

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/biopragmatics/orcidsync/pkg/errors"
	"github.com/biopragmatics/orcidsync/pkg/orcid"
)

// DefaultFilename is the store file name inside the data directory.
const DefaultFilename = "wikidata_missing_orcids.tsv"

const filePermissions = 0o644

// prefixSeparator joins namespace prefixes within a row.
const prefixSeparator = "|"

// Entry is one row of the store.
type Entry struct {
	ORCID    orcid.ID
	Prefixes []string // sorted, deduplicated
}

// Store accumulates unresolved identifiers in memory and flushes them
// to disk. One Store instance is the single writer for a run; workers
// hand their partial results to it and it merges (accumulate-then-flush).
type Store struct {
	path string

	mu      sync.Mutex
	entries map[orcid.ID]map[string]bool
}

// Open loads the store from path, starting empty when the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		entries: make(map[orcid.ID]map[string]bool),
	}

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only handle

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\n")
		if line == "" {
			continue
		}
		id, prefixes, err := parseRow(line)
		if err != nil {
			return nil, errors.WrapParse("tsv", path, err)
		}
		for _, prefix := range prefixes {
			s.record(id, prefix)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	return s, nil
}

func parseRow(line string) (orcid.ID, []string, error) {
	parts := strings.SplitN(line, "\t", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", nil, fmt.Errorf("malformed row %q", line)
	}
	var prefixes []string
	for _, prefix := range strings.Split(parts[1], prefixSeparator) {
		if prefix != "" {
			prefixes = append(prefixes, prefix)
		}
	}
	return orcid.ID(parts[0]), prefixes, nil
}

// Record notes that an identifier was observed unresolved under a
// namespace prefix. Recording the same identifier under a second
// namespace unions the prefixes onto the existing row.
func (s *Store) Record(id orcid.ID, prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(id, prefix)
}

// RecordAll records a batch of identifiers under one namespace prefix.
func (s *Store) RecordAll(ids []orcid.ID, prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.record(id, prefix)
	}
}

// record merges one observation. Callers hold mu.
func (s *Store) record(id orcid.ID, prefix string) {
	set := s.entries[id]
	if set == nil {
		set = make(map[string]bool)
		s.entries[id] = set
	}
	if prefix != "" {
		set[prefix] = true
	}
}

// Len returns the number of distinct unresolved identifiers.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns every row, sorted by identifier.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.entries))
	for id, set := range s.entries {
		prefixes := make([]string, 0, len(set))
		for prefix := range set {
			prefixes = append(prefixes, prefix)
		}
		sort.Strings(prefixes)
		entries = append(entries, Entry{ORCID: id, Prefixes: prefixes})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ORCID < entries[j].ORCID })
	return entries
}

// Flush writes the whole store to disk, one sorted row per identifier.
// Flushing after every namespace keeps partial results on disk even if
// a later namespace kills the run.
func (s *Store) Flush() error {
	var b strings.Builder
	for _, entry := range s.Entries() {
		b.WriteString(entry.ORCID.String())
		b.WriteByte('\t')
		b.WriteString(strings.Join(entry.Prefixes, prefixSeparator))
		b.WriteByte('\n')
	}

	if err := os.WriteFile(s.path, []byte(b.String()), filePermissions); err != nil {
		return errors.WrapIO("write", s.path, err)
	}
	return nil
}
