// Package memory is an in-process records.Store used for local development
// and tests.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"timerelay/internal/records"
)

type Store struct {
	mu          sync.Mutex
	seq         int
	now         func() time.Time
	collections map[string][]records.Record
}

func New() *Store {
	return &Store{now: time.Now, collections: map[string][]records.Record{}}
}

// NewFromFile returns a store whose clients collection is seeded with one
// record per non-empty, non-comment line of path. Missing files seed nothing.
func NewFromFile(path, clientsCollection, titleProperty string) *Store {
	s := New()
	for _, name := range readLines(path) {
		s.Insert(clientsCollection, records.Fields{titleProperty: records.TitleValue(name)})
	}
	return s
}

// Insert adds a record without going through Create, returning it.
func (s *Store) Insert(collectionID string, fields records.Fields) records.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(collectionID, fields)
}

func (s *Store) insertLocked(collectionID string, fields records.Fields) records.Record {
	s.seq++
	props := make(map[string]records.Value, len(fields))
	for k, v := range fields {
		props[k] = v
	}
	rec := records.Record{
		ID:          fmt.Sprintf("mem-%d", s.seq),
		CreatedTime: s.now().UTC(),
		Properties:  props,
	}
	s.collections[collectionID] = append(s.collections[collectionID], rec)
	return rec
}

// Query implements records.Store.
func (s *Store) Query(_ context.Context, collectionID string, filter records.Filter, sorts ...records.Sort) ([]records.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]records.Record, 0)
	for _, rec := range s.collections[collectionID] {
		if filter == nil || filter.Match(rec) {
			out = append(out, rec)
		}
	}
	if len(sorts) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i], out[j], sorts)
		})
	}
	return out, nil
}

// Create implements records.Store.
func (s *Store) Create(_ context.Context, collectionID string, fields records.Fields) (records.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(collectionID, fields), nil
}

// Len returns the number of records in a collection.
func (s *Store) Len(collectionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collectionID])
}

func less(a, b records.Record, sorts []records.Sort) bool {
	for _, srt := range sorts {
		c := compare(a.Properties[srt.Property], b.Properties[srt.Property])
		if c == 0 {
			continue
		}
		if srt.Descending {
			return c > 0
		}
		return c < 0
	}
	return false
}

func compare(a, b records.Value) int {
	switch av := a.(type) {
	case records.TitleValue:
		bv, _ := b.(records.TitleValue)
		return strings.Compare(strings.ToLower(string(av)), strings.ToLower(string(bv)))
	case records.NumberValue:
		bv, _ := b.(records.NumberValue)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case records.DateValue:
		bv, _ := b.(records.DateValue)
		return time.Time(av).Compare(time.Time(bv))
	}
	if b != nil {
		return -1
	}
	return 0
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	seen := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
