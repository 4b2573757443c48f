package sessionstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []Record
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.SessionID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeRecord(row)
		}
	})
}

func (s *Store) saveFile() {
	s.mu.RLock()
	rows := make([]Record, 0, len(s.byID))
	for _, rec := range s.byID {
		rows = append(rows, rec)
	}
	s.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i].CompletedAt.After(rows[j].CompletedAt) })

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(sessionID string) (Record, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return Record{}, false
	}
	s.mu.RLock()
	rec, ok := s.byID[id]
	s.mu.RUnlock()
	return rec, ok
}

func (s *Store) putFile(rec Record) {
	s.ensureLoadedFile()
	normalized := normalizeRecord(rec)
	if normalized.SessionID == "" {
		return
	}
	s.mu.Lock()
	s.byID[normalized.SessionID] = normalized
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) listFile() []Record {
	s.ensureLoadedFile()
	s.mu.RLock()
	out := make([]Record, 0, len(s.byID))
	for _, rec := range s.byID {
		out = append(out, rec)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out
}
