package modelstore

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
		var rows []Model
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.ID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeModel(row)
		}
	})
}

func (s *Store) saveFile() {
	s.mu.RLock()
	rows := make([]Model, 0, len(s.byID))
	for _, m := range s.byID {
		rows = append(rows, normalizeModel(m))
	}
	s.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(id string) (Model, bool) {
	s.ensureLoadedFile()
	key := strings.TrimSpace(id)
	if key == "" {
		return Model{}, false
	}
	s.mu.RLock()
	m, ok := s.byID[key]
	s.mu.RUnlock()
	if !ok {
		return Model{}, false
	}
	return normalizeModel(m), true
}

func (s *Store) putFile(m Model) {
	s.ensureLoadedFile()
	normalized := normalizeModel(m)
	if normalized.ID == "" {
		return
	}
	s.mu.Lock()
	s.byID[normalized.ID] = normalized
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) deleteFile(id string) bool {
	s.ensureLoadedFile()
	key := strings.TrimSpace(id)
	if key == "" {
		return false
	}
	s.mu.Lock()
	_, ok := s.byID[key]
	if ok {
		delete(s.byID, key)
	}
	s.mu.Unlock()
	if ok {
		s.saveFile()
	}
	return ok
}

func (s *Store) listFile() []Model {
	s.ensureLoadedFile()
	s.mu.RLock()
	out := make([]Model, 0, len(s.byID))
	for _, m := range s.byID {
		out = append(out, normalizeModel(m))
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
