package modelstore

import (
	"strings"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS threat_models (
  model_id TEXT PRIMARY KEY,
  model_name TEXT NOT NULL DEFAULT 'Untitled model',
  dsl TEXT NOT NULL DEFAULT '',
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

func (s *Store) getDB(id string) (Model, bool) {
	if err := s.ensureSchema(); err != nil {
		return Model{}, false
	}
	key := strings.TrimSpace(id)
	if key == "" {
		return Model{}, false
	}
	row := s.db.QueryRow(`SELECT model_id, model_name, dsl, updated_at
FROM threat_models WHERE model_id = $1`, key)
	var m Model
	if err := row.Scan(&m.ID, &m.Name, &m.DSL, &m.UpdatedAt); err != nil {
		return Model{}, false
	}
	return normalizeModel(m), true
}

func (s *Store) putDB(m Model) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeModel(m)
	if n.ID == "" {
		return
	}
	_, _ = s.db.Exec(`
INSERT INTO threat_models (model_id, model_name, dsl, updated_at)
VALUES ($1,$2,$3,NOW())
ON CONFLICT (model_id)
DO UPDATE SET model_name=EXCLUDED.model_name,
  dsl=EXCLUDED.dsl,
  updated_at=NOW()`,
		n.ID, n.Name, n.DSL)
}

func (s *Store) deleteDB(id string) bool {
	if err := s.ensureSchema(); err != nil {
		return false
	}
	key := strings.TrimSpace(id)
	if key == "" {
		return false
	}
	res, err := s.db.Exec(`DELETE FROM threat_models WHERE model_id = $1`, key)
	if err != nil {
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *Store) listDB() []Model {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT model_id, model_name, dsl, updated_at
FROM threat_models ORDER BY model_id`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]Model, 0, 32)
	for rows.Next() {
		var m Model
		if err := rows.Scan(&m.ID, &m.Name, &m.DSL, &m.UpdatedAt); err != nil {
			continue
		}
		out = append(out, normalizeModel(m))
	}
	return out
}
