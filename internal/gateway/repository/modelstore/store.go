// Package modelstore persists saved threat models keyed by id. A store
// runs on exactly one backend: postgres when a DSN is configured, a JSON
// file otherwise. The postgres path keeps a small LRU in front of reads.
package modelstore

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Model

	schemaOnce sync.Once
	schemaErr  error

	readCache *lru.Cache[string, Model]
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Model),
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Model](256)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		db:        db,
		readCache: cache,
	}, nil
}

// NewFromEnv selects the backend from MODEL_STORE_PG_DSN, falling back to
// the file backend when the DSN is unset or the database is unreachable.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("MODEL_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) Get(id string) (Model, bool) {
	if s == nil {
		return Model{}, false
	}
	if s.db != nil {
		if s.readCache != nil {
			if cached, ok := s.readCache.Get(strings.TrimSpace(id)); ok {
				return cached, true
			}
		}
		m, ok := s.getDB(id)
		if ok && s.readCache != nil {
			s.readCache.Add(m.ID, m)
		}
		return m, ok
	}
	return s.getFile(id)
}

func (s *Store) Put(m Model) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(m)
		if s.readCache != nil {
			s.readCache.Remove(strings.TrimSpace(m.ID))
		}
		return
	}
	s.putFile(m)
}

func (s *Store) Delete(id string) bool {
	if s == nil {
		return false
	}
	if s.db != nil {
		ok := s.deleteDB(id)
		if ok && s.readCache != nil {
			s.readCache.Remove(strings.TrimSpace(id))
		}
		return ok
	}
	return s.deleteFile(id)
}

func (s *Store) List() []Model {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listDB()
	}
	return s.listFile()
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
