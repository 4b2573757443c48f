package sessionstore

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store persists session records. Exactly one backend is active: a JSON file
// (db == nil) or Postgres. Methods on a nil Store are no-ops so callers can
// treat persistence as optional.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Record

	schemaOnce sync.Once
	schemaErr  error

	recordCache *lru.Cache[string, Record]
}

// New returns a file-backed store at path.
func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Record),
	}
}

// NewPostgres returns a Postgres-backed store. The schema is created lazily
// on first use; reads go through an in-process LRU cache.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Record](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		db:          db,
		recordCache: cache,
	}, nil
}

// NewFromEnv prefers Postgres when GACCIA_STORE_PG_DSN is set and reachable,
// otherwise falls back to the file backend at path.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("GACCIA_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

// Close releases the database handle, if any.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the record for a session ID.
func (s *Store) Get(sessionID string) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	if s.db != nil {
		id := strings.TrimSpace(sessionID)
		if s.recordCache != nil {
			if cached, ok := s.recordCache.Get(id); ok {
				return cached, true
			}
		}
		rec, ok := s.getDB(id)
		if ok && s.recordCache != nil {
			s.recordCache.Add(id, rec)
		}
		return rec, ok
	}
	return s.getFile(sessionID)
}

// Put upserts a record and flushes the file backend.
func (s *Store) Put(rec Record) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(rec)
		if s.recordCache != nil {
			s.recordCache.Remove(strings.TrimSpace(rec.SessionID))
		}
		return
	}
	s.putFile(rec)
}

// List returns all records, most recently completed first.
func (s *Store) List() []Record {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listDB()
	}
	return s.listFile()
}

// Tally returns per-winner session counts across every stored record.
func (s *Store) Tally() map[string]int {
	tally := make(map[string]int)
	for _, rec := range s.List() {
		tally[string(rec.Winner)]++
	}
	return tally
}
