// Package sqlite implements the vector store on a local SQLite
// database. Vectors are persisted as little-endian float32 blobs and
// mirrored in an in-memory index for cosine similarity search.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lydlabs/ragcli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/lydlabs/ragcli/internal/core/domain"
	"github.com/lydlabs/ragcli/internal/core/ports/driven"
	"github.com/lydlabs/ragcli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string

	mu    sync.RWMutex
	index []indexEntry
}

// indexEntry keeps one chunk's vector in memory for similarity scans.
type indexEntry struct {
	id        string
	content   string
	metadata  domain.ChunkMetadata
	embedding []float32
}

// NewStore creates a new SQLite vector store at the specified data
// directory. If dataDir is empty, defaults to ~/.ragcli/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragcli", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chunks.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	// Load persisted vectors into the in-memory index
	if err := s.loadIndex(); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading vector index: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// loadIndex reads all persisted chunks into memory.
func (s *Store) loadIndex() error {
	rows, err := s.db.Query("SELECT id, content, metadata, embedding FROM chunks")
	if err != nil {
		return fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var index []indexEntry
	for rows.Next() {
		var entry indexEntry
		var metadataJSON string
		var blob []byte
		if err := rows.Scan(&entry.id, &entry.content, &metadataJSON, &blob); err != nil {
			return fmt.Errorf("scanning chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &entry.metadata); err != nil {
			return fmt.Errorf("unmarshaling metadata: %w", err)
		}
		entry.embedding = bytesToVector(blob)
		index = append(index, entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating chunks: %w", err)
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()
	return nil
}

// Insert stores the chunks and returns how many were committed. A
// chunk that fails to persist is logged and skipped; the rest of the
// batch still goes in. When no chunk of a non-empty batch persists,
// Insert reports domain.ErrStoreWrite so the caller can retry.
func (s *Store) Insert(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %v", domain.ErrStoreWrite, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, content, metadata, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare insert: %v", domain.ErrStoreWrite, err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	committed := make([]indexEntry, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.ID == "" {
			chunk.ID = uuid.NewString()
		}
		if chunk.CreatedAt.IsZero() {
			chunk.CreatedAt = now
		}
		chunk.UpdatedAt = now

		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			logger.Warn("skipping chunk %s: marshal metadata: %v", chunk.ID, err)
			continue
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.Content, string(metadataJSON),
			vectorToBytes(chunk.Embedding), chunk.CreatedAt, chunk.UpdatedAt); err != nil {
			logger.Warn("skipping chunk %s: %v", chunk.ID, err)
			continue
		}

		committed = append(committed, indexEntry{
			id:        chunk.ID,
			content:   chunk.Content,
			metadata:  chunk.Metadata,
			embedding: chunk.Embedding,
		})
	}

	if len(committed) == 0 {
		return 0, fmt.Errorf("%w: no chunks persisted out of %d", domain.ErrStoreWrite, len(chunks))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", domain.ErrStoreWrite, err)
	}

	s.mu.Lock()
	for _, entry := range committed {
		s.upsertIndexLocked(entry)
	}
	s.mu.Unlock()

	return len(committed), nil
}

// upsertIndexLocked replaces an existing index entry with the same ID
// or appends a new one. Callers must hold the write lock.
func (s *Store) upsertIndexLocked(entry indexEntry) {
	for i := range s.index {
		if s.index[i].id == entry.id {
			s.index[i] = entry
			return
		}
	}
	s.index = append(s.index, entry)
}

// Query returns up to limit chunks whose cosine similarity to the
// embedding exceeds minSimilarity, ordered by descending similarity.
func (s *Store) Query(ctx context.Context, embedding []float32, minSimilarity float64, limit int) ([]domain.RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.RetrievalResult, 0, limit)
	for _, entry := range s.index {
		similarity := cosineSimilarity(embedding, entry.embedding)
		if similarity <= minSimilarity {
			continue
		}
		results = append(results, domain.RetrievalResult{
			Content:    entry.content,
			Metadata:   entry.metadata,
			Similarity: similarity,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched lengths or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// vectorToBytes encodes a vector as little-endian float32 bytes.
func vectorToBytes(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToVector decodes little-endian float32 bytes into a vector.
func bytesToVector(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}
