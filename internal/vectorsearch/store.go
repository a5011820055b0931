package vectorsearch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"fortitude/internal/embedding"
	"fortitude/internal/logging"
	"fortitude/internal/monitoring"
)

// Store is a sqlite-backed SemanticSearchOperations implementation: content
// is embedded via an embedding.Engine and recalled by cosine similarity,
// brute-force over every row's stored embedding, read from the database on
// each search. A vec-extension-backed
// ANN index is the natural upgrade path (see vec_index.go) but is not
// required for correctness.
type Store struct {
	db       *sql.DB
	engine   embedding.Engine
	recorder *monitoring.Recorder
}

// WithRecorder attaches a monitoring.Recorder that observes every
// SearchSimilar call's latency and outcome. Optional; nil-safe if never called.
func (s *Store) WithRecorder(r *monitoring.Recorder) *Store {
	s.recorder = r
	return s
}

// Open opens (creating if necessary) a sqlite database at path and prepares
// the vectors table.
func Open(path string, engine embedding.Engine) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("vectorsearch: open %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS vectors (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}',
		embedding BLOB
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("vectorsearch: create schema: %w", err)
	}
	return &Store{db: db, engine: engine}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Insert embeds and stores a document.
func (s *Store) Insert(ctx context.Context, doc Document) error {
	vec, err := s.engine.Embed(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("vectorsearch: embed: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO vectors (id, content, metadata, embedding) VALUES (?, ?, ?, ?)`,
		doc.ID, doc.Content, encodeMetadata(doc.Metadata), encodeVector(vec))
	return err
}

// SearchSimilar implements SemanticSearchOperations using a brute-force
// cosine-similarity scan, matching the teacher's vectorRecallBruteForce
// fallback path.
func (s *Store) SearchSimilar(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	start := time.Now()
	results, err := s.searchSimilar(ctx, query, opts)
	if s.recorder != nil {
		s.recorder.RecordOperation(time.Since(start), err == nil, map[string]float64{"results": float64(len(results))})
	}
	return results, err
}

func (s *Store) searchSimilar(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	queryVec, err := s.engine.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorsearch: embed query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, content, metadata, embedding FROM vectors`)
	if err != nil {
		return nil, fmt.Errorf("vectorsearch: query: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var id, content, metadataJSON string
		var blob []byte
		if err := rows.Scan(&id, &content, &metadataJSON, &blob); err != nil {
			return nil, fmt.Errorf("vectorsearch: scan: %w", err)
		}
		sim := cosineSimilarity(queryVec, decodeVector(blob))
		if opts.Threshold != nil && sim < *opts.Threshold {
			continue
		}
		results = append(results, SearchResult{
			Document:        Document{ID: id, Content: content, Metadata: decodeMetadata(metadataJSON)},
			SimilarityScore: sim,
			RelevanceScore:  sim,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].SimilarityScore > results[j].SimilarityScore })

	limit := opts.Limit
	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}
	logging.Debug(logging.CategoryVector, "search complete", "query_len", len(query), "matches", len(results), "returned", limit)
	return results[:limit], nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
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

func encodeVector(v []float32) []byte {
	b := make([]byte, len(v)*4)
	for i, f := range v {
		bits := math.Float32bits(f)
		b[i*4] = byte(bits)
		b[i*4+1] = byte(bits >> 8)
		b[i*4+2] = byte(bits >> 16)
		b[i*4+3] = byte(bits >> 24)
	}
	return b
}

func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		bits := uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
		v[i] = math.Float32frombits(bits)
	}
	return v
}

func encodeMetadata(m map[string]string) string {
	if m == nil {
		m = map[string]string{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func decodeMetadata(s string) map[string]string {
	m := map[string]string{}
	_ = json.Unmarshal([]byte(s), &m)
	return m
}
