package pgx

import (
	"context"
	"fmt"

	"github.com/docugraph/backend/internal/util"
	"github.com/docugraph/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

const defaultDimensions = 1536

// VectorDBStorage implements store.VectorStore using PostgreSQL with
// pgvector. Chunk embeddings are keyed by collection, source id and
// chunk sequence so re-ingesting a source replaces its rows in place.
type VectorDBStorage struct {
	conn pgxIConn
}

// NewVectorDBStorageWithConnection creates a new VectorDBStorage using
// an existing database connection and ensures the pgvector extension
// and the backing table exist.
func NewVectorDBStorageWithConnection(
	ctx context.Context,
	conn pgxIConn,
) (*VectorDBStorage, error) {
	s := &VectorDBStorage{conn: conn}
	if err := s.bootstrap(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *VectorDBStorage) bootstrap(ctx context.Context) error {
	dim := int(util.GetEnvNumeric("AI_EMBED_DIM", defaultDimensions))

	if _, err := s.conn.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS document_chunks (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			collection TEXT NOT NULL,
			source_id TEXT NOT NULL,
			sequence INT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (collection, source_id, sequence)
		)
	`, dim)
	if _, err := s.conn.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create document_chunks table: %w", err)
	}

	return nil
}

// Upsert writes one chunk embedding, replacing any existing row for
// the same collection, source and sequence.
func (s *VectorDBStorage) Upsert(ctx context.Context, item store.VectorItem) error {
	query := `
		INSERT INTO document_chunks (collection, source_id, sequence, content, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection, source_id, sequence)
		DO UPDATE SET content = EXCLUDED.content, embedding = EXCLUDED.embedding
	`

	_, err := s.conn.Exec(ctx, query,
		item.Collection,
		item.SourceID,
		item.Sequence,
		item.Text,
		pgvector.NewVector(item.Embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert chunk embedding: %w", err)
	}
	return nil
}

// DeleteCollection removes all chunk embeddings of one collection and
// returns how many rows were deleted.
func (s *VectorDBStorage) DeleteCollection(ctx context.Context, collection string) (int64, error) {
	tag, err := s.conn.Exec(ctx, `DELETE FROM document_chunks WHERE collection = $1`, collection)
	if err != nil {
		return 0, fmt.Errorf("failed to delete collection: %w", err)
	}
	return tag.RowsAffected(), nil
}
