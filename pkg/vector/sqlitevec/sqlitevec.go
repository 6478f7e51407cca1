// Package sqlitevec provides a SQLite-backed vector driver using sqlite-vec.
// Partition scoping uses a vec0 partition key column, so KNN queries only
// ever scan one document's chunks.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/vector"
)

// Driver implements vector.Driver using SQLite with sqlite-vec.
type Driver struct {
	db     *sql.DB
	logger *zap.Logger
}

// Config holds configuration for the SQLite vec driver.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the number of dimensions for the embedding vectors.
	Dimensions uint
}

// NewDriver creates a new SQLite vector driver backed by sqlite-vec.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("sqlite-vec embedding dimensions cannot be 0, must be configured")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	// Chunk metadata lives in a plain table keyed by rowid; vec0 virtual
	// tables only hold the partition key and the embedding.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chunk_documents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			chunk_id TEXT NOT NULL UNIQUE,
			partition TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			text TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunk_documents table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS chunk_documents_partition
		ON chunk_documents(partition)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating partition index: %w", err)
	}

	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS chunk_embeddings USING vec0(
			partition TEXT partition key,
			embedding float[%d]
		)`,
		c.Dimensions,
	)
	if _, err := db.Exec(createVec); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	logger.Info("sqlite-vec vector driver initialized",
		zap.String("db_path", c.DBPath),
		zap.Uint("dimensions", c.Dimensions),
		zap.String("vec_version", vecVersion),
	)

	return &Driver{
		db:     db,
		logger: logger,
	}, nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Upsert stores chunk documents into the given partition.
func (d *Driver) Upsert(ctx context.Context, partition string, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, doc := range docs {
		embBlob := serializeFloat32(doc.Embedding)

		var existingRowID int64
		err = tx.QueryRowContext(ctx,
			`SELECT rowid FROM chunk_documents WHERE chunk_id = ?`, doc.ID,
		).Scan(&existingRowID)

		switch err {
		case nil:
			if _, err := tx.ExecContext(ctx,
				`UPDATE chunk_documents SET partition = ?, ordinal = ?, text = ? WHERE rowid = ?`,
				partition, doc.Ordinal, doc.Text, existingRowID,
			); err != nil {
				return fmt.Errorf("updating chunk %s: %w", doc.ID, err)
			}

			// vec0 does not support UPDATE; replace via DELETE + INSERT.
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM chunk_embeddings WHERE rowid = ?`, existingRowID,
			); err != nil {
				return fmt.Errorf("deleting old embedding for chunk %s: %w", doc.ID, err)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO chunk_embeddings(rowid, partition, embedding) VALUES (?, ?, ?)`,
				existingRowID, partition, embBlob,
			); err != nil {
				return fmt.Errorf("re-inserting embedding for chunk %s: %w", doc.ID, err)
			}
		case sql.ErrNoRows:
			result, err := tx.ExecContext(ctx,
				`INSERT INTO chunk_documents(chunk_id, partition, ordinal, text) VALUES (?, ?, ?, ?)`,
				doc.ID, partition, doc.Ordinal, doc.Text,
			)
			if err != nil {
				return fmt.Errorf("inserting chunk %s: %w", doc.ID, err)
			}

			rowID, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("getting rowid for chunk %s: %w", doc.ID, err)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO chunk_embeddings(rowid, partition, embedding) VALUES (?, ?, ?)`,
				rowID, partition, embBlob,
			); err != nil {
				return fmt.Errorf("inserting embedding for chunk %s: %w", doc.ID, err)
			}
		default:
			return fmt.Errorf("checking for existing chunk %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	d.logger.Debug("upserted documents to sqlite-vec",
		zap.String("partition", partition),
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query finds the topK most similar documents within the partition.
func (d *Driver) Query(ctx context.Context, partition string, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	queryBlob := serializeFloat32(embedding)

	// KNN via vec0 MATCH, scoped by partition key, joined back for chunk
	// metadata.
	rows, err := d.db.QueryContext(ctx, `
		SELECT
			c.chunk_id,
			c.ordinal,
			c.text,
			ce.distance
		FROM chunk_embeddings ce
		INNER JOIN chunk_documents c ON c.rowid = ce.rowid
		WHERE ce.partition = ?
			AND ce.embedding MATCH ?
			AND ce.k = ?
		ORDER BY ce.distance
	`, partition, queryBlob, topK)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var results []vector.QueryResult
	for rows.Next() {
		var chunkID, text string
		var ordinal int
		var distance float64
		if err := rows.Scan(&chunkID, &ordinal, &text, &distance); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}

		results = append(results, vector.QueryResult{
			Document: vector.Document{
				ID:      chunkID,
				Ordinal: ordinal,
				Text:    text,
			},
			// Lower distance = higher similarity.
			Score: float32(1.0 / (1.0 + distance)),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	d.logger.Debug("queried sqlite-vec",
		zap.String("partition", partition),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// HasPartition reports whether any chunk exists in the partition.
func (d *Driver) HasPartition(ctx context.Context, partition string) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM chunk_documents WHERE partition = ?)`, partition,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking partition: %w", err)
	}

	return exists, nil
}

// DeletePartition removes all chunks in the partition.
func (d *Driver) DeletePartition(ctx context.Context, partition string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT rowid FROM chunk_documents WHERE partition = ?`, partition,
	)
	if err != nil {
		return fmt.Errorf("querying rowids for deletion: %w", err)
	}

	var rowIDs []int64
	for rows.Next() {
		var rowID int64
		if err := rows.Scan(&rowID); err != nil {
			rows.Close()
			return fmt.Errorf("scanning rowid: %w", err)
		}
		rowIDs = append(rowIDs, rowID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rowids: %w", err)
	}

	for _, rowID := range rowIDs {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM chunk_embeddings WHERE rowid = ?`, rowID,
		); err != nil {
			return fmt.Errorf("deleting embedding rowid %d: %w", rowID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM chunk_documents WHERE partition = ?`, partition,
	); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	d.logger.Debug("deleted partition from sqlite-vec",
		zap.String("partition", partition),
		zap.Int("count", len(rowIDs)),
	)

	return nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	return d.db.Close()
}

var _ vector.Driver = (*Driver)(nil)
