// Package qdrant provides a Qdrant vector driver over the official gRPC
// client. All partitions share one collection; partition scoping is a
// keyword payload filter backed by a field index.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/veridocai/veridoc/pkg/backoff"
	"github.com/veridocai/veridoc/pkg/vector"
)

const (
	// DefaultCollectionName is the default collection for document chunks.
	DefaultCollectionName = "veridoc"

	payloadPartition = "partition"
	payloadText      = "text"
	payloadOrdinal   = "ordinal"
	payloadChunkID   = "chunk_id"
)

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Host is the Qdrant gRPC host. Required.
	Host string

	// Port is the Qdrant gRPC port (typically 6334).
	Port int

	// APIKey authenticates against Qdrant Cloud. Optional.
	APIKey string

	// UseTLS enables TLS on the gRPC channel.
	UseTLS bool

	// CollectionName defaults to DefaultCollectionName.
	CollectionName string

	// Dimensions is the embedding vector size, required to create the
	// collection on first use.
	Dimensions uint64

	// Timeout bounds each gRPC call to Qdrant. Defaults to 30s.
	Timeout time.Duration

	// Retry is the backoff policy for transient failures. Zero value means
	// backoff.DefaultPolicy.
	Retry backoff.Policy
}

// Driver implements vector.Driver using Qdrant.
type Driver struct {
	client         *qdrant.Client
	collectionName string
	timeout        time.Duration
	retry          backoff.Policy
	logger         *zap.Logger
}

// NewDriver connects to Qdrant and ensures the collection and the partition
// payload index exist.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("qdrant embedding dimensions cannot be 0, must be configured")
	}
	if c.CollectionName == "" {
		c.CollectionName = DefaultCollectionName
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = backoff.DefaultPolicy()
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   c.Host,
		Port:   c.Port,
		APIKey: c.APIKey,
		UseTLS: c.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to qdrant: %v", vector.ErrUnavailable, err)
	}

	d := &Driver{
		client:         client,
		collectionName: c.CollectionName,
		timeout:        c.Timeout,
		retry:          c.Retry,
		logger:         logger,
	}

	if err := d.ensureCollection(context.Background(), c.Dimensions); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("connected to Qdrant",
		zap.String("host", c.Host),
		zap.String("collection", c.CollectionName),
		zap.Uint64("dimensions", c.Dimensions),
	)

	return d, nil
}

func (d *Driver) ensureCollection(ctx context.Context, dims uint64) error {
	exists, err := d.client.CollectionExists(ctx, d.collectionName)
	if err != nil {
		return fmt.Errorf("%w: checking collection: %v", vector.ErrUnavailable, err)
	}
	if exists {
		return nil
	}

	err = d.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: d.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dims,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: creating collection: %v", vector.ErrUnavailable, err)
	}

	// Keyword index keeps partition-filtered queries from scanning the
	// whole collection.
	_, err = d.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: d.collectionName,
		FieldName:      payloadPartition,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("%w: creating partition index: %v", vector.ErrUnavailable, err)
	}

	return nil
}

// retryable reports whether a gRPC failure is worth another attempt.
// Statuses like InvalidArgument or Unauthenticated will not change on
// retry.
func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Aborted:
		return true
	}
	return false
}

// do runs op with the per-call timeout applied, retrying transient
// failures per the configured policy.
func (d *Driver) do(ctx context.Context, op func(ctx context.Context) error) error {
	return backoff.Retry(ctx, d.retry, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		err := op(callCtx)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	})
}

func (d *Driver) partitionFilter(partition string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(payloadPartition, partition),
		},
	}
}

// Upsert stores chunk documents into the given partition. Point IDs are
// derived deterministically from chunk IDs so re-ingestion overwrites.
func (d *Driver) Upsert(ctx context.Context, partition string, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		pointID := uuid.NewSHA1(uuid.NameSpaceURL, []byte(doc.ID))
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(pointID.String()),
			Vectors: qdrant.NewVectors(doc.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadPartition: partition,
				payloadChunkID:   doc.ID,
				payloadText:      doc.Text,
				payloadOrdinal:   int64(doc.Ordinal),
			}),
		}
	}

	// Wait so the partition is queryable as soon as Upsert returns.
	err := d.do(ctx, func(ctx context.Context) error {
		_, err := d.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: d.collectionName,
			Wait:           qdrant.PtrOf(true),
			Points:         points,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: upserting points: %v", vector.ErrUnavailable, err)
	}

	d.logger.Debug("upserted documents to qdrant",
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

	var points []*qdrant.ScoredPoint
	err := d.do(ctx, func(ctx context.Context) error {
		var err error
		points, err = d.client.Query(ctx, &qdrant.QueryPoints{
			CollectionName: d.collectionName,
			Query:          qdrant.NewQuery(embedding...),
			Filter:         d.partitionFilter(partition),
			Limit:          qdrant.PtrOf(uint64(topK)),
			WithPayload:    qdrant.NewWithPayload(true),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: querying points: %v", vector.ErrUnavailable, err)
	}

	results := make([]vector.QueryResult, 0, len(points))
	for _, point := range points {
		result := vector.QueryResult{Score: point.Score}

		if v, ok := point.Payload[payloadChunkID]; ok {
			result.ID = v.GetStringValue()
		}
		if v, ok := point.Payload[payloadText]; ok {
			result.Text = v.GetStringValue()
		}
		if v, ok := point.Payload[payloadOrdinal]; ok {
			result.Ordinal = int(v.GetIntegerValue())
		}

		results = append(results, result)
	}

	d.logger.Debug("queried qdrant",
		zap.String("partition", partition),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// HasPartition reports whether any point exists in the partition.
func (d *Driver) HasPartition(ctx context.Context, partition string) (bool, error) {
	var count uint64
	err := d.do(ctx, func(ctx context.Context) error {
		var err error
		count, err = d.client.Count(ctx, &qdrant.CountPoints{
			CollectionName: d.collectionName,
			Filter:         d.partitionFilter(partition),
			Exact:          qdrant.PtrOf(false),
		})
		return err
	})
	if err != nil {
		return false, fmt.Errorf("%w: counting points: %v", vector.ErrUnavailable, err)
	}

	return count > 0, nil
}

// DeletePartition removes all points in the partition.
func (d *Driver) DeletePartition(ctx context.Context, partition string) error {
	err := d.do(ctx, func(ctx context.Context) error {
		_, err := d.client.Delete(ctx, &qdrant.DeletePoints{
			CollectionName: d.collectionName,
			Points:         qdrant.NewPointsSelectorFilter(d.partitionFilter(partition)),
			Wait:           qdrant.PtrOf(true),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: deleting points: %v", vector.ErrUnavailable, err)
	}

	d.logger.Debug("deleted partition from qdrant",
		zap.String("partition", partition),
	)

	return nil
}

// Close releases the gRPC channel.
func (d *Driver) Close() error {
	return d.client.Close()
}

var _ vector.Driver = (*Driver)(nil)
