// Package chroma provides a Chroma vector database driver implementation.
// All partitions share one Chroma collection; partition scoping is enforced
// with a metadata filter on every query, get, and delete.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/backoff"
	"github.com/veridocai/veridoc/pkg/vector"
)

const (
	// DefaultCollectionName is the default collection for document chunks.
	DefaultCollectionName = "veridoc"

	metaPartition = "partition"
	metaOrdinal   = "ordinal"
)

// Driver implements vector.Driver using Chroma's REST API.
type Driver struct {
	baseURL        string
	collectionName string
	collectionID   string
	retry          backoff.Policy
	httpClient     *http.Client
	logger         *zap.Logger
}

// Config holds configuration for the Chroma driver.
type Config struct {
	// URL is the Chroma server URL (e.g., "http://localhost:8000").
	URL string

	// CollectionName is the name of the collection to use.
	// Defaults to DefaultCollectionName if empty.
	CollectionName string

	// Timeout bounds each HTTP call to Chroma. Defaults to 60s.
	Timeout time.Duration

	// Retry is the backoff policy for transient failures. Zero value means
	// backoff.DefaultPolicy.
	Retry backoff.Policy
}

// NewDriver creates a new Chroma vector driver and ensures the backing
// collection exists.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("chroma URL is required")
	}

	collectionName := c.CollectionName
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	retry := c.Retry
	if retry.MaxAttempts == 0 {
		retry = backoff.DefaultPolicy()
	}

	d := &Driver{
		baseURL:        c.URL,
		collectionName: collectionName,
		retry:          retry,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}

	collectionID, err := d.getOrCreateCollection(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: getting or creating collection %q: %v", vector.ErrUnavailable, collectionName, err)
	}
	d.collectionID = collectionID

	logger.Info("connected to Chroma",
		zap.String("url", c.URL),
		zap.String("collection", collectionName),
		zap.String("collection_id", collectionID),
	)

	return d, nil
}

func (d *Driver) collectionsURL() string {
	return fmt.Sprintf("%s/api/v2/tenants/default_tenant/databases/default_database/collections", d.baseURL)
}

// getOrCreateCollection gets an existing collection or creates a new one.
func (d *Driver) getOrCreateCollection(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/%s", d.collectionsURL(), d.collectionName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating get request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending get request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var collection chromaCollection
		if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
			return "", fmt.Errorf("decoding collection response: %w", err)
		}
		return collection.ID, nil
	}

	createBody, err := json.Marshal(map[string]string{"name": d.collectionName})
	if err != nil {
		return "", fmt.Errorf("marshaling create request: %w", err)
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodPost, d.collectionsURL(), bytes.NewReader(createBody))
	if err != nil {
		return "", fmt.Errorf("creating create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err = d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending create request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to create collection: status %d: %s", resp.StatusCode, string(body))
	}

	var collection chromaCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return "", fmt.Errorf("decoding create response: %w", err)
	}

	return collection.ID, nil
}

// post sends a JSON body to a collection sub-endpoint, retrying transient
// failures per the configured policy, and decodes the response into out
// when out is non-nil.
func (d *Driver) post(ctx context.Context, endpoint string, reqBody, out any) error {
	return backoff.Retry(ctx, d.retry, func(ctx context.Context) error {
		return d.postOnce(ctx, endpoint, reqBody, out)
	})
}

func (d *Driver) postOnce(ctx context.Context, endpoint string, reqBody, out any) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("marshaling %s request: %w", endpoint, err))
	}

	url := fmt.Sprintf("%s/%s/%s", d.collectionsURL(), d.collectionID, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("creating %s request: %w", endpoint, err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending %s request: %v", vector.ErrUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s failed: status %d: %s", vector.ErrUnavailable, endpoint, resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return backoff.Permanent(fmt.Errorf("%s failed: status %d: %s", endpoint, resp.StatusCode, string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

// Upsert stores chunk documents into the given partition.
func (d *Driver) Upsert(ctx context.Context, partition string, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, len(docs))
	embeddings := make([][]float32, len(docs))
	metadatas := make([]map[string]any, len(docs))
	documents := make([]string, len(docs))

	for i, doc := range docs {
		ids[i] = doc.ID
		embeddings[i] = doc.Embedding
		metadatas[i] = map[string]any{
			metaPartition: partition,
			metaOrdinal:   doc.Ordinal,
		}
		documents[i] = doc.Text
	}

	reqBody := chromaUpsertRequest{
		IDs:        ids,
		Embeddings: embeddings,
		Metadatas:  metadatas,
		Documents:  documents,
	}

	if err := d.post(ctx, "upsert", reqBody, nil); err != nil {
		return err
	}

	d.logger.Debug("upserted documents to chroma",
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

	reqBody := chromaQueryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        topK,
		Where:           map[string]any{metaPartition: partition},
		Include:         []string{"metadatas", "distances", "documents"},
	}

	var queryResp chromaQueryResponse
	if err := d.post(ctx, "query", reqBody, &queryResp); err != nil {
		return nil, err
	}

	var results []vector.QueryResult

	// Single query embedding, so only the first group matters.
	if len(queryResp.IDs) == 0 || len(queryResp.IDs[0]) == 0 {
		return results, nil
	}

	ids := queryResp.IDs[0]
	distances := queryResp.Distances[0]

	var metadatas []map[string]any
	if len(queryResp.Metadatas) > 0 {
		metadatas = queryResp.Metadatas[0]
	}

	var documents []string
	if len(queryResp.Documents) > 0 {
		documents = queryResp.Documents[0]
	}

	for i, id := range ids {
		result := vector.QueryResult{
			Document: vector.Document{ID: id},
		}

		if i < len(documents) {
			result.Text = documents[i]
		}

		if i < len(metadatas) && metadatas[i] != nil {
			if ord, ok := metadatas[i][metaOrdinal].(float64); ok {
				result.Ordinal = int(ord)
			}
		}

		// Convert distance to similarity score; lower distance = higher
		// similarity.
		if i < len(distances) {
			result.Score = 1.0 / (1.0 + distances[i])
		}

		results = append(results, result)
	}

	d.logger.Debug("queried chroma",
		zap.String("partition", partition),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// HasPartition reports whether any document exists in the partition.
func (d *Driver) HasPartition(ctx context.Context, partition string) (bool, error) {
	reqBody := chromaGetRequest{
		Where:   map[string]any{metaPartition: partition},
		Limit:   1,
		Include: []string{},
	}

	var getResp chromaGetResponse
	if err := d.post(ctx, "get", reqBody, &getResp); err != nil {
		return false, err
	}

	return len(getResp.IDs) > 0, nil
}

// DeletePartition removes all documents in the partition.
func (d *Driver) DeletePartition(ctx context.Context, partition string) error {
	reqBody := chromaDeleteRequest{
		Where: map[string]any{metaPartition: partition},
	}

	if err := d.post(ctx, "delete", reqBody, nil); err != nil {
		return err
	}

	d.logger.Debug("deleted partition from chroma",
		zap.String("partition", partition),
	)

	return nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

var _ vector.Driver = (*Driver)(nil)
