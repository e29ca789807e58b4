package internal

import (
	"context"
	"fmt"
	"strconv"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const (
	documentClass = "CorpusDocument"
	chunkClass    = "CorpusChunk"
)

// DocumentInfo describes one document in the corpus
type DocumentInfo struct {
	VideoID     string
	DisplayName string
}

// ChunkResult is one retrieved chunk with its relevance score
type ChunkResult struct {
	Text  string
	Score float32
}

// CorpusClient stores transcript chunks in a remote Weaviate instance and
// retrieves them by semantic similarity. Vectors come from the embedding
// client; Weaviate itself runs with no vectorizer.
type CorpusClient struct {
	client   *weaviate.Client
	embedder EmbeddingClient
	verbose  bool
}

// NewCorpusClient connects to Weaviate using the configured host and scheme
func NewCorpusClient(config *Config, embedder EmbeddingClient) (*CorpusClient, error) {
	cfg := weaviate.Config{
		Host:   config.WeaviateHost,
		Scheme: config.WeaviateScheme,
	}
	if config.WeaviateAPIKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: config.WeaviateAPIKey}
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating weaviate client: %w", err)
	}

	return &CorpusClient{client: client, embedder: embedder, verbose: config.Verbose}, nil
}

// GetOrCreateCorpus ensures the corpus schema exists and returns the corpus
// handle. At most one corpus exists per display name; repeated calls with
// the same name return the same handle.
func (c *CorpusClient) GetOrCreateCorpus(ctx context.Context, displayName string) (string, error) {
	classes := []*models.Class{
		{
			Class:       documentClass,
			Description: "A video document within a corpus",
			Vectorizer:  "none",
			Properties: []*models.Property{
				{Name: "corpus", DataType: []string{"string"}},
				{Name: "videoId", DataType: []string{"string"}},
				{Name: "displayName", DataType: []string{"text"}},
			},
		},
		{
			Class:       chunkClass,
			Description: "A fixed-size slice of an ingested transcript",
			Vectorizer:  "none",
			Properties: []*models.Property{
				{Name: "corpus", DataType: []string{"string"}},
				{Name: "document", DataType: []string{"string"}},
				{Name: "chunkIndex", DataType: []string{"int"}},
				{Name: "content", DataType: []string{"text"}},
			},
		},
	}

	for _, class := range classes {
		exists, err := c.client.Schema().ClassExistenceChecker().WithClassName(class.Class).Do(ctx)
		if err != nil {
			return "", fmt.Errorf("checking class %s: %w", class.Class, err)
		}
		if exists {
			continue
		}
		if c.verbose {
			fmt.Printf("Creating class %s\n", class.Class)
		}
		if err := c.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
			return "", fmt.Errorf("creating class %s: %w", class.Class, err)
		}
	}

	return displayName, nil
}

// CreateDocument registers a document named "{video_id} - {title}" in the
// corpus and returns its display name as the document handle. An existing
// document with the same video ID is reused.
func (c *CorpusClient) CreateDocument(ctx context.Context, corpus, videoID, title string) (string, error) {
	displayName := fmt.Sprintf("%s - %s", videoID, title)

	existing, err := c.findDocument(ctx, corpus, videoID)
	if err != nil {
		return "", err
	}
	if existing != "" {
		if c.verbose {
			fmt.Printf("Reusing existing document: %s\n", existing)
		}
		return existing, nil
	}

	_, err = c.client.Data().Creator().
		WithClassName(documentClass).
		WithProperties(map[string]interface{}{
			"corpus":      corpus,
			"videoId":     videoID,
			"displayName": displayName,
		}).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("creating document %s: %w", displayName, err)
	}

	return displayName, nil
}

// Ingest splits text into fixed-size chunks, embeds each one and stores them
// under the document. Returns the number of chunks written.
func (c *CorpusClient) Ingest(ctx context.Context, corpus, document, text string, chunkSize int) (int, error) {
	chunks := SplitText(text, chunkSize)

	count := 0
	for i, chunk := range chunks {
		vector, err := c.embedder.Embed(ctx, chunk, TaskRetrievalDocument)
		if err != nil {
			return count, fmt.Errorf("embedding chunk %d: %w", i, err)
		}

		_, err = c.client.Data().Creator().
			WithClassName(chunkClass).
			WithProperties(map[string]interface{}{
				"corpus":     corpus,
				"document":   document,
				"chunkIndex": i,
				"content":    chunk,
			}).
			WithVector(vector).
			Do(ctx)
		if err != nil {
			return count, fmt.Errorf("storing chunk %d: %w", i, err)
		}
		count++
	}

	if c.verbose {
		fmt.Printf("Ingested %d chunks for %s\n", count, document)
	}

	return count, nil
}

// Query runs a semantic search against the corpus and returns the top
// matching chunks with relevance scores
func (c *CorpusClient) Query(ctx context.Context, corpus, query string, limit int) ([]ChunkResult, error) {
	vector, err := c.embedder.Embed(ctx, query, TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	nearVector := c.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	where := filters.Where().
		WithPath([]string{"corpus"}).
		WithOperator(filters.Equal).
		WithValueString(corpus)

	fields := []graphql.Field{
		{Name: "content"},
		{Name: "document"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	res, err := c.client.GraphQL().Get().
		WithClassName(chunkClass).
		WithNearVector(nearVector).
		WithWhere(where).
		WithLimit(limit).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors[0].Message)
	}

	var results []ChunkResult
	data, ok := res.Data["Get"].(map[string]interface{})
	if !ok {
		return results, nil
	}
	chunks, ok := data[chunkClass].([]interface{})
	if !ok {
		return results, nil
	}

	for _, raw := range chunks {
		props, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		var result ChunkResult
		if content, ok := props["content"].(string); ok {
			result.Text = content
		}
		if additional, ok := props["_additional"].(map[string]interface{}); ok {
			switch score := additional["certainty"].(type) {
			case float64:
				result.Score = float32(score)
			case string:
				if parsed, err := strconv.ParseFloat(score, 64); err == nil {
					result.Score = float32(parsed)
				}
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// ListDocuments returns all documents of the corpus
func (c *CorpusClient) ListDocuments(ctx context.Context, corpus string) ([]DocumentInfo, error) {
	where := filters.Where().
		WithPath([]string{"corpus"}).
		WithOperator(filters.Equal).
		WithValueString(corpus)

	fields := []graphql.Field{
		{Name: "videoId"},
		{Name: "displayName"},
	}

	res, err := c.client.GraphQL().Get().
		WithClassName(documentClass).
		WithWhere(where).
		WithLimit(100).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors[0].Message)
	}

	var docs []DocumentInfo
	if data, ok := res.Data["Get"].(map[string]interface{}); ok {
		if raw, ok := data[documentClass].([]interface{}); ok {
			for _, entry := range raw {
				props, ok := entry.(map[string]interface{})
				if !ok {
					continue
				}
				var doc DocumentInfo
				if videoID, ok := props["videoId"].(string); ok {
					doc.VideoID = videoID
				}
				if displayName, ok := props["displayName"].(string); ok {
					doc.DisplayName = displayName
				}
				docs = append(docs, doc)
			}
		}
	}

	return docs, nil
}

// DeleteDocument removes a document and all of its chunks. The argument may
// be a video ID or a full display name. Returns true when a document was
// found and deleted.
func (c *CorpusClient) DeleteDocument(ctx context.Context, corpus, idOrName string) (bool, error) {
	docs, err := c.ListDocuments(ctx, corpus)
	if err != nil {
		return false, err
	}

	var target *DocumentInfo
	for i := range docs {
		if docs[i].VideoID == idOrName || docs[i].DisplayName == idOrName {
			target = &docs[i]
			break
		}
	}
	if target == nil {
		return false, nil
	}

	chunkWhere := filters.Where().
		WithOperator(filters.And).
		WithOperands([]*filters.WhereBuilder{
			filters.Where().
				WithPath([]string{"corpus"}).
				WithOperator(filters.Equal).
				WithValueString(corpus),
			filters.Where().
				WithPath([]string{"document"}).
				WithOperator(filters.Equal).
				WithValueString(target.DisplayName),
		})

	_, err = c.client.Batch().ObjectsBatchDeleter().
		WithClassName(chunkClass).
		WithOutput("minimal").
		WithWhere(chunkWhere).
		Do(ctx)
	if err != nil {
		return false, fmt.Errorf("deleting chunks of %s: %w", target.DisplayName, err)
	}

	docWhere := filters.Where().
		WithOperator(filters.And).
		WithOperands([]*filters.WhereBuilder{
			filters.Where().
				WithPath([]string{"corpus"}).
				WithOperator(filters.Equal).
				WithValueString(corpus),
			filters.Where().
				WithPath([]string{"videoId"}).
				WithOperator(filters.Equal).
				WithValueString(target.VideoID),
		})

	_, err = c.client.Batch().ObjectsBatchDeleter().
		WithClassName(documentClass).
		WithOutput("minimal").
		WithWhere(docWhere).
		Do(ctx)
	if err != nil {
		return false, fmt.Errorf("deleting document %s: %w", target.DisplayName, err)
	}

	return true, nil
}

// findDocument looks up an existing document of the corpus by video ID
func (c *CorpusClient) findDocument(ctx context.Context, corpus, videoID string) (string, error) {
	docs, err := c.ListDocuments(ctx, corpus)
	if err != nil {
		return "", err
	}
	for _, doc := range docs {
		if doc.VideoID == videoID {
			return doc.DisplayName, nil
		}
	}
	return "", nil
}
