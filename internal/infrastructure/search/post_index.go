package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
)

// PostIndex keeps post documents in an Elasticsearch index.
type PostIndex struct {
	ES        *elasticsearch.Client
	IndexName string
	Timeout   time.Duration
}

func NewPostIndex(es *elasticsearch.Client, index string) *PostIndex {
	return &PostIndex{ES: es, IndexName: index, Timeout: 3 * time.Second}
}

const postMapping = `{
  "mappings": {
    "properties": {
      "title":      {"type": "text"},
      "content":    {"type": "text"},
      "category":   {"type": "keyword"},
      "tags":       {"type": "keyword"},
      "owner_id":   {"type": "keyword"},
      "created_at": {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *PostIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := x.withTimeout(ctx)
	defer cancel()
	res, err := x.ES.Indices.Exists([]string{x.IndexName}, x.ES.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = x.ES.Indices.Create(x.IndexName, x.ES.Indices.Create.WithContext(c), x.ES.Indices.Create.WithBody(strings.NewReader(postMapping)))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", x.IndexName, res.Status())
	}
	return nil
}

func postDocument(p *entity.Post) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"title":      p.Title,
		"content":    p.Content,
		"category":   p.Category,
		"tags":       p.Tags,
		"owner_id":   p.OwnerID,
		"created_at": p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": p.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (x *PostIndex) Index(ctx context.Context, p *entity.Post) error {
	b, err := json.Marshal(postDocument(p))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := x.withTimeout(ctx)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index post %s: %s", p.ID, res.Status())
	}
	return nil
}

func (x *PostIndex) Remove(ctx context.Context, postID string) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: postID}
	c, cancel := x.withTimeout(ctx)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete post %s: %s", postID, res.Status())
	}
	return nil
}

// searchBody is a multi_match over title, content and tags with title boosted.
func searchBody(q string, size int) ([]byte, error) {
	return json.Marshal(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^3", "content", "tags^2", "category"},
			},
		},
		"size":    size,
		"_source": false,
	})
}

// Search returns matching post ids ordered by score.
func (x *PostIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	b, err := searchBody(q, size)
	if err != nil {
		return nil, err
	}

	c, cancel := x.withTimeout(ctx)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.IndexName), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", x.IndexName, res.Status())
	}
	return decodeHits(res.Body)
}

func decodeHits(body io.Reader) ([]string, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.ID)
	}
	return out, nil
}

func (x *PostIndex) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if x.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, x.Timeout)
}
