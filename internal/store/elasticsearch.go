package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const esListSize = 10000

// ElasticsearchStore keeps each collection in its own index; document key is
// the Elasticsearch _id.
type ElasticsearchStore struct {
	client      *elasticsearch.Client
	indexPrefix string
	clock       func() time.Time
}

func NewElasticsearchStore(client *elasticsearch.Client, indexPrefix string) *ElasticsearchStore {
	return &ElasticsearchStore{client: client, indexPrefix: indexPrefix, clock: time.Now}
}

func (e *ElasticsearchStore) index(collection string) string {
	return strings.ToLower(e.indexPrefix + collection)
}

type esGetResponse struct {
	ID     string          `json:"_id"`
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *ElasticsearchStore) Get(ctx context.Context, collection, key string) (*Document, error) {
	if err := validateKey(collection, key); err != nil {
		return nil, err
	}

	res, err := e.client.Get(
		e.index(collection),
		key,
		e.client.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch get %s/%s: %w", collection, key, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch get %s/%s: %s", collection, key, res.Status())
	}

	var body esGetResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("elasticsearch get %s/%s: decode: %w", collection, key, err)
	}
	if !body.Found {
		return nil, ErrNotFound
	}
	return &Document{ID: key, Data: body.Source}, nil
}

// Set indexes the document with refresh=true so a following Get or List sees it.
func (e *ElasticsearchStore) Set(ctx context.Context, collection, key string, doc Document) error {
	if err := validateKey(collection, key); err != nil {
		return err
	}

	res, err := e.client.Index(
		e.index(collection),
		bytes.NewReader(doc.Data),
		e.client.Index.WithDocumentID(key),
		e.client.Index.WithRefresh("true"),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch set %s/%s: %w", collection, key, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch set %s/%s: %s", collection, key, res.Status())
	}
	return nil
}

// List returns up to 10000 documents ordered by id; a missing index reads
// as empty. The _id field has no fielddata on 8.x clusters, so hits are
// sorted here.
func (e *ElasticsearchStore) List(ctx context.Context, collection string) ([]Document, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("elasticsearch list %s: encode query: %w", collection, err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index(collection)),
		e.client.Search.WithBody(&buf),
		e.client.Search.WithSize(esListSize),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch list %s: %w", collection, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return []Document{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch list %s: %s", collection, res.Status())
	}

	var body esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("elasticsearch list %s: decode: %w", collection, err)
	}

	docs := make([]Document, 0, len(body.Hits.Hits))
	for _, hit := range body.Hits.Hits {
		docs = append(docs, Document{ID: hit.ID, Data: hit.Source})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// ServerTime reads the Date header of a cluster info call and falls back to
// the local clock when the header is missing.
func (e *ElasticsearchStore) ServerTime(ctx context.Context) (time.Time, error) {
	res, err := e.client.Info(e.client.Info.WithContext(ctx))
	if err != nil {
		return time.Time{}, fmt.Errorf("elasticsearch server time: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return time.Time{}, fmt.Errorf("elasticsearch server time: %s", res.Status())
	}
	return dateHeader(res, e.clock), nil
}

func dateHeader(res *esapi.Response, clock func() time.Time) time.Time {
	if raw := res.Header.Get("Date"); raw != "" {
		if t, err := http.ParseTime(raw); err == nil {
			return t.UTC()
		}
	}
	return clock().UTC()
}

func (e *ElasticsearchStore) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}
