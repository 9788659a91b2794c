package search

import (
	"bytes"
	"context"
	"encoding/json"

	"example.com/encomendas/services/orders/config"
	"example.com/encomendas/services/orders/internal/models"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ElasticClient provides integration with Elasticsearch
type ElasticClient struct {
	client *elasticsearch.Client
	config config.ElasticConfig
}

// NewElasticClient creates a new Elasticsearch client
func NewElasticClient(cfg config.ElasticConfig) (*ElasticClient, error) {
	esConfig := elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Elasticsearch client")
	}

	return &ElasticClient{
		client: client,
		config: cfg,
	}, nil
}

// IndexOrder indexes an order view in Elasticsearch. The document carries the
// customer name so searches do not need a join.
func (c *ElasticClient) IndexOrder(ctx context.Context, order *models.Order, customer *models.Customer) error {
	log.Debug().Str("order_id", order.ID.String()).Msg("indexing order")

	description := ""
	if order.Description != nil {
		description = *order.Description
	}

	currentLocation := ""
	if order.CurrentLocation != nil {
		currentLocation = order.CurrentLocation.Location
	}

	items := make([]map[string]interface{}, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]interface{}{
			"product_id": item.ProductID.String(),
			"quantity":   item.Quantity,
		})
	}

	orderDoc := map[string]interface{}{
		"id":               order.ID.String(),
		"customer_id":      order.CustomerID.String(),
		"customer_name":    customer.Name,
		"description":      description,
		"total_value":      order.TotalValue,
		"status":           order.Status,
		"current_location": currentLocation,
		"items":            items,
		"created_at":       order.CreatedAt,
		"updated_at":       order.UpdatedAt,
	}

	docJSON, err := json.Marshal(orderDoc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal order document")
	}

	indexName := config.FormatIndex(c.config, c.config.Index)
	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: order.ID.String(),
		Body:       bytes.NewReader(docJSON),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return errors.Wrap(err, "failed to execute Elasticsearch index request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return errors.Errorf("Elasticsearch index error: %v", e)
	}

	return nil
}

// DeleteOrder removes an order document from the index.
func (c *ElasticClient) DeleteOrder(ctx context.Context, orderID string) error {
	indexName := config.FormatIndex(c.config, c.config.Index)
	req := esapi.DeleteRequest{
		Index:      indexName,
		DocumentID: orderID,
		Refresh:    "true",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return errors.Wrap(err, "failed to execute Elasticsearch delete request")
	}
	defer res.Body.Close()

	// A missing document is fine, the order may have never been indexed
	if res.IsError() && res.StatusCode != 404 {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return errors.Errorf("Elasticsearch delete error: %v", e)
	}

	return nil
}

// SearchOrders runs a free-text query against order descriptions, statuses
// and locations and returns the matching documents.
func (c *ElasticClient) SearchOrders(ctx context.Context, text string) ([]map[string]interface{}, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"description", "status", "current_location", "customer_name"},
			},
		},
	}

	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal search query")
	}

	indexName := config.FormatIndex(c.config, c.config.Index)
	req := esapi.SearchRequest{
		Index: []string{indexName},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute Elasticsearch search request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return nil, errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return nil, errors.Errorf("Elasticsearch search error: %v", e)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "failed to parse Elasticsearch search response")
	}

	hits, ok := result["hits"].(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected search result format")
	}

	hitsArray, ok := hits["hits"].([]interface{})
	if !ok {
		return nil, errors.New("unexpected hits format")
	}

	var docs []map[string]interface{}
	for _, hit := range hitsArray {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}

		source, ok := hitMap["_source"].(map[string]interface{})
		if !ok {
			continue
		}

		docs = append(docs, source)
	}

	return docs, nil
}
