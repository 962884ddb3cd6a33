package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"muebles_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const productIndex = "products"

// Elastic indexa y busca productos. Es opcional: si el cliente es nil
// los llamadores caen al filtrado sobre el record store.
type Elastic struct {
	client *elasticsearch.Client
}

func NewElastic(client *elasticsearch.Client) *Elastic {
	return &Elastic{client: client}
}

func (e *Elastic) Enabled() bool {
	return e != nil && e.client != nil
}

// IndexProduct indexa (o re-indexa) un producto. Best-effort: el catálogo
// en Scylla es la fuente de verdad, acá sólo se loguea la falla.
func (e *Elastic) IndexProduct(ctx context.Context, p models.Product) {
	if !e.Enabled() {
		return
	}

	data, _ := json.Marshal(p)
	req := esapi.IndexRequest{
		Index:      productIndex,
		DocumentID: p.ID.String(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		log.Println("❌ Error enviando a Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic devolvió error para %s: %s", p.Name, res.String())
	} else {
		log.Printf("✅ Producto indexado en Elasticsearch: %s", p.Name)
	}
}

// Search busca por nombre, descripción o tags con multi_match
func (e *Elastic) Search(ctx context.Context, query string) ([]models.Product, error) {
	if !e.Enabled() {
		return nil, errors.New("cliente Elasticsearch no inicializado")
	}

	var buf bytes.Buffer
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name", "description", "tags"},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("error codificando consulta: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{productIndex},
		Body:  &buf,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("error consultando Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New("índice no encontrado o vacío")
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("error decodificando respuesta: %v", err)
	}

	products := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}
