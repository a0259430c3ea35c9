package correlate

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

// GraphStore persists fault codes and their cross-brand equivalence edges
// in Neo4j. The graph is the curated source of correlations beyond the
// related-code lists carried inside the corpus itself.
type GraphStore struct {
	driver neo4j.DriverWithContext
}

// NewGraphStore creates a GraphStore on an existing driver.
func NewGraphStore(driver neo4j.DriverWithContext) *GraphStore {
	return &GraphStore{driver: driver}
}

// SaveFault creates or updates a fault node keyed by (brand, code).
func (g *GraphStore) SaveFault(ctx context.Context, r domain.FaultCodeRecord) error {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MERGE (n:FaultCode {key: $key})
			   SET n.code = $code, n.brand = $brand, n.title = $title, n.category = $category`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"key":      r.Key(),
		"code":     domain.NormalizeCode(r.Code),
		"brand":    r.Brand,
		"title":    r.Title,
		"category": r.Category,
	})
	return err
}

// SaveCorrelation creates or updates a CORRELATES_WITH edge from a code to
// a cross-brand equivalent. Both nodes must already exist.
func (g *GraphStore) SaveCorrelation(ctx context.Context, fromKey, toKey string, similarity int) error {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MATCH (a:FaultCode {key: $from}), (b:FaultCode {key: $to})
			   MERGE (a)-[r:CORRELATES_WITH]->(b)
			   SET r.similarity = $similarity`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"from":       fromKey,
		"to":         toKey,
		"similarity": similarity,
	})
	return err
}

// SaveBatch writes nodes and edges in one transaction, used when publishing
// a corpus version.
func (g *GraphStore) SaveBatch(ctx context.Context, records []domain.FaultCodeRecord, edges map[string]map[string]int) error {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, r := range records {
			cypher := `MERGE (n:FaultCode {key: $key})
					   SET n.code = $code, n.brand = $brand, n.title = $title, n.category = $category`
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"key":      r.Key(),
				"code":     domain.NormalizeCode(r.Code),
				"brand":    r.Brand,
				"title":    r.Title,
				"category": r.Category,
			}); err != nil {
				return nil, err
			}
		}
		for from, tos := range edges {
			for to, sim := range tos {
				cypher := `MATCH (a:FaultCode {key: $from}), (b:FaultCode {key: $to})
						   MERGE (a)-[r:CORRELATES_WITH]->(b)
						   SET r.similarity = $similarity`
				if _, err := tx.Run(ctx, cypher, map[string]any{
					"from": from, "to": to, "similarity": sim,
				}); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	})
	return err
}

// LoadAll reads every correlation edge, keyed by the source code, for
// merging into a corpus-derived index via BuildIndex.
func (g *GraphStore) LoadAll(ctx context.Context) (map[string][]Entry, error) {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MATCH (a:FaultCode)-[r:CORRELATES_WITH]->(b:FaultCode)
			   RETURN a.code AS from, b AS to, r.similarity AS similarity`
	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]Entry)
	for result.Next(ctx) {
		rec := result.Record()
		fromVal, ok := rec.Get("from")
		if !ok {
			continue
		}
		from, _ := fromVal.(string)
		node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "to")
		if err != nil {
			return nil, fmt.Errorf("correlate: decode graph node: %w", err)
		}
		simVal, _ := rec.Get("similarity")
		sim, _ := simVal.(int64)
		out[from] = append(out[from], Entry{
			Brand:       strProp(node.Props, "brand"),
			Code:        strProp(node.Props, "code"),
			Similarity:  int(sim),
			Description: strProp(node.Props, "title"),
		})
	}
	return out, result.Err()
}

// CorrelationCounts reports the number of fault nodes and correlation edges
// in the graph.
func (g *GraphStore) CorrelationCounts(ctx context.Context) (nodes, edges int64, err error) {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MATCH (n:FaultCode)
			   OPTIONAL MATCH (:FaultCode)-[r:CORRELATES_WITH]->(:FaultCode)
			   RETURN count(DISTINCT n) AS nodes, count(DISTINCT r) AS edges`
	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return 0, 0, err
	}
	rec, err := result.Single(ctx)
	if err != nil {
		return 0, 0, err
	}
	if v, ok := rec.Get("nodes"); ok {
		nodes, _ = v.(int64)
	}
	if v, ok := rec.Get("edges"); ok {
		edges, _ = v.(int64)
	}
	return nodes, edges, nil
}

func strProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}
