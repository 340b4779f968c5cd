// Package graphexport mirrors the cached flight graph into Neo4j as a data
// source for an external graph-visualization layer.
package graphexport

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/flightrouter/pareto/graphcache"
)

// Config carries the Neo4j connection fields.
type Config struct {
	URI      string
	User     string
	Password string
}

// Exporter writes a CachedFlightGraph's airports and direct routes into
// Neo4j as Airport nodes and ROUTE relationships.
type Exporter struct {
	driver neo4j.DriverWithContext
}

// NewExporter connects to Neo4j and verifies connectivity.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("connect to neo4j: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	return &Exporter{driver: driver}, nil
}

// Close releases the underlying driver.
func (e *Exporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

// InitSchema creates the uniqueness constraint on airport codes. There is
// no separate airline node type in this domain, so only one constraint is
// needed.
func (e *Exporter) InitSchema(ctx context.Context) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		"CREATE CONSTRAINT airport_code IF NOT EXISTS FOR (a:Airport) REQUIRE a.code IS UNIQUE",
		nil,
	)
	if err != nil {
		return fmt.Errorf("create airport code constraint: %w", err)
	}
	return nil
}

// ExportGraph upserts every airport and direct route of g. Routes carry no
// per-flight detail (carrier, price) at the graph layer — the graph only
// knows connectivity — so ROUTE relationships are unweighted edges; a
// richer export could attach average price/duration by joining g.Table,
// left for a future visualization iteration.
func (e *Exporter) ExportGraph(ctx context.Context, g *graphcache.CachedFlightGraph) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for code := range g.Airports {
		if err := e.createAirport(ctx, session, code); err != nil {
			return err
		}
	}
	for pair := range g.Direct {
		if err := e.createRoute(ctx, session, pair.Origin, pair.Destination); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) createAirport(ctx context.Context, session neo4j.SessionWithContext, code string) error {
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			"MERGE (a:Airport {code: $code})",
			map[string]any{"code": code},
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("upsert airport %s: %w", code, err)
	}
	return nil
}

func (e *Exporter) createRoute(ctx context.Context, session neo4j.SessionWithContext, origin, dest string) error {
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			"MATCH (o:Airport {code: $origin}), (d:Airport {code: $dest}) "+
				"MERGE (o)-[:ROUTE]->(d)",
			map[string]any{"origin": origin, "dest": dest},
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("upsert route %s->%s: %w", origin, dest, err)
	}
	return nil
}
