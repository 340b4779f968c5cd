package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/flightrouter/pareto/config"
	"github.com/flightrouter/pareto/graphcache"
	"github.com/flightrouter/pareto/pkg/logger"
	"github.com/flightrouter/pareto/provider"
	"github.com/flightrouter/pareto/revalidate"
	"github.com/flightrouter/pareto/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LoggerConfig())

	ctx := context.Background()
	flightProvider, err := provider.NewPostgresProvider(ctx, provider.PostgresConfig{
		Host:     cfg.PostgresConfig.Host,
		Port:     cfg.PostgresConfig.Port,
		User:     cfg.PostgresConfig.User,
		Password: cfg.PostgresConfig.Password,
		DBName:   cfg.PostgresConfig.DBName,
		SSLMode:  cfg.PostgresConfig.SSLMode,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer flightProvider.Close()

	graphCache := graphcache.New(flightProvider, cfg.CacheConfig, nil)
	defer graphCache.Shutdown()

	orchestrator := router.NewOrchestrator(graphCache, cfg.BaseWeek, cfg.ExpandOutsideBaseWeek)

	offerClient := revalidate.NewOfferAPIClient(revalidate.ClientConfig{
		BaseURL:        cfg.OfferAPIConfig.BaseURL,
		BearerToken:    cfg.OfferAPIConfig.BearerToken,
		APIVersion:     cfg.OfferAPIConfig.APIVersion,
		RequestTimeout: cfg.OfferAPIConfig.RequestTimeout,
		MaxRetries:     cfg.OfferAPIConfig.MaxRetries,
		BackoffMin:     cfg.OfferAPIConfig.BackoffMin,
		BackoffMax:     cfg.OfferAPIConfig.BackoffMax,
	})
	revalidator := revalidate.NewRevalidator(offerClient, cfg.RevalidatorConfig, nil)

	s := server.NewMCPServer(
		"pareto-flight-router-mcp",
		"1.0.0",
		server.WithLogging(),
	)

	searchRoutesTool := mcp.NewTool("search_routes",
		mcp.WithDescription("Find every Pareto-optimal multi-city itinerary from an origin visiting a set of required cities within a time window, ranked by total cost"),
		mcp.WithString("origin", mcp.Required(), mcp.Description("Origin airport code (e.g., JFK, LHR)")),
		mcp.WithString("required_cities", mcp.Description("Comma-separated airport codes that must all appear in the itinerary")),
		mcp.WithNumber("t_min", mcp.Description("Earliest departure, minutes since the graph's epoch. Defaults to 0.")),
		mcp.WithNumber("t_max", mcp.Required(), mcp.Description("Latest arrival, minutes since the graph's epoch")),
		mcp.WithNumber("max_stops", mcp.Description("Maximum number of stops across the whole itinerary")),
		mcp.WithNumber("max_price", mcp.Description("Maximum total price across the whole itinerary")),
		mcp.WithNumber("reachability_hops", mcp.Description("Override the default reachability-pruning hop count (K)")),
	)

	s.AddTool(searchRoutesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		origin, _ := argsMap["origin"].(string)
		requiredStr, _ := argsMap["required_cities"].(string)

		tMin, _ := argsMap["t_min"].(float64)
		tMax, _ := argsMap["t_max"].(float64)

		var maxStops *int
		if v, ok := argsMap["max_stops"].(float64); ok {
			n := int(v)
			maxStops = &n
		}
		var maxPrice *float64
		if v, ok := argsMap["max_price"].(float64); ok {
			maxPrice = &v
		}
		reachabilityHops := 0
		if v, ok := argsMap["reachability_hops"].(float64); ok {
			reachabilityHops = int(v)
		}

		var required []string
		for _, city := range strings.Split(requiredStr, ",") {
			city = strings.TrimSpace(city)
			if city != "" {
				required = append(required, city)
			}
		}

		results, err := orchestrator.Search(ctx, router.Constraints{
			Origin:           origin,
			Required:         required,
			TMin:             int64(tMin),
			TMax:             int64(tMax),
			MaxStops:         maxStops,
			MaxPrice:         maxPrice,
			ReachabilityHops: reachabilityHops,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		jsonBytes, err := json.MarshalIndent(map[string]any{
			"results": results,
			"count":   len(results),
		}, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error marshaling response: %v", err)), nil
		}

		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	listAirportsTool := mcp.NewTool("list_airports",
		mcp.WithDescription("List every airport code present in the currently cached flight graph"),
	)

	s.AddTool(listAirportsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		graph, err := graphCache.GetGraph(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error loading graph: %v", err)), nil
		}

		set := graph.AirportSet()
		airports := make([]string, 0, len(set))
		for code := range set {
			airports = append(airports, code)
		}

		jsonBytes, err := json.MarshalIndent(map[string]any{
			"airports": airports,
			"count":    len(airports),
		}, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error marshaling response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	validateRouteTool := mcp.NewTool("validate_route",
		mcp.WithDescription("Reconcile a previously found itinerary's segments against the live offer API and report whether it is still bookable at a comparable price"),
		mcp.WithString("segments_json", mcp.Required(), mcp.Description(`JSON array of segments to validate, each shaped {"origin":"JFK","destination":"LHR","carrier_code":"AA","dep_time":0,"price":450}`)),
	)

	s.AddTool(validateRouteTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		segmentsJSON, _ := argsMap["segments_json"].(string)
		var wire []struct {
			Origin      string  `json:"origin"`
			Destination string  `json:"destination"`
			CarrierCode string  `json:"carrier_code"`
			DepTime     int64   `json:"dep_time"`
			Price       float64 `json:"price"`
		}
		if err := json.Unmarshal([]byte(segmentsJSON), &wire); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid segments_json: %v", err)), nil
		}
		if len(wire) == 0 {
			return mcp.NewToolResultError("segments_json must contain at least one segment"), nil
		}

		segments := make([]revalidate.CachedSegment, len(wire))
		for i, w := range wire {
			depAt := cfg.EpochDate.Add(time.Duration(w.DepTime) * time.Minute)
			segments[i] = revalidate.CachedSegment{
				Origin:      w.Origin,
				Destination: w.Destination,
				CarrierCode: w.CarrierCode,
				DepHour:     depAt.Hour(),
				CachedPrice: w.Price,
				Date:        depAt,
			}
		}

		result := revalidator.ValidateRoute(ctx, segments)

		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error marshaling response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
