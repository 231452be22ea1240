// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes raido recommendation tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/recommend"
)

// Server wraps the MCP server with raido tools.
type Server struct {
	mcp *server.MCPServer
	svc *recommend.Service
}

// New creates a new MCP server with all raido tools registered.
func New(svc *recommend.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("recommend_recipes",
		mcp.WithDescription("Rank unseen recipes matching a user's taste profile. "+
			"Axes combine with logical AND; see the raido://graph-schema resource."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User identifier")),
		mcp.WithString("axes", mcp.Description("Comma-separated axes: ingredients, tags, nutrition (default ingredients,tags)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of recommendations (default 20)")),
	), s.recommendRecipes)

	s.mcp.AddTool(mcp.NewTool("taste_profile",
		mcp.WithDescription("Return a user's inferred favorite ingredients, top tags and nutrient ranges."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User identifier")),
	), s.tasteProfile)

	s.mcp.AddTool(mcp.NewTool("connectivity_estimate",
		mcp.WithDescription("Estimate the two-hop candidate pool for collaborative filtering feasibility."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User identifier")),
	), s.connectivityEstimate)

	s.mcp.AddTool(mcp.NewTool("search_recipes",
		mcp.WithDescription("Search recipes by name."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchRecipes)

	s.mcp.AddTool(mcp.NewTool("random_user",
		mcp.WithDescription("Pick a random user with at least min_reviews reviews, for demos and smoke checks."),
		mcp.WithNumber("min_reviews", mcp.Description("Minimum review count (default 0)")),
	), s.randomUser)

	// Resource: graph schema contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://graph-schema", "Graph Schema",
			mcp.WithResourceDescription("Property graph schema and recommendation semantics."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGraphSchemaResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) recommendRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	axesRaw := ""
	if v, err := req.RequireString("axes"); err == nil {
		axesRaw = v
	}
	axes, err := recommend.ParseAxes(axesRaw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 0)

	ranked, err := s.svc.Recommend(ctx, userID, recommend.Options{
		Axes:       axes,
		Limit:      limit,
		Percentile: -1,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("user not found: %s", userID)), nil
		case errors.Is(err, apperr.ErrEmptyProfile):
			return mcp.NewToolResultError("user has no positive interactions to profile"), nil
		default:
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if len(ranked) == 0 {
		return mcp.NewToolResultText("no qualifying recipes"), nil
	}
	out, _ := json.MarshalIndent(ranked, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) tasteProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	profile, err := s.svc.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("user not found: %s", userID)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(profile, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) connectivityEstimate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	est, err := s.svc.Connectivity(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("user not found: %s", userID)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(est, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.SearchRecipes(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText("no matching recipes"), nil
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) randomUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minReviews := req.GetInt("min_reviews", 0)
	id, reviews, err := s.svc.RandomUser(ctx, minReviews)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError("no user with enough reviews"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s (%d reviews)", id, reviews)), nil
}

func (s *Server) readGraphSchemaResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://graph-schema",
			MIMEType: "text/markdown",
			Text:     GraphSchemaContract,
		},
	}, nil
}
