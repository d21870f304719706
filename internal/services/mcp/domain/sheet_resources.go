package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/voidsheet/internal/services/sheet/storage"
)

const sheetURIPrefix = "sheet://"

// ProjectionReader is the read side of the projection store.
type ProjectionReader interface {
	GetProjection(ctx context.Context, actorID string) (storage.Projection, error)
	ListProjections(ctx context.Context) ([]storage.Projection, error)
}

// ProjectionListEntry summarises one stored projection.
type ProjectionListEntry struct {
	ActorID      string `json:"actor_id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	RulesVersion string `json:"rules_version"`
	Fingerprint  string `json:"fingerprint"`
	UpdatedAt    string `json:"updated_at"`
}

// ProjectionListPayload is the sheet://projections resource body.
type ProjectionListPayload struct {
	Projections []ProjectionListEntry `json:"projections"`
}

// ProjectionPayload is the sheet://{actor_id} resource body.
type ProjectionPayload struct {
	ProjectionListEntry
	Bindings map[string]float64 `json:"bindings"`
	Derived  json.RawMessage    `json:"derived"`
}

// ProjectionListResource defines the stored projection listing.
func ProjectionListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "sheet_projections",
		Title:       "Derived sheets",
		Description: "Readable listing of stored sheet projections",
		MIMEType:    "application/json",
		URI:         sheetURIPrefix + "projections",
	}
}

// ProjectionResourceTemplate defines one stored projection.
func ProjectionResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "sheet_projection",
		Title:       "Derived sheet",
		Description: "Stored derive result for an actor. URI format: sheet://{actor_id}",
		MIMEType:    "application/json",
		URITemplate: sheetURIPrefix + "{actor_id}",
	}
}

// ProjectionListResourceHandler lists stored projections.
func ProjectionListResourceHandler(store ProjectionReader) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if store == nil {
			return nil, fmt.Errorf("projection store is not configured")
		}
		projections, err := store.ListProjections(ctx)
		if err != nil {
			return nil, fmt.Errorf("list projections: %w", err)
		}
		payload := ProjectionListPayload{Projections: make([]ProjectionListEntry, 0, len(projections))}
		for _, p := range projections {
			payload.Projections = append(payload.Projections, projectionEntry(p))
		}
		uri := ProjectionListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		return jsonResource(uri, payload)
	}
}

// ProjectionResourceHandler reads one stored projection.
func ProjectionResourceHandler(store ProjectionReader) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if store == nil {
			return nil, fmt.Errorf("projection store is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("actor ID is required; use URI format sheet://{actor_id}")
		}
		uri := req.Params.URI
		actorID, err := parseActorIDFromURI(uri)
		if err != nil {
			return nil, fmt.Errorf("parse actor ID from URI: %w", err)
		}
		projection, err := store.GetProjection(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("get projection: %w", err)
		}
		derived := json.RawMessage(projection.Derived)
		if len(derived) == 0 {
			derived = json.RawMessage("null")
		}
		return jsonResource(uri, ProjectionPayload{
			ProjectionListEntry: projectionEntry(projection),
			Bindings:            projection.Bindings,
			Derived:             derived,
		})
	}
}

// parseActorIDFromURI extracts the actor ID from sheet://{actor_id}. Extra
// path segments, queries and fragments are rejected.
func parseActorIDFromURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, sheetURIPrefix) {
		return "", fmt.Errorf("URI must start with %q", sheetURIPrefix)
	}
	actorID := strings.TrimPrefix(uri, sheetURIPrefix)
	if strings.ContainsAny(actorID, "/?#") {
		return "", fmt.Errorf("URI must not contain path segments, query or fragment")
	}
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return "", fmt.Errorf("actor ID is required")
	}
	if actorID == "{actor_id}" {
		return "", fmt.Errorf("actor ID placeholder must be replaced")
	}
	return actorID, nil
}

func projectionEntry(p storage.Projection) ProjectionListEntry {
	updated := ""
	if !p.UpdatedAt.IsZero() {
		updated = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return ProjectionListEntry{
		ActorID:      p.ActorID,
		Name:         p.Name,
		Kind:         p.Kind,
		RulesVersion: p.RulesVersion,
		Fingerprint:  p.Fingerprint,
		UpdatedAt:    updated,
	}
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
