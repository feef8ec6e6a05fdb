package mcp

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BangRocket/mypalclara/internal/log"
	"github.com/BangRocket/mypalclara/internal/tools"
)

// ErrToolNotFound is returned by Lookup for names missing from the catalog.
var ErrToolNotFound = errors.New("tool not found")

// Handler is the shape every tool implementation conforms to: typed input
// in, one formatted text block out.
type Handler[In any] func(ctx context.Context, in In) (string, error)

// Descriptor is one catalog entry. The install closure carries the typed
// handler so the registry itself stays free of type parameters.
type Descriptor struct {
	Tool  *mcp.Tool
	Group string

	install func(*mcp.Server)
}

// Registry is the insertion-ordered tool catalog. It is assembled once
// during NewServer and never mutated afterwards.
type Registry struct {
	logger log.Logger
	tracer trace.Tracer
	order  []*Descriptor
	byName map[string]*Descriptor
}

// NewRegistry creates an empty catalog whose dispatch observer logs through
// logger and records spans on the globally installed tracer provider.
func NewRegistry(logger log.Logger) *Registry {
	return &Registry{
		logger: logger,
		tracer: otel.Tracer("github.com/BangRocket/mypalclara/internal/mcp"),
		byName: make(map[string]*Descriptor),
	}
}

// Register adds one tool to the catalog. The input schema is inferred from
// the In type parameter. Unnamed and duplicate tools are rejected.
func Register[In any](r *Registry, group string, tool *mcp.Tool, handler Handler[In]) error {
	if tool.Name == "" {
		return errors.New("tool name is required")
	}
	if _, exists := r.byName[tool.Name]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name)
	}

	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tool.Name, err)
	}
	tool.InputSchema = schema

	wrapped := dispatch(r, tool.Name, handler)
	d := &Descriptor{
		Tool:  tool,
		Group: group,
		install: func(s *mcp.Server) {
			mcp.AddTool(s, tool, wrapped)
		},
	}
	r.order = append(r.order, d)
	r.byName[tool.Name] = d
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return d, nil
}

// List returns the descriptors in registration order.
func (r *Registry) List() []*Descriptor {
	return slices.Clone(r.order)
}

// Install adds every registered tool to the SDK server.
func (r *Registry) Install(s *mcp.Server) {
	for _, d := range r.order {
		d.install(s)
	}
}

// dispatch wraps a handler with the per-call observer: a fresh request id,
// a span, one structured log line, and conversion to the protocol result
// shape. Domain failures become IsError results; the Go error path stays
// reserved for the SDK's own protocol faults.
func dispatch[In any](r *Registry, name string, handler Handler[In]) mcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		requestID := uuid.NewString()
		ctx, span := r.tracer.Start(ctx, "tool."+name, trace.WithAttributes(
			attribute.String("tool.name", name),
			attribute.String("tool.request_id", requestID),
		))
		defer span.End()

		start := time.Now()
		out, err := handler(ctx, in)
		elapsed := time.Since(start)

		if err != nil {
			kind := errorKind(err)
			span.SetAttributes(attribute.String("tool.error_kind", kind))
			span.SetStatus(codes.Error, err.Error())
			r.logger.Warn("tool call failed",
				"tool", name,
				"request_id", requestID,
				"duration", elapsed,
				"error_kind", kind,
				"error", err.Error(),
			)
			return errorResult(err.Error()), nil, nil
		}

		span.SetStatus(codes.Ok, "")
		r.logger.Info("tool call completed",
			"tool", name,
			"request_id", requestID,
			"duration", elapsed,
		)
		return textResult(out), nil, nil
	}
}

// errorKind names the tools error kind for logs and spans. Errors raised
// outside the tools package report as "unknown".
func errorKind(err error) string {
	if kind, ok := tools.KindOf(err); ok {
		return string(kind)
	}
	return "unknown"
}
