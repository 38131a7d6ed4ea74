package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MadAppGang/sourcemap/internal/logging"
	"github.com/MadAppGang/sourcemap/pkg/builder"
	"github.com/MadAppGang/sourcemap/pkg/sourcemap"
	"go.lsp.dev/jsonrpc2"
)

// service implements the three RPC methods this server exposes, each a
// thin value-copying wrapper over the public sourcemap/builder API — no
// new semantics live here.
type service struct {
	logger logging.Logger
}

func newService(logger logging.Logger) *service {
	return &service{logger: logger}
}

type decodeParams struct {
	Mappings string `json:"mappings"`
}

type decodeResult struct {
	Sources []string `json:"sources"`
	Names   []string `json:"names"`
	Tokens  int      `json:"tokenCount"`
}

type lookupParams struct {
	Mappings string `json:"mappings"`
	Line     uint32 `json:"line"`
	Column   uint32 `json:"column"`
}

type lookupResult struct {
	Found  bool   `json:"found"`
	Source string `json:"source,omitempty"`
	Line   uint32 `json:"line,omitempty"`
	Column uint32 `json:"column,omitempty"`
	Name   string `json:"name,omitempty"`
}

type concatContribution struct {
	Mappings   string `json:"mappings"`
	LineOffset uint32 `json:"lineOffset"`
}

type concatParams struct {
	Contributions []concatContribution `json:"contributions"`
}

type concatResult struct {
	Mappings string `json:"mappings"`
}

func (s *service) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case "sourcemap/decode":
		return s.decode(ctx, reply, req)
	case "sourcemap/lookup":
		return s.lookup(ctx, reply, req)
	case "sourcemap/concat":
		return s.concat(ctx, reply, req)
	default:
		return reply(ctx, nil, fmt.Errorf("unknown method %q", req.Method()))
	}
}

func (s *service) decode(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var p decodeParams
	if err := json.Unmarshal(req.Params(), &p); err != nil {
		return reply(ctx, nil, err)
	}
	sm, err := sourcemap.Decode([]byte(p.Mappings))
	if err != nil {
		return reply(ctx, nil, err)
	}

	sources := make([]string, sm.LenSources())
	for i := range sources {
		sources[i] = sm.Source(uint32(i))
	}
	names := make([]string, sm.LenNames())
	for i := range names {
		names[i] = sm.Name(uint32(i))
	}

	return reply(ctx, decodeResult{Sources: sources, Names: names, Tokens: sm.LenTokens()}, nil)
}

func (s *service) lookup(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var p lookupParams
	if err := json.Unmarshal(req.Params(), &p); err != nil {
		return reply(ctx, nil, err)
	}
	sm, err := sourcemap.Decode([]byte(p.Mappings))
	if err != nil {
		return reply(ctx, nil, err)
	}

	tok, ok := sm.LookupToken(p.Line, p.Column)
	if !ok {
		return reply(ctx, lookupResult{Found: false}, nil)
	}
	view, ok := sm.LookupSourceView(tok)
	if !ok {
		return reply(ctx, lookupResult{Found: false}, nil)
	}

	result := lookupResult{Found: true, Source: view.Source, Line: view.Line, Column: view.Column}
	if view.HasName {
		result.Name = view.Name
	}
	return reply(ctx, result, nil)
}

func (s *service) concat(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var p concatParams
	if err := json.Unmarshal(req.Params(), &p); err != nil {
		return reply(ctx, nil, err)
	}

	c := builder.NewConcatBuilder()
	for _, contrib := range p.Contributions {
		sm, err := sourcemap.Decode([]byte(contrib.Mappings))
		if err != nil {
			return reply(ctx, nil, err)
		}
		c.Add(sm, contrib.LineOffset)
	}

	out := sourcemap.Encode(c.IntoSourceMap())
	return reply(ctx, concatResult{Mappings: string(out)}, nil)
}
