// Package pipeline orchestrates the linear sequence of fallible stages
// that turn a parsed source tree into a rewritten module tree. Each stage
// consumes the previous stage's output; any failure short-circuits the
// remainder.
package pipeline

import (
	"context"

	"github.com/l3aro/modsplit/pkg/cache"
	"github.com/l3aro/modsplit/pkg/graph"
	"github.com/l3aro/modsplit/pkg/rewrite"
	"github.com/l3aro/modsplit/pkg/types"
)

// Options configures a pipeline run.
type Options struct {
	SrcRoot      string
	DstRoot      string
	TypePriority map[types.EntityKind]int

	// CacheDir, when non-empty, enables an on-disk parse cache keyed by
	// source content hash: unchanged files skip the tree-sitter walk
	// entirely on a second run.
	CacheDir      string
	CacheMaxBytes int64

	// DisableSingletonRescue skips the post-optimisation merge of
	// singleton communities into a directory-sharing sibling, leaving the
	// raw modularity-optimiser output untouched.
	DisableSingletonRescue bool
}

func (o Options) parseCache() *cache.ParseCache {
	if o.CacheDir == "" {
		return nil
	}
	maxBytes := o.CacheMaxBytes
	if maxBytes == 0 {
		maxBytes = 64 << 20
	}
	pc := cache.NewParseCache(o.CacheDir, maxBytes)
	_ = pc.Warm()
	return pc
}

// Result is the pipeline's intermediate and final state, surfaced so a
// caller doing a dry run can inspect the extracted entity set and the
// grouping/naming decisions without committing to the full rewrite.
type Result struct {
	Entities map[types.QualifiedName]types.Entity
	AdjMat   *graph.AdjMat
	Grouped  map[int][]types.Entity
	Named    map[types.QualifiedName][]types.Entity
	Files    map[string]string

	// CacheEnabled and CacheHitRate report the S1 parse cache's
	// performance for this run, when one was configured via
	// Options.CacheDir. CacheHitRate is 0 when CacheEnabled is false.
	CacheEnabled bool
	CacheHitRate float64
}

// Run executes the full pipeline against already-read source text
// ({path: source}) and returns the final emit set ({filepath: source}).
// Propagation is strict short-circuit: the first failing stage halts
// the pipeline and returns its error.
func Run(ctx context.Context, opts Options, sources map[string]string) (*Result, error) {
	pc := opts.parseCache()

	modules, err := Parse(ctx, opts.SrcRoot, sources, pc)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if pc != nil {
		res.CacheEnabled = true
		res.CacheHitRate = pc.HitRate()
		_ = pc.Flush()
	}

	modules, err = Resolve(modules)
	if err != nil {
		return nil, wrapStage("S2-resolve", err)
	}

	entities, err := ExtractEntities(modules)
	if err != nil {
		return nil, wrapStage("S3-extract", err)
	}

	entities, err = FilterNative(entities)
	if err != nil {
		return nil, wrapStage("S4-filter", err)
	}
	res.Entities = entities

	callTree := graph.BuildCallTree(entities)
	adj := graph.BuildAdjMat(callTree)
	adj = graph.CollapseExclusivePairs(adj)
	adj = graph.OptimiseCommunities(adj)
	if !opts.DisableSingletonRescue {
		adj = graph.RescueSingletons(adj)
	}
	res.AdjMat = adj

	res.Grouped = rewrite.Group(adj, entities)
	named := rewrite.InferModuleNames(res.Grouped)
	named = rewrite.RenameOverlaps(named)
	named = rewrite.RemapImports(named)
	res.Named = named

	serialised := rewrite.Serialise(named, rewrite.SerialiseOptions{TypePriority: opts.TypePriority})
	filepaths := rewrite.AssignFilepaths(serialised, opts.DstRoot)
	res.Files = rewrite.InsertPackageMarkers(filepaths)

	return res, nil
}

// Plan runs only the parse/resolve/extract/filter stages, stopping
// before any community detection or rewrite-plan assembly, and returns
// the native entity set a caller can inspect before committing to a full
// run.
func Plan(ctx context.Context, opts Options, sources map[string]string) (map[types.QualifiedName]types.Entity, error) {
	pc := opts.parseCache()

	modules, err := Parse(ctx, opts.SrcRoot, sources, pc)
	if err != nil {
		return nil, err
	}
	if pc != nil {
		_ = pc.Flush()
	}
	modules, err = Resolve(modules)
	if err != nil {
		return nil, wrapStage("S2-resolve", err)
	}
	entities, err := ExtractEntities(modules)
	if err != nil {
		return nil, wrapStage("S3-extract", err)
	}
	return FilterNative(entities)
}
