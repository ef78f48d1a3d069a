// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package relate

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
	"github.com/sage-x-project/entitykit/readctx"
)

// Getter is the narrow read capability the controller needs from a
// corekit.Manager[E] — satisfied by any Manager[E] without modification,
// since its Get signature already traffics in the type-erased
// query.QueryResult/entity.AnyEntity values.
type Getter interface {
	Get(ctx context.Context, ids []entity.Identifier, extras entity.ExtraSet, rc *readctx.ReadContext) (<-chan query.QueryResult, <-chan query.QueryResult, error)
}

// Controller is the Relationship Controller. It is registered with one
// Getter per entity type it may need to fetch while traversing relationship
// fields; entity types never referenced by any relationship need not be
// registered.
type Controller struct {
	mu       sync.RWMutex
	managers map[entity.EntityType]Getter
	metrics  Metrics
}

// ControllerOption configures optional Controller behavior.
type ControllerOption func(*Controller)

// WithControllerMetrics overrides the Controller's Metrics, used to report
// in-flight batch counts during traversal.
func WithControllerMetrics(mt Metrics) ControllerOption {
	return func(c *Controller) { c.metrics = mt }
}

// NewController returns a Controller with no registered managers.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{managers: make(map[entity.EntityType]Getter), metrics: noopMetrics{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register associates a Getter with an entity type, used as the default
// coreManager.get(byIds:) fetch for relationship fields that target it.
func (c *Controller) Register(t entity.EntityType, g Getter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.managers[t] = g
}

func (c *Controller) getterFor(t entity.EntityType) (Getter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.managers[t]
	return g, ok
}

// frontierItem is one entity discovered at some depth of the traversal,
// tagged with the path that reached it so the next level can compute its
// own relationship fields' full path and recursion budget.
type frontierItem struct {
	entity entity.AnyEntity
	path   Path
}

// group is one (path, targetType) batch of ids to resolve at a traversal
// level, coalesced across however many source entities referenced them,
// per spec.md §4.2's "Batching" rule.
type group struct {
	path    Path
	target  entity.EntityType
	ids     []entity.Identifier
	fetcher Fetcher
}

// Traverse runs the algorithm of spec.md §4.2: insert roots, compute the
// relationship frontier, batch-fetch each (path, targetType) group one
// level at a time (in parallel within a level, serialized across levels),
// merge results into the graph by identifier, and stop when recursion is
// exhausted or no new entities are found.
func (c *Controller) Traverse(ctx context.Context, roots []entity.AnyEntity, rc *readctx.ReadContext, plan Plan) (*Graph, error) {
	g := newGraph()
	g.setRoots(roots)

	frontier := make([]frontierItem, 0, len(roots))
	for _, r := range roots {
		g.insert(r)
		frontier = append(frontier, frontierItem{entity: r, path: Path{}})
	}

	for {
		groups := computeFrontier(frontier, plan)
		if len(groups) == 0 {
			break
		}

		next, err := c.fetchLevel(ctx, g, groups, rc)
		if err != nil {
			return nil, err
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	return g, nil
}

// computeFrontier groups, by (path, targetType), every non-excluded
// relationship target referenced by frontier's entities, respecting each
// source's recursion budget (RecursiveDepth(n) permits a hop at depth d,
// the length of the path that reached the source, only while d < n); a hop
// whose own path was passed to Plan.Including is taken regardless of that
// budget. Within one call, the same target id referenced by more than one source
// at this level is coalesced into a single entry (spec.md §4.2
// "Batching"); cycle termination itself is handled by the caller only
// advancing the frontier with entities fetchLevel reports as newly
// inserted (step 6's "never enqueue a pair already present in the graph"
// — a re-fetch of an already-present node produces no new frontier item).
func computeFrontier(frontier []frontierItem, plan Plan) []group {
	byKey := make(map[string]*group)
	seen := make(map[string]bool)
	for _, item := range frontier {
		depth := len(item.path)
		permitted := plan.recursiveFor(item.path).permits(depth)
		for _, ref := range item.entity.Entity.Relationships() {
			path := item.path.Append(Step{EntityType: item.entity.Type, Field: ref.Field})
			if plan.isExcluded(path) {
				continue
			}
			if !permitted && !plan.included[path.key()] {
				continue
			}

			gk := path.key() + "|" + string(ref.TargetType)

			var fresh []entity.Identifier
			for _, id := range ref.Targets {
				dedupeKey := gk + "#" + nodeKey(ref.TargetType, id)
				if seen[dedupeKey] {
					continue
				}
				seen[dedupeKey] = true
				fresh = append(fresh, id)
			}
			if len(fresh) == 0 {
				continue
			}

			grp, ok := byKey[gk]
			if !ok {
				fn, _ := plan.fetcherFor(path)
				grp = &group{path: path, target: ref.TargetType, fetcher: fn}
				byKey[gk] = grp
			}
			grp.ids = append(grp.ids, fresh...)
		}
	}

	out := make([]group, 0, len(byKey))
	for _, grp := range byKey {
		out = append(out, *grp)
	}
	return out
}

// fetchLevel resolves every group concurrently (batches at one level
// dispatch in parallel; the next level starts only after all of this
// level's inserts complete, per spec.md §5's ordering guarantee) and
// returns the newly inserted entities, tagged with the path that reached
// them.
func (c *Controller) fetchLevel(ctx context.Context, g *Graph, groups []group, rc *readctx.ReadContext) ([]frontierItem, error) {
	var mu sync.Mutex
	var next []frontierItem

	eg, egCtx := errgroup.WithContext(ctx)
	for _, grp := range groups {
		grp := grp
		eg.Go(func() error {
			c.metrics.BatchStarted(grp.path.key(), string(grp.target))
			defer c.metrics.BatchFinished(grp.path.key(), string(grp.target))

			entities, remote, err := c.resolveGroup(egCtx, g, grp, rc)
			if err != nil {
				return err
			}
			if remote {
				g.markRemote()
			}
			for _, e := range entities {
				if !g.insert(e) {
					continue
				}
				mu.Lock()
				next = append(next, frontierItem{entity: e, path: grp.path})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}

// resolveGroup fetches one (path, targetType) group's ids through its
// registered Fetcher, if any, otherwise through the default registered
// Getter, per spec.md §4.2 step 3.
func (c *Controller) resolveGroup(ctx context.Context, g *Graph, grp group, rc *readctx.ReadContext) ([]entity.AnyEntity, bool, error) {
	childRC := rc.ForPath(grp.path.Fields())

	if grp.fetcher != nil {
		res, err := grp.fetcher(ctx, g, grp.path, grp.ids, childRC)
		if err != nil {
			return nil, false, err
		}
		switch res.Kind {
		case FetchNone:
			return nil, false, nil
		case FetchCustom:
			return nil, childRC.AnyRemote(), nil
		case FetchFiltered:
			grp = group{path: grp.path, target: grp.target, ids: res.IDs}
			if res.Context != nil {
				childRC = res.Context
			}
		}
	}

	getter, ok := c.getterFor(grp.target)
	if !ok {
		return nil, false, nil
	}

	once, _, err := getter.Get(ctx, grp.ids, entity.NoExtras, childRC)
	if err != nil {
		return nil, false, err
	}

	var last query.QueryResult
	for v := range once {
		last = v
	}

	entities := last.Result.Flatten()
	if childRC.Contract != nil {
		q := query.ByIDs(grp.ids...)
		filtered := entities[:0:0]
		for _, e := range entities {
			if childRC.Contract.Validate(e, q) {
				filtered = append(filtered, e)
			}
		}
		entities = filtered
	}

	return entities, childRC.AnyRemote(), nil
}
