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

// Package readctx defines the per-call policy bundle a corekit.Manager read
// carries: which DataSource to consult, how to persist a remote result, and
// an optional Contract chain that validates entities before they reach the
// caller. A ReadContext's lifetime is one read operation, including its
// recursive relationship expansion (relate.Controller forwards a derived
// ReadContext to every fetch it issues).
package readctx

import "github.com/sage-x-project/entitykit/pkg/entity"

// DataSourceKind selects which tier(s) of a stack.Stack a read consults.
type DataSourceKind string

const (
	// SourceLocal queries memory only; partial extras are filtered out
	// with no remote fallback.
	SourceLocal DataSourceKind = "local"

	// SourceRemote queries remote first. OrLocal controls whether a
	// result failing extras-filtering falls back to the local result.
	SourceRemote DataSourceKind = "remote"

	// SourceLocalOr queries memory; if complete, stops there, otherwise
	// falls through to remote.
	SourceLocalOr DataSourceKind = "localOr"

	// SourceLocalThen emits memory's result immediately, then emits a
	// second value from remote if it differs.
	SourceLocalThen DataSourceKind = "localThen"
)

// DataSource is a resolved data-source directive, combining its Kind with
// the flags that modulate SourceRemote's behavior.
type DataSource struct {
	Kind DataSourceKind

	// OrLocal, meaningful only for SourceRemote, allows falling back to
	// the local result when the remote result fails extras-filtering.
	OrLocal bool

	// TrustRemoteFiltering, meaningful only for SourceRemote, tells the
	// manager the remote tier already applied extras filtering itself, so
	// the manager should not re-filter (and should not fall back even if
	// OrLocal is set and the result looks partial).
	TrustRemoteFiltering bool
}

// Local is the SourceLocal DataSource.
func Local() DataSource { return DataSource{Kind: SourceLocal} }

// Remote builds a SourceRemote DataSource.
func Remote(orLocal, trustRemoteFiltering bool) DataSource {
	return DataSource{Kind: SourceRemote, OrLocal: orLocal, TrustRemoteFiltering: trustRemoteFiltering}
}

// LocalOr is the SourceLocalOr DataSource, falling through to remote when
// the local result is incomplete.
func LocalOr() DataSource { return DataSource{Kind: SourceLocalOr} }

// LocalThen is the SourceLocalThen DataSource, emitting local immediately
// and remote as a follow-up.
func LocalThen() DataSource { return DataSource{Kind: SourceLocalThen} }

// RetentionPolicy controls what happens to a local entity's requested
// extras when a remote result for the same identifier arrives unrequested.
type RetentionPolicy string

const (
	RetainExtraLocalData   RetentionPolicy = "retainExtraLocalData"
	DiscardExtraLocalData  RetentionPolicy = "discardExtraLocalData"
)

// PersistenceStrategy controls whether (and how) a remote read result is
// written back into the memory store.
type PersistenceStrategy struct {
	// Persist, when false, means DoNotPersist: nothing is written back.
	Persist bool
	Policy  RetentionPolicy
}

// DoNotPersist is the PersistenceStrategy that writes nothing back.
func DoNotPersist() PersistenceStrategy { return PersistenceStrategy{} }

// Persist builds a persisting PersistenceStrategy with the given retention
// policy for extras that are unrequested in the remote result.
func Persist(policy RetentionPolicy) PersistenceStrategy {
	return PersistenceStrategy{Persist: true, Policy: policy}
}

// Source tags where a QueryResult's data actually originated, for the
// remote-response-source accumulator contracts key requests by.
type Source struct {
	// Remote is true when the value was served from the remote tier this
	// call (as opposed to memory or a cache of a prior remote response).
	Remote bool

	// RequestKey identifies the originating request configuration, for
	// callers that key contract decisions off of it (e.g. "which endpoint
	// answered this?"). Empty when not applicable.
	RequestKey string
}

// ReadContext is the per-call bundle a corekit.Manager read carries.
type ReadContext struct {
	DataSource          DataSource
	PersistenceStrategy PersistenceStrategy
	Contract            *Contract

	sources map[string]Source
}

// New builds a ReadContext with the given data source and persistence
// strategy and no contract.
func New(ds DataSource, ps PersistenceStrategy) *ReadContext {
	return &ReadContext{DataSource: ds, PersistenceStrategy: ps, sources: make(map[string]Source)}
}

// WithContract returns a copy of rc carrying the given Contract.
func (rc *ReadContext) WithContract(c *Contract) *ReadContext {
	clone := *rc
	clone.Contract = c
	clone.sources = make(map[string]Source, len(rc.sources))
	for k, v := range rc.sources {
		clone.sources[k] = v
	}
	return &clone
}

// RecordSource records which tier answered a request, for later inspection
// via Sources. Safe to call from the manager and from relate.Controller as
// it fans out sub-reads.
func (rc *ReadContext) RecordSource(requestKey string, s Source) {
	if rc.sources == nil {
		rc.sources = make(map[string]Source)
	}
	rc.sources[requestKey] = s
}

// Sources returns every recorded Source, keyed by request key.
func (rc *ReadContext) Sources() map[string]Source {
	out := make(map[string]Source, len(rc.sources))
	for k, v := range rc.sources {
		out[k] = v
	}
	return out
}

// AnyRemote reports whether any recorded source answered from remote,
// the rule relate.Controller uses to tag a Graph's IsDataRemote bit.
func (rc *ReadContext) AnyRemote() bool {
	for _, s := range rc.sources {
		if s.Remote {
			return true
		}
	}
	return false
}

// ForPath derives a child ReadContext for one relationship-traversal step,
// carrying the same DataSource and PersistenceStrategy but a sub-contract
// scoped to path (via Contract.Derive), and a fresh source accumulator.
func (rc *ReadContext) ForPath(path []entity.RelationshipField) *ReadContext {
	child := &ReadContext{
		DataSource:          rc.DataSource,
		PersistenceStrategy: rc.PersistenceStrategy,
		sources:             make(map[string]Source),
	}
	if rc.Contract != nil {
		child.Contract = rc.Contract.Derive(path)
	}
	return child
}
