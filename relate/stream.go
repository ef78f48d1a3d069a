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

	"github.com/sage-x-project/entitykit/pkg/query"
	"github.com/sage-x-project/entitykit/readctx"
)

// Stream wraps a root publisher's (once, continuous) QueryResult pair (as
// produced by a corekit.Manager read) with a traversal, yielding the
// (once, continuous) Graph pair described by spec.md §4.2: once delivers
// exactly the first fully assembled graph and completes; continuous
// re-traverses whenever the root publisher emits and delivers a new graph
// only when it differs from the last one sent.
func (c *Controller) Stream(ctx context.Context, rootsOnce, rootsContinuous <-chan query.QueryResult, rc *readctx.ReadContext, plan Plan) (<-chan *Graph, <-chan *Graph, error) {
	var lastRoots query.QueryResult
	for v := range rootsOnce {
		lastRoots = v
	}

	first, err := c.Traverse(ctx, lastRoots.Result.Flatten(), rc, plan)
	if err != nil {
		return nil, nil, err
	}

	once := make(chan *Graph, 1)
	once <- first
	close(once)

	continuous := make(chan *Graph, 1)
	continuous <- first

	go func() {
		defer close(continuous)
		last := first
		for roots := range rootsContinuous {
			g, err := c.Traverse(ctx, roots.Result.Flatten(), rc, plan)
			if err != nil {
				continue
			}
			if last != nil && g.Equal(last) {
				continue
			}
			last = g
			select {
			case continuous <- g:
			case <-ctx.Done():
				return
			}
		}
	}()

	return once, continuous, nil
}
