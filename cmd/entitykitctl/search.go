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

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/entitykit/internal/testentity"
	"github.com/sage-x-project/entitykit/pkg/query"
	"github.com/sage-x-project/entitykit/readctx"
)

var searchName string
var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search contacts by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		mgr, _, err := buildContactManager(ctx, cfg)
		if err != nil {
			return err
		}

		q := query.New()
		if searchName != "" {
			q = q.WithFilter(query.Matches("name", searchName))
		}
		if searchLimit > 0 {
			q = q.WithPagination(query.Pagination{Limit: searchLimit})
		}
		q = q.WithSort(query.ByField("name", query.Ascending))

		rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
		once, _, err := mgr.Search(ctx, q, rc)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}

		count := 0
		for res := range once {
			for _, e := range res.Result.Flatten() {
				c, ok := e.Entity.(*testentity.Contact)
				if !ok {
					continue
				}
				count++
				fmt.Printf("%s\t%s\n", c.ID(), c.Name)
			}
		}
		if count == 0 {
			fmt.Println("no contacts matched")
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchName, "name", "", "substring (regular expression) to match against the contact name")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum number of results (0 = unbounded)")
	rootCmd.AddCommand(searchCmd)
}
