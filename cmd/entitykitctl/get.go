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
	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/readctx"
)

var getRemote bool

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a contact by local id",
	Args:  cobra.ExactArgs(1),
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

		ds := readctx.Local()
		if getRemote {
			ds = readctx.Remote(true, false)
		}
		rc := readctx.New(ds, readctx.DoNotPersist())

		id := entity.Identifier{Kind: entity.KindLocal, Local: args[0]}
		once, _, err := mgr.Get(ctx, []entity.Identifier{id}, entity.NoExtras, rc)
		if err != nil {
			return fmt.Errorf("get: %w", err)
		}

		found := false
		for res := range once {
			for _, e := range res.Result.Flatten() {
				c, ok := e.Entity.(*testentity.Contact)
				if !ok {
					continue
				}
				found = true
				fmt.Printf("%s\t%s\n", c.ID(), c.Name)
			}
		}
		if !found {
			fmt.Printf("no contact found with id %q\n", args[0])
		}
		return nil
	},
}

func init() {
	getCmd.Flags().BoolVar(&getRemote, "remote", false, "read from the remote store first, falling back to the local store (orLocal)")
	rootCmd.AddCommand(getCmd)
}
