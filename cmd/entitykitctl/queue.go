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
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect the contact type's write-retry queue",
}

var queueStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the scheduler's current state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, sched, err := buildContactManager(ctx, cfg)
		if err != nil {
			return err
		}

		fmt.Printf("state: %s\n", sched.State())
		fmt.Printf("base backoff: %s\n", cfg.Scheduler.BaseBackoff)
		fmt.Printf("max backoff:  %s\n", cfg.Scheduler.MaxBackoff)
		return nil
	},
}

func init() {
	queueCmd.AddCommand(queueStatusCmd)
	rootCmd.AddCommand(queueCmd)
}
