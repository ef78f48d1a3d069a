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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/entitykit/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "entitykitctl",
	Short: "Operator CLI for a deployment embedding entitykit",
	Long: `entitykitctl loads an entitykit deployment's configuration and lets an
operator inspect the Stack and queue.Scheduler it describes: read a
contact by id, search contacts by name, and report the scheduler's
current retry state.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config.yaml/.json file (defaults to an in-memory store)")
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configPath if set, otherwise falls back to a
// single in-memory "contact" entity, enough to exercise every command
// without a running Postgres or Redis.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		cfg := config.DefaultConfig()
		cfg.Entities = []config.EntityConfig{{Type: "contact", Memory: true}}
		return cfg, nil
	}
	return config.LoadFromFile(configPath)
}
