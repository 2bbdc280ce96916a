// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	flag "github.com/spf13/pflag"

	hwkeerrors "github.com/kraklabs/hwke/internal/errors"
	"github.com/kraklabs/hwke/internal/ui"
	"github.com/kraklabs/hwke/pkg/reasoning"
)

const watchDebounce = 500 * time.Millisecond

// runWatch reloads a topology file and re-runs to a fixed point whenever
// it changes on disk, printing the resulting tick summary after each
// debounced reload.
func runWatch(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	ontology := fs.String("ontology", "", "N3 implication file to reload on change")
	topology := fs.String("topology", "", "Turtle file to reload on change")
	_ = fs.Parse(args)

	if *ontology == "" && *topology == "" {
		fmt.Fprintln(os.Stderr, "usage: hwke watch [--ontology file.n3] [--topology file.ttl]")
		os.Exit(1)
	}

	a, err := openApp(configPath)
	if err != nil {
		fatal(err)
	}
	defer a.close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fatal(hwkeerrors.NewInternalError("cannot start filesystem watcher", err.Error(), "", err))
	}
	defer watcher.Close()

	reload := func() {
		loadFromFlags(a, *ontology, *topology)
		history, runErr := a.eng.RunToCompletion(a.cfg.Engine.MaxTicks)
		total := 0
		for _, h := range history {
			total += len(h.Added)
		}
		switch {
		case runErr != nil && !errors.Is(runErr, reasoning.ErrNoConvergence):
			ui.Error(os.Stdout, "reload failed: %v", runErr)
		case runErr != nil:
			ui.Warn(os.Stdout, "reload: no convergence within budget, %d triple(s) added", total)
		default:
			ui.Success(os.Stdout, "reload: converged after %d tick(s), %d triple(s) added", len(history), total)
		}
	}

	for _, f := range []string{*ontology, *topology} {
		if f == "" {
			continue
		}
		if err := watcher.Add(filepath.Dir(f)); err != nil {
			fatal(hwkeerrors.NewPermissionError("cannot watch directory", err.Error(), "", err))
		}
	}

	reload()

	var timer *time.Timer
	var timerCh <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Name != *ontology && event.Name != *topology {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			ui.Error(os.Stdout, "watch error: %v", err)
		}
	}
}
