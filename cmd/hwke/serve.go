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
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/hwke/internal/ui"
)

// runServe starts a read-only HTTP surface over the engine: /healthz,
// /metrics (prometheus), and /inspect, /status — a JSON projection of the
// facade's InspectState/GetActiveTasks, never a SPARQL wire protocol.
func runServe(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8420", "address to listen on")
	ontology := fs.String("ontology", "", "N3 implication file to load before serving")
	topology := fs.String("topology", "", "Turtle file to load before serving")
	_ = fs.Parse(args)

	a, err := openApp(configPath)
	if err != nil {
		fatal(err)
	}
	defer a.close()

	loadFromFlags(a, *ontology, *topology)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		active := a.eng.GetActiveTasks()
		ids := make([]string, 0, len(active))
		for id := range active {
			ids = append(ids, id)
		}
		writeJSON(w, map[string]interface{}{
			"active_tasks": ids,
			"triple_count": a.eng.Store().TripleCount(),
		})
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, a.eng.InspectState())
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ui.Success(os.Stdout, "listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fatal(err)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}
