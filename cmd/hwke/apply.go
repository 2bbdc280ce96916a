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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	hwkeerrors "github.com/kraklabs/hwke/internal/errors"
	"github.com/kraklabs/hwke/internal/ui"
	"github.com/kraklabs/hwke/pkg/mutation"
	"github.com/kraklabs/hwke/pkg/sanitize"
)

// runApply reads a QuadDelta from a JSON file (shape: {"adds":[...],
// "rems":[...]}, each entry a Triple of {subject,predicate,object} terms)
// and applies it through the Atman Mutation Engine.
func runApply(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	actor := fs.String("actor", "cli", "Actor identity recorded on the receipt")
	_ = fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: hwke apply [--actor name] <delta.json>")
		os.Exit(1)
	}

	var delta mutation.QuadDelta
	if err := json.Unmarshal([]byte(readFile(rest[0])), &delta); err != nil {
		fatal(hwkeerrors.NewValidationError("cannot parse delta file", err.Error(), "expected {\"adds\":[...],\"rems\":[...]}", err))
	}

	a, err := openApp(configPath)
	if err != nil {
		fatal(err)
	}
	defer a.close()

	r, err := a.eng.Apply(context.Background(), delta, *actor)
	if err != nil {
		se := sanitize.Wrap("mutation", abortReason(err), err, 0)
		if globals.JSON {
			data, _ := json.Marshal(r)
			fmt.Println(string(data))
			os.Exit(1)
		}
		kind := "unknown"
		if r.Error != nil {
			kind = string(r.Error.Kind)
		}
		ui.Error(os.Stdout, "apply blocked (%s): %s", kind, se.Message)
		os.Exit(1)
	}

	if globals.JSON {
		data, _ := json.Marshal(r)
		fmt.Println(string(data))
		return
	}
	if r.Error != nil {
		ui.Warn(os.Stdout, "committed with post-hook failure: merkle_root=%s added=%d removed=%d hook=%s", r.MerkleRoot, r.AddedCount, r.RemovedCount, r.Error.HookID)
		return
	}
	ui.Success(os.Stdout, "committed: merkle_root=%s added=%d removed=%d", r.MerkleRoot, r.AddedCount, r.RemovedCount)
}

func abortReason(err error) sanitize.Reason {
	var merr *mutation.Error
	if errors.As(err, &merr) {
		switch merr.Reason {
		case mutation.AbortValidation, mutation.AbortEmptyDelta:
			return sanitize.ReasonValidation
		case mutation.AbortPreHook:
			return sanitize.ReasonBlocked
		case mutation.AbortChainFork:
			return sanitize.ReasonConflict
		}
	}
	return sanitize.ReasonInternal
}
