// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/walteh/filexor/pkg/status"
)

// 📊 renderSummary prints one row per file of a single-run report
func renderSummary(w io.Writer, report *status.Report) error {
	if report == nil || report.Empty() {
		fmt.Fprintln(w, status.NewDefaultFileFormatter().FormatSummary(status.Counts{}))
		return nil
	}

	data := pterm.TableData{{"Source", "Output", "Outcome", "Bytes", "Deleted"}}
	for _, e := range report.Entries {
		output := e.Output
		if output == "" {
			output = "-"
		}
		deleted := strconv.FormatBool(e.Deleted)
		if e.DeleteErr != nil {
			deleted = "failed"
		}
		data = append(data, []string{e.Source, output, e.Outcome.String(), strconv.Itoa(e.Size), deleted})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)
	fmt.Fprintln(w, status.NewDefaultFileFormatter().FormatSummary(report.Counts()))
	return nil
}
