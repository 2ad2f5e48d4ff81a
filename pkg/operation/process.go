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

package operation

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/filexor/pkg/discovery"
	"github.com/walteh/filexor/pkg/log"
	"github.com/walteh/filexor/pkg/naming"
	"github.com/walteh/filexor/pkg/status"
	"github.com/walteh/filexor/pkg/transform"
	"gitlab.com/tozd/go/errors"
)

// ErrOutputIsSource is recorded instead of deleting a source that was overwritten in place.
var ErrOutputIsSource = errors.Base("output replaced the source")

// 📦 NewProcessOperation creates the operation that transforms every matching file once
func NewProcessOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &processOperation{BaseOperation: base}, nil
}

// 📦 processOperation implements one processing pass
type processOperation struct {
	BaseOperation
	passes int
}

// 🏃 Execute lists the candidates and processes each independently. A failed
// file is recorded in the report and never stops the pass.
func (op *processOperation) Execute(ctx context.Context) (*status.Report, error) {
	op.passes++
	logger := op.logger(ctx)

	report := status.NewReport(op.Now())
	logger.StartPass(ctx, log.PassOperation{
		Number: op.passes,
		Dir:    op.Config.InputDir,
		Mask:   op.Config.Mask,
		Output: op.Config.Output,
	})
	defer func() {
		report.Finish(op.Now())
		logger.EndPass(ctx, report)
	}()

	names, err := discovery.List(op.Config.InputDir, op.Config.Mask)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("dir", op.Config.InputDir).Msg("listing input files")
		return report, nil
	}

	for _, name := range names {
		entry := op.processFile(ctx, name)
		report.Add(entry)
		logger.LogEntry(ctx, entry)
	}

	return report, nil
}

// 📄 processFile reads, transforms, writes and optionally removes one file
func (op *processOperation) processFile(ctx context.Context, name string) status.Entry {
	source := filepath.Join(op.Config.InputDir, name)
	entry := status.Entry{Source: source}

	content, err := op.Files.ReadFile(ctx, source)
	if err != nil {
		entry.Outcome = status.SkippedUnreadable
		entry.Err = err
		return entry
	}

	// the whole buffer is transformed before anything is written
	transform.Apply(content, op.Config.Key)

	output, err := naming.Resolve(ctx, op.Files, op.Config.Output, name, op.Config.Overwrite, op.Config.MaxProbe)
	if err != nil {
		entry.Outcome = status.SkippedUnwritable
		entry.Err = errors.Errorf("resolving output name: %w", err)
		return entry
	}
	entry.Output = output

	if err := op.Files.WriteFileAtomic(ctx, output, content); err != nil {
		entry.Outcome = status.SkippedUnwritable
		entry.Err = err
		return entry
	}
	entry.Outcome = status.Succeeded
	entry.Size = len(content)

	if !op.Config.Delete {
		return entry
	}

	if sameFile(source, output) {
		entry.DeleteErr = ErrOutputIsSource
		return entry
	}

	if err := op.Files.DeleteFile(ctx, source); err != nil {
		entry.DeleteErr = err
		return entry
	}
	entry.Deleted = true

	return entry
}

// sameFile reports whether a and b name the same file on disk, through
// symlinked directories too. Paths that cannot be stat'ed are compared as text.
func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}

	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return os.SameFile(infoA, infoB)
}
