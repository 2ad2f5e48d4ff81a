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

// Package operation provides the processing pass that transforms matching files
package operation

import (
	"context"
	"time"

	"github.com/walteh/filexor/pkg/config"
	"github.com/walteh/filexor/pkg/fileio"
	"github.com/walteh/filexor/pkg/log"
	"github.com/walteh/filexor/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one unit of work the scheduler drives
type Operation interface {
	// Execute runs the operation to completion and reports what it did to each file
	Execute(ctx context.Context) (*status.Report, error)
}

// 🔧 Options contains configuration for an operation
type Options struct {
	// Config is the resolved, validated configuration
	Config *config.Config
	// Files performs the filesystem calls, defaults to fileio.New()
	Files fileio.FileManager
	// Logger receives per-file results, defaults to the logger in the context
	Logger *log.Logger
	// Now stamps reports, defaults to time.Now
	Now func() time.Time
}

// 🧱 BaseOperation holds what every operation needs
type BaseOperation struct {
	Config *config.Config
	Files  fileio.FileManager
	Logger *log.Logger
	Now    func() time.Time
}

// 🏭 NewBaseOperation fills in defaults for unset options
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Config == nil {
		return BaseOperation{}, errors.Errorf("config is required")
	}
	base := BaseOperation{
		Config: opts.Config,
		Files:  opts.Files,
		Logger: opts.Logger,
		Now:    opts.Now,
	}
	if base.Files == nil {
		base.Files = fileio.New()
	}
	if base.Now == nil {
		base.Now = time.Now
	}
	return base, nil
}

// logger returns the configured logger or the one carried by ctx
func (b *BaseOperation) logger(ctx context.Context) *log.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return log.FromContext(ctx)
}
