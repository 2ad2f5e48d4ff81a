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

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/walteh/filexor/pkg/discovery"
	"github.com/walteh/filexor/pkg/transform"
	"gitlab.com/tozd/go/errors"
)

// ⏱️ Defaults
const (
	DefaultInterval = 1000 * time.Millisecond
	DefaultInputDir = "."
	DefaultMaxProbe = 10000
)

// 🔌 Parser is the interface for config file parsers
type Parser interface {
	// 📝 Parse decodes the file onto cfg, leaving fields the file does not set untouched
	Parse(ctx context.Context, data []byte, cfg *Config) error

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config holds every setting the processor needs. It is resolved once at
// startup and treated as read-only afterwards.
type Config struct {
	Mask      string        // Glob pattern matched against file names in InputDir
	Output    string        // Destination directory
	InputDir  string        // Directory scanned for input files
	Delete    bool          // Remove sources after a successful write
	Overwrite bool          // Replace existing outputs instead of suffixing
	Interval  time.Duration // Poll interval in continuous mode
	Key       transform.Key // XOR key
	Single    bool          // Run one pass and exit
	Watch     bool          // Wake early on filesystem events
	MaxProbe  int           // Cap on collision probes, 0 for unbounded
}

// 🏭 Default returns a config with every optional field at its default
func Default() Config {
	return Config{
		InputDir: DefaultInputDir,
		Interval: DefaultInterval,
		MaxProbe: DefaultMaxProbe,
	}
}

// 🔍 Validate checks required fields and normalizes paths
func (cfg *Config) Validate() error {
	if cfg.Mask == "" {
		return errors.Errorf("mask is required")
	}
	if err := discovery.ValidateMask(cfg.Mask); err != nil {
		return err
	}
	if strings.ContainsRune(cfg.Mask, '/') {
		return errors.Errorf("mask %q must match file names, not paths", cfg.Mask)
	}
	if cfg.Output == "" {
		return errors.Errorf("output is required")
	}
	if !cfg.Single && cfg.Interval <= 0 {
		return errors.Errorf("interval must be positive, got %s", cfg.Interval)
	}
	if cfg.MaxProbe < 0 {
		return errors.Errorf("max probe must not be negative, got %d", cfg.MaxProbe)
	}

	if cfg.InputDir == "" {
		cfg.InputDir = DefaultInputDir
	}
	cfg.InputDir = filepath.Clean(cfg.InputDir)
	cfg.Output = filepath.Clean(cfg.Output)

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	mode := fmt.Sprintf("every %s", cfg.Interval)
	if cfg.Single {
		mode = "once"
	}
	return fmt.Sprintf("%s/%s -> %s (%s, xor=%s)", cfg.InputDir, cfg.Mask, cfg.Output, mode, cfg.Key)
}

// 🔑 ParseKey parses up to 16 hex digits, with an optional 0x prefix, into a key.
// An empty string is the zero key.
func ParseKey(s string) (transform.Key, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return transform.Key{}, nil
	}
	if len(s) > 2*transform.KeySize {
		return transform.Key{}, errors.Errorf("xor key %q is longer than %d hex digits", s, 2*transform.KeySize)
	}

	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return transform.Key{}, errors.Errorf("parsing xor key %q: %w", s, err)
	}

	return transform.KeyFromUint64(v), nil
}
