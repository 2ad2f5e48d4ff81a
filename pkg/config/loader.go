package config

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// fileConfig is the on-disk schema shared by every parser. Pointer fields
// distinguish "not set" from the zero value so a file only overrides what it names.
type fileConfig struct {
	Mask       *string `hcl:"mask,optional" yaml:"mask" json:"mask"`
	Output     *string `hcl:"output,optional" yaml:"output" json:"output"`
	InputDir   *string `hcl:"input_dir,optional" yaml:"input_dir" json:"input_dir"`
	Delete     *bool   `hcl:"delete,optional" yaml:"delete" json:"delete"`
	Overwrite  *bool   `hcl:"overwrite,optional" yaml:"overwrite" json:"overwrite"`
	IntervalMS *int    `hcl:"interval_ms,optional" yaml:"interval_ms" json:"interval_ms"`
	Xor        *string `hcl:"xor,optional" yaml:"xor" json:"xor"`
	Single     *bool   `hcl:"single,optional" yaml:"single" json:"single"`
	Watch      *bool   `hcl:"watch,optional" yaml:"watch" json:"watch"`
	MaxProbe   *int    `hcl:"max_probe,optional" yaml:"max_probe" json:"max_probe"`
}

func (f *fileConfig) apply(cfg *Config) error {
	if f.Mask != nil {
		cfg.Mask = *f.Mask
	}
	if f.Output != nil {
		cfg.Output = *f.Output
	}
	if f.InputDir != nil {
		cfg.InputDir = *f.InputDir
	}
	if f.Delete != nil {
		cfg.Delete = *f.Delete
	}
	if f.Overwrite != nil {
		cfg.Overwrite = *f.Overwrite
	}
	if f.IntervalMS != nil {
		cfg.Interval = time.Duration(*f.IntervalMS) * time.Millisecond
	}
	if f.Xor != nil {
		key, err := ParseKey(*f.Xor)
		if err != nil {
			return err
		}
		cfg.Key = key
	}
	if f.Single != nil {
		cfg.Single = *f.Single
	}
	if f.Watch != nil {
		cfg.Watch = *f.Watch
	}
	if f.MaxProbe != nil {
		cfg.MaxProbe = *f.MaxProbe
	}
	return nil
}

// 🎯 Load reads a config file on top of the defaults. The format is picked
// by extension (.hcl, .yaml/.yml, .json). The result is not validated so
// callers can layer flags over it first.
func Load(ctx context.Context, path string) (*Config, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg := Default()
	if err := p.Parse(ctx, data, &cfg); err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}
