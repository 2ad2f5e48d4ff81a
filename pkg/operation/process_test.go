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

package operation_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/filexor/pkg/config"
	"github.com/walteh/filexor/pkg/fileio"
	"github.com/walteh/filexor/pkg/log"
	"github.com/walteh/filexor/pkg/operation"
	"github.com/walteh/filexor/pkg/status"
	"github.com/walteh/filexor/pkg/transform"
	"gitlab.com/tozd/go/errors"
)

// 🧪 createTestEnv creates input and output directories and a config pointing at them
func createTestEnv(t *testing.T) (context.Context, *config.Config, *log.Logger) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	tmpDir := t.TempDir()
	cfg := config.Default()
	cfg.Mask = "*.bin"
	cfg.InputDir = filepath.Join(tmpDir, "in")
	cfg.Output = filepath.Join(tmpDir, "out")
	cfg.Single = true
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0755))
	require.NoError(t, os.MkdirAll(cfg.Output, 0755))

	zlog := zerolog.New(zerolog.NewTestWriter(t))
	ctx := zlog.WithContext(context.Background())
	logger := log.NewWithLogger(&bytes.Buffer{}, zlog)

	return ctx, &cfg, logger
}

func writeInput(t *testing.T, cfg *config.Config, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(cfg.InputDir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func run(t *testing.T, ctx context.Context, opts operation.Options) *status.Report {
	t.Helper()
	op, err := operation.NewProcessOperation(opts)
	require.NoError(t, err)
	report, err := op.Execute(ctx)
	require.NoError(t, err)
	require.NotNil(t, report)
	return report
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestEndToEnd(t *testing.T) {
	ctx, cfg, logger := createTestEnv(t)
	key, err := config.ParseKey("0000000000FFFFFF")
	require.NoError(t, err)
	cfg.Key = key
	cfg.Delete = true

	source := writeInput(t, cfg, "a.bin", []byte{0x01, 0x02, 0x03})

	report := run(t, ctx, operation.Options{Config: cfg, Logger: logger})

	require.Len(t, report.Entries, 1)
	entry := report.Entries[0]
	assert.Equal(t, status.Succeeded, entry.Outcome)
	assert.Equal(t, filepath.Join(cfg.Output, "a.bin"), entry.Output)
	assert.True(t, entry.Deleted)
	assert.Equal(t, 3, entry.Size)
	assert.False(t, report.Failed())

	got, err := os.ReadFile(filepath.Join(cfg.Output, "a.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFE, 0xFD, 0xFC}, got)

	_, err = os.Stat(source)
	assert.True(t, os.IsNotExist(err), "source should be removed")

	assert.Equal(t, []byte{0x01, 0x02, 0x03}, transform.Apply(got, cfg.Key))
}

func TestNoMatchingFiles(t *testing.T) {
	ctx, cfg, logger := createTestEnv(t)
	writeInput(t, cfg, "skip.txt", []byte("x"))

	report := run(t, ctx, operation.Options{Config: cfg, Logger: logger})

	assert.True(t, report.Empty())
	assert.False(t, report.Failed())
	assert.Empty(t, listDir(t, cfg.Output))
	assert.Equal(t, []string{"skip.txt"}, listDir(t, cfg.InputDir))
}

func TestCollisionNaming(t *testing.T) {
	ctx, cfg, logger := createTestEnv(t)
	writeInput(t, cfg, "foo.bin", []byte("new"))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Output, "foo.bin"), []byte("old"), 0644))

	report := run(t, ctx, operation.Options{Config: cfg, Logger: logger})
	require.Len(t, report.Entries, 1)
	assert.Equal(t, filepath.Join(cfg.Output, "foo.bin.1"), report.Entries[0].Output)

	report = run(t, ctx, operation.Options{Config: cfg, Logger: logger})
	require.Len(t, report.Entries, 1)
	assert.Equal(t, filepath.Join(cfg.Output, "foo.bin.2"), report.Entries[0].Output)

	old, err := os.ReadFile(filepath.Join(cfg.Output, "foo.bin"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old), "existing output must be kept")

	cfg.Overwrite = true
	report = run(t, ctx, operation.Options{Config: cfg, Logger: logger})
	require.Len(t, report.Entries, 1)
	assert.Equal(t, filepath.Join(cfg.Output, "foo.bin"), report.Entries[0].Output)

	replaced, err := os.ReadFile(filepath.Join(cfg.Output, "foo.bin"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(replaced))
}

func TestProbeCapIsUnwritable(t *testing.T) {
	ctx, cfg, logger := createTestEnv(t)
	cfg.MaxProbe = 1
	cfg.Delete = true
	source := writeInput(t, cfg, "x.bin", []byte("x"))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Output, "x.bin"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Output, "x.bin.1"), nil, 0644))

	report := run(t, ctx, operation.Options{Config: cfg, Logger: logger})

	require.Len(t, report.Entries, 1)
	assert.Equal(t, status.SkippedUnwritable, report.Entries[0].Outcome)
	assert.Empty(t, report.Entries[0].Output)
	assert.FileExists(t, source)
}

func TestUnwritableOutput(t *testing.T) {
	ctx, cfg, logger := createTestEnv(t)
	cfg.Delete = true
	cfg.Output = filepath.Join(cfg.Output, "missing")
	first := writeInput(t, cfg, "1.bin", []byte("a"))
	second := writeInput(t, cfg, "2.bin", []byte("b"))

	report := run(t, ctx, operation.Options{Config: cfg, Logger: logger})

	require.Len(t, report.Entries, 2, "every candidate is attempted")
	for _, e := range report.Entries {
		assert.Equal(t, status.SkippedUnwritable, e.Outcome)
		assert.Error(t, e.Err)
		assert.False(t, e.Deleted)
	}
	assert.FileExists(t, first)
	assert.FileExists(t, second)
	assert.Equal(t, status.Counts{Unwritable: 2}, report.Counts())
}

// 🔧 faultyFiles fails selected calls and passes everything else to the real manager
type faultyFiles struct {
	*fileio.Manager
	unreadable map[string]bool
	undeleted  map[string]bool
}

func (f *faultyFiles) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if f.unreadable[filepath.Base(path)] {
		return nil, errors.New("permission denied")
	}
	return f.Manager.ReadFile(ctx, path)
}

func (f *faultyFiles) DeleteFile(ctx context.Context, path string) error {
	if f.undeleted[filepath.Base(path)] {
		return errors.New("device busy")
	}
	return f.Manager.DeleteFile(ctx, path)
}

func TestPartialFailureIsolation(t *testing.T) {
	ctx, cfg, logger := createTestEnv(t)
	cfg.Delete = true
	a := writeInput(t, cfg, "a.bin", []byte("a"))
	b := writeInput(t, cfg, "b.bin", []byte("b"))
	c := writeInput(t, cfg, "c.bin", []byte("c"))

	files := &faultyFiles{
		Manager:    fileio.New(),
		unreadable: map[string]bool{"a.bin": true},
		undeleted:  map[string]bool{"b.bin": true},
	}

	report := run(t, ctx, operation.Options{Config: cfg, Files: files, Logger: logger})

	require.Len(t, report.Entries, 3)

	assert.Equal(t, status.SkippedUnreadable, report.Entries[0].Outcome)
	assert.Empty(t, report.Entries[0].Output)
	assert.FileExists(t, a, "unreadable source is not deleted")
	assert.NoFileExists(t, filepath.Join(cfg.Output, "a.bin"), "no output for unreadable source")

	assert.Equal(t, status.Succeeded, report.Entries[1].Outcome)
	require.Error(t, report.Entries[1].DeleteErr)
	assert.False(t, report.Entries[1].Deleted)
	assert.FileExists(t, b)
	assert.FileExists(t, filepath.Join(cfg.Output, "b.bin"))

	assert.Equal(t, status.Succeeded, report.Entries[2].Outcome)
	assert.True(t, report.Entries[2].Deleted)
	assert.NoFileExists(t, c)

	assert.True(t, report.Failed())
	assert.Equal(t, status.Counts{Succeeded: 2, Unreadable: 1, DeleteFailed: 1}, report.Counts())
}

// 🔧 MockFileManager is a mock implementation of fileio.FileManager
type MockFileManager struct {
	mock.Mock
}

func (m *MockFileManager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	result := m.Called(ctx, path)
	content, _ := result.Get(0).([]byte)
	return content, result.Error(1)
}

func (m *MockFileManager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	return m.Called(ctx, path, content).Error(0)
}

func (m *MockFileManager) DeleteFile(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockFileManager) FileExists(ctx context.Context, path string) (bool, error) {
	result := m.Called(ctx, path)
	return result.Bool(0), result.Error(1)
}

func TestWriteFailureKeepsSource(t *testing.T) {
	ctx, cfg, logger := createTestEnv(t)
	cfg.Delete = true
	cfg.Key = transform.KeyFromUint64(0x01)
	writeInput(t, cfg, "w.bin", []byte{0x00})

	source := filepath.Join(cfg.InputDir, "w.bin")
	target := filepath.Join(cfg.Output, "w.bin")

	files := &MockFileManager{}
	files.On("ReadFile", ctx, source).Return([]byte{0x00}, nil).Once()
	files.On("FileExists", ctx, target).Return(false, nil).Once()
	files.On("WriteFileAtomic", ctx, target, []byte{0x01}).Return(errors.New("disk full")).Once()

	report := run(t, ctx, operation.Options{Config: cfg, Files: files, Logger: logger})

	require.Len(t, report.Entries, 1)
	assert.Equal(t, status.SkippedUnwritable, report.Entries[0].Outcome)
	assert.Equal(t, target, report.Entries[0].Output)
	assert.Contains(t, report.Entries[0].Err.Error(), "disk full")
	files.AssertExpectations(t)
	files.AssertNotCalled(t, "DeleteFile", mock.Anything, mock.Anything)
}

func TestOverwriteInPlaceKeepsOutput(t *testing.T) {
	ctx, cfg, logger := createTestEnv(t)
	cfg.Output = cfg.InputDir
	cfg.Overwrite = true
	cfg.Delete = true
	cfg.Key = transform.KeyFromUint64(0xFF)
	path := writeInput(t, cfg, "same.bin", []byte{0x0F})

	report := run(t, ctx, operation.Options{Config: cfg, Logger: logger})

	require.Len(t, report.Entries, 1)
	assert.Equal(t, status.Succeeded, report.Entries[0].Outcome)
	require.ErrorIs(t, report.Entries[0].DeleteErr, operation.ErrOutputIsSource)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0}, got)
}

func TestOverwriteThroughSymlinkedOutputKeepsOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	ctx, cfg, logger := createTestEnv(t)
	link := filepath.Join(filepath.Dir(cfg.InputDir), "alias")
	require.NoError(t, os.Symlink(cfg.InputDir, link))
	cfg.Output = link
	cfg.Overwrite = true
	cfg.Delete = true
	cfg.Key = transform.KeyFromUint64(0xFF)
	path := writeInput(t, cfg, "same.bin", []byte{0x0F})

	report := run(t, ctx, operation.Options{Config: cfg, Logger: logger})

	require.Len(t, report.Entries, 1)
	entry := report.Entries[0]
	assert.Equal(t, status.Succeeded, entry.Outcome)
	assert.False(t, entry.Deleted)
	require.ErrorIs(t, entry.DeleteErr, operation.ErrOutputIsSource)

	got, err := os.ReadFile(path)
	require.NoError(t, err, "the written output must survive")
	assert.Equal(t, []byte{0xF0}, got)
}

func TestMissingInputDir(t *testing.T) {
	ctx, cfg, logger := createTestEnv(t)
	cfg.InputDir = filepath.Join(cfg.InputDir, "gone")

	report := run(t, ctx, operation.Options{Config: cfg, Logger: logger})
	assert.True(t, report.Empty())
}

func TestNewProcessOperationRequiresConfig(t *testing.T) {
	_, err := operation.NewProcessOperation(operation.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")
}
