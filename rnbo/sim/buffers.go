package sim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/youpy/go-wav"

	"go-rnbo/debug"
	"go-rnbo/patch"
)

// LoadDataBufferDependencies decodes every file dependency from the device's
// file system. Remote (url) entries are skipped.
func (d *Device) LoadDataBufferDependencies(ctx context.Context, deps []patch.Dependency) error {
	for _, dep := range deps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if dep.File == "" {
			debug.Log("sim", "skip dependency %s: no file", dep.ID)
			continue
		}
		buf, err := d.loadBuffer(dep)
		if err != nil {
			return fmt.Errorf("load %s: %w", dep.File, err)
		}
		d.mu.Lock()
		d.buffers[dep.ID] = buf
		d.mu.Unlock()
		debug.Log("sim", "buffer %s: %d frames, %d ch, %d Hz", buf.ID, buf.Frames, buf.Channels, buf.SampleRate)
	}
	return nil
}

func (d *Device) loadBuffer(dep patch.Dependency) (Buffer, error) {
	if d.fsys == nil {
		return Buffer{}, errors.New("no file system for dependencies")
	}
	data, err := fs.ReadFile(d.fsys, strings.TrimPrefix(dep.File, "/"))
	if err != nil {
		return Buffer{}, err
	}

	r := wav.NewReader(bytes.NewReader(data))
	format, err := r.Format()
	if err != nil {
		return Buffer{}, fmt.Errorf("wav format: %w", err)
	}

	frames := 0
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Buffer{}, fmt.Errorf("wav samples: %w", err)
		}
		frames += len(samples)
	}

	return Buffer{
		ID:         dep.ID,
		File:       dep.File,
		Channels:   int(format.NumChannels),
		SampleRate: int(format.SampleRate),
		Frames:     frames,
	}, nil
}
