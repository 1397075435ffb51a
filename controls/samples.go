package controls

import (
	"errors"
	"fmt"

	"go-rnbo/config"
	"go-rnbo/rnbo"
)

// ErrMissingParameter is returned when a control group names a parameter the
// device does not have
var ErrMissingParameter = errors.New("missing parameter")

// retrigger is written to the play parameter before the slot index so that
// choosing the same slot again still changes the value
const retrigger = -1.0

// SampleBank is a column of mutually exclusive sample checkboxes. Checking a
// slot plays it; unchecking stops the column.
type SampleBank struct {
	Column string

	play    rnbo.Parameter
	stop    rnbo.Parameter
	checked []bool
	current int
}

// NewSampleBank resolves the group's parameters on dev
func NewSampleBank(dev rnbo.Device, group config.SampleGroup, slots int) (*SampleBank, error) {
	play := rnbo.FindParameter(dev, group.Play)
	if play == nil {
		return nil, fmt.Errorf("sample column %s: %w %q", group.Column, ErrMissingParameter, group.Play)
	}
	stop := rnbo.FindParameter(dev, group.Stop)
	if stop == nil {
		return nil, fmt.Errorf("sample column %s: %w %q", group.Column, ErrMissingParameter, group.Stop)
	}
	return &SampleBank{
		Column:  group.Column,
		play:    play,
		stop:    stop,
		checked: make([]bool, slots),
		current: -1,
	}, nil
}

// Params names the play and stop parameters
func (b *SampleBank) Params() (play, stop string) {
	return b.play.Name(), b.stop.Name()
}

// MountID is the element the bank is drawn into
func (b *SampleBank) MountID() string {
	return SampleMountPrefix + b.Column
}

func (b *SampleBank) Slots() int {
	return len(b.checked)
}

func (b *SampleBank) Checked(i int) bool {
	return i >= 0 && i < len(b.checked) && b.checked[i]
}

// Current returns the checked slot, or -1
func (b *SampleBank) Current() int {
	return b.current
}

// Toggle applies a checkbox change on slot i
func (b *SampleBank) Toggle(i int, checked bool) error {
	if i < 0 || i >= len(b.checked) {
		return fmt.Errorf("sample column %s: slot %d out of range", b.Column, i)
	}
	if !checked {
		b.checked[i] = false
		if i != b.current {
			return nil
		}
		b.stop.SetValue(1)
		b.current = -1
		return nil
	}

	if b.current >= 0 {
		b.checked[b.current] = false
	}
	b.checked[i] = true
	b.stop.SetValue(0)
	b.play.SetValue(retrigger)
	b.play.SetValue(float64(i))
	b.current = i
	return nil
}

// BindSampleBanks mounts one bank per group. Groups whose parameters are
// missing are skipped and reported in the returned error.
func BindSampleBanks(surface Surface, dev rnbo.Device, groups []config.SampleGroup, slots int) ([]*SampleBank, error) {
	var (
		banks []*SampleBank
		errs  []error
	)
	for _, g := range groups {
		b, err := NewSampleBank(dev, g, slots)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		banks = append(banks, b)
	}

	if len(dev.Parameters()) > 0 {
		surface.Remove(SampleMountPrefix+firstColumn(groups), NoSamplesLabel)
	}
	for _, b := range banks {
		surface.MountSampleBank(b)
	}
	return banks, errors.Join(errs...)
}

func firstColumn(groups []config.SampleGroup) string {
	if len(groups) == 0 {
		return ""
	}
	return groups[0].Column
}
