// Package config reads slidecam project files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"

	"github.com/shirou/gopsutil/v3/cpu"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("config: invalid")

// Script actions.
const (
	ActionWheel      = "wheel"
	ActionDrag       = "drag"
	ActionMove       = "move"
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
	ActionNext       = "next"
	ActionPrev       = "prev"
	ActionShow       = "show"
)

var actions = map[string]bool{
	ActionWheel: true, ActionDrag: true, ActionMove: true,
	ActionActivate: true, ActionDeactivate: true,
	ActionNext: true, ActionPrev: true, ActionShow: true,
}

type Slide struct {
	Src   string `yaml:"src"`
	DPI   int    `yaml:"dpi,omitempty"`
	Title string `yaml:"title,omitempty"`
}

// Step is one scripted input, applied before rendering frame At.
type Step struct {
	At     int    `yaml:"at"`
	Action string `yaml:"action"`
	// Delta is the wheel delta in pixels, or the drag distance for drag.
	Delta float64 `yaml:"delta,omitempty"`
	// X and Y are the pointer position in viewport pixels for move.
	X float64 `yaml:"x,omitempty"`
	Y float64 `yaml:"y,omitempty"`
	// Duration is the intro length in seconds for show.
	Duration float64 `yaml:"duration,omitempty"`
}

type Config struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Perspective float64 `yaml:"perspective"`
	Workers     int     `yaml:"workers"`
	Supersample int     `yaml:"supersample"`
	FPS         int     `yaml:"fps"`
	Frames      int     `yaml:"frames"`
	// Every writes only every n-th frame.
	Every     int     `yaml:"every"`
	CacheSize int     `yaml:"cache"`
	Output    string  `yaml:"output"`
	Slides    []Slide `yaml:"slides"`
	Script    []Step  `yaml:"script"`
}

// Default returns the settings used for keys a project file leaves out.
func Default() Config {
	return Config{
		Width:       640,
		Height:      360,
		Perspective: 2000,
		Workers:     DefaultWorkers(),
		Supersample: 1,
		FPS:         60,
		Frames:      240,
		Every:       1,
		CacheSize:   32,
		Output:      "frames",
	}
}

// DefaultWorkers is the number of physical cores, falling back to
// GOMAXPROCS when it cannot be read.
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n < 1 {
		slog.Warn("physical core count unavailable", "err", err)
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Load reads a YAML project file over the defaults and validates it.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that add settings first.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func Parse(data []byte) (*Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals data over the defaults without validating.
func Decode(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.SortScript()
	return &cfg, nil
}

// SortScript orders steps by frame, keeping the file order within a frame.
func (c *Config) SortScript() {
	sort.SliceStable(c.Script, func(i, j int) bool { return c.Script[i].At < c.Script[j].At })
}

func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalid, c.Width, c.Height)
	case c.Perspective <= 0:
		return fmt.Errorf("%w: perspective %v", ErrInvalid, c.Perspective)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Workers)
	case c.Supersample < 1:
		return fmt.Errorf("%w: supersample %d", ErrInvalid, c.Supersample)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS)
	case c.Frames < 0:
		return fmt.Errorf("%w: frames %d", ErrInvalid, c.Frames)
	case c.Every < 1:
		return fmt.Errorf("%w: every %d", ErrInvalid, c.Every)
	case c.CacheSize < 1:
		return fmt.Errorf("%w: cache %d", ErrInvalid, c.CacheSize)
	case len(c.Slides) == 0:
		return fmt.Errorf("%w: no slides", ErrInvalid)
	}
	for i, s := range c.Slides {
		if s.Src == "" {
			return fmt.Errorf("%w: slide %d has no src", ErrInvalid, i)
		}
		if s.DPI < 0 {
			return fmt.Errorf("%w: slide %d dpi %d", ErrInvalid, i, s.DPI)
		}
	}
	for i, st := range c.Script {
		if !actions[st.Action] {
			return fmt.Errorf("%w: step %d action %q", ErrInvalid, i, st.Action)
		}
		if st.At < 0 {
			return fmt.Errorf("%w: step %d at frame %d", ErrInvalid, i, st.At)
		}
	}
	return nil
}
