// Package icons maps unit types to icon asset paths.
//
// The registry is a plain immutable value built once at startup, either from
// the built-in defaults or from a TOML config file. Lookups are total: a
// unit type with no mapping resolves to absent rather than failing, and the
// node renders without an image.
package icons

import (
	"fmt"
	"path"

	"github.com/BurntSushi/toml"

	"github.com/flowvis/flowvis/pkg/model"
)

// DefaultRoot is the asset directory prefixed to every icon filename.
const DefaultRoot = "icons"

var defaultFiles = map[model.UnitType]string{
	model.UnitMixer:           "mixer.svg",
	model.UnitSplitter:        "splitter.svg",
	model.UnitHeater:          "heater.svg",
	model.UnitCooler:          "cooler.svg",
	model.UnitHeatExchanger:   "heat_exchanger.svg",
	model.UnitReactor:         "reactor.svg",
	model.UnitFlash:           "flash.svg",
	model.UnitSeparator:       "separator.svg",
	model.UnitPressureChanger: "pressure_changer.svg",
	model.UnitPump:            "pump.svg",
	model.UnitCompressor:      "compressor.svg",
	model.UnitFeed:            "feed.svg",
	model.UnitProduct:         "product.svg",
}

// Registry resolves unit types to icon asset references.
// The zero value resolves nothing; use Default or Load.
type Registry struct {
	root  string
	files map[model.UnitType]string
}

// Default returns the built-in registry covering every known unit type
// under DefaultRoot.
func Default() Registry {
	files := make(map[model.UnitType]string, len(defaultFiles))
	for u, f := range defaultFiles {
		files[u] = f
	}
	return Registry{root: DefaultRoot, files: files}
}

// Resolve returns the asset path for a unit type and whether a mapping
// exists. UnitUnknown always resolves to absent. Resolve satisfies
// [model.IconFunc].
func (r Registry) Resolve(u model.UnitType) (string, bool) {
	f, ok := r.files[u]
	if !ok {
		return "", false
	}
	return path.Join(r.root, f), true
}

// Config is the TOML shape accepted by Load:
//
//	root = "assets/icons"
//
//	[files]
//	Mixer = "mixer_v2.svg"
//	Heater = "heater.png"
type Config struct {
	Root  string            `toml:"root"`
	Files map[string]string `toml:"files"`
}

// Load reads a TOML config and returns the default registry with the
// config's overrides applied. A type tag in [files] that names no known
// unit is an error; misspelled overrides would otherwise be silent no-ops.
func Load(configPath string) (Registry, error) {
	var cfg Config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return Registry{}, fmt.Errorf("decode %s: %w", configPath, err)
	}
	return FromConfig(cfg)
}

// FromConfig builds a registry from an already decoded config.
func FromConfig(cfg Config) (Registry, error) {
	r := Default()
	if cfg.Root != "" {
		r.root = cfg.Root
	}
	for tag, file := range cfg.Files {
		u := model.ParseUnitType(tag)
		if u == model.UnitUnknown {
			return Registry{}, fmt.Errorf("icon config: unknown unit type %q", tag)
		}
		r.files[u] = file
	}
	return r, nil
}
