package pipeline

import (
	"sort"

	"github.com/mrlokans/textme/internal/android"
	"github.com/mrlokans/textme/internal/androiddb"
	"github.com/mrlokans/textme/internal/formats"
	"github.com/mrlokans/textme/internal/jsonfmt"
	"github.com/mrlokans/textme/internal/win10"
)

// registry maps format identifiers to their reader/writer pair. Adding a
// format means adding an entry here; the CLI picks names up automatically.
var registry = map[string]formats.Format{
	"win10": {
		Name:  "win10",
		Read:  win10.Read,
		Write: win10.Write,
	},
	"android": {
		Name:  "android",
		Read:  android.Read,
		Write: android.Write,
	},
	"androiddb": {
		Name:     "androiddb",
		ReadFile: androiddb.ReadFile,
	},
	"json": {
		Name:  "json",
		Read:  jsonfmt.Read,
		Write: jsonfmt.Write,
	},
}

// Lookup resolves a format identifier from the registry.
func Lookup(name string) (formats.Format, error) {
	format, ok := registry[name]
	if !ok {
		return formats.Format{}, &formats.UnsupportedFormatError{Format: name}
	}
	return format, nil
}

// Names returns all registered format identifiers, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
