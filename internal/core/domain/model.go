package domain

import "strings"

// DefaultModel is the descriptor used when the model registry is unreachable
// or lists nothing.
const DefaultModel ModelDescriptor = "gemini-1.5-flash"

// ModelPreferences is the ordered preference policy. Each term is matched as
// a substring against the available model names; the first term with any
// match wins, and within a term the first model in registry order wins.
var ModelPreferences = []string{"1.5-flash", "1.5-pro", "1.0-pro", "flash", "pro"}

// ModelDescriptor names a remote generation model, e.g. "gemini-1.5-flash".
type ModelDescriptor string

// String returns the string representation.
func (m ModelDescriptor) String() string {
	return string(m)
}

// ShortModelName strips any path-style prefix from a fully qualified model
// name, keeping the final segment: "models/gemini-pro" becomes "gemini-pro".
func ShortModelName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// PreferredModel applies ModelPreferences to the available names.
// Returns the first name when nothing matches and false when names is empty.
func PreferredModel(names []string) (ModelDescriptor, bool) {
	if len(names) == 0 {
		return "", false
	}
	for _, term := range ModelPreferences {
		for _, name := range names {
			if strings.Contains(name, term) {
				return ModelDescriptor(name), true
			}
		}
	}
	return ModelDescriptor(names[0]), true
}

// ModelSelection is the outcome of a model selection.
type ModelSelection struct {
	// Model is the chosen descriptor. Always set.
	Model ModelDescriptor

	// Warning is non-nil when the selector fell back to the default model
	// because the registry could not be read. It wraps ErrModelListUnavailable.
	Warning error

	// Cached reports whether the selection came from the per-key cache.
	Cached bool
}

// FellBack reports whether the default model was used because of a failure.
func (s ModelSelection) FellBack() bool {
	return s.Warning != nil
}
