// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under ~/.ragchat.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: User-editable prompt templates
//   - WatchPrompts: Reloads the PromptStore when template files change
package file
