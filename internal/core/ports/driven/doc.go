// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Turns text into fixed-dimension vectors
//   - VectorIndex: Stores vectors and answers nearest-neighbour queries
//   - ModelRegistry: Lists the remote generation models an API key can use
//   - GenerationClient: Sends an assembled prompt to the completion endpoint
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: User-editable prompt template. Without it the built-in template is used.
//   - ConfigStore: Application configuration. Without it defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
