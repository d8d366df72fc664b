// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Reporter]: the "ooqd: ..." diagnostic sink
//   - [Logger]: structured logging abstraction for lifecycle events
//   - [StatusRepository]: persists the summary of the latest drain
//   - [HTTPClient]: HTTP request abstraction used by the fetch handlers
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (zerolog, JSON files on an afero filesystem, etc.).
package ports
