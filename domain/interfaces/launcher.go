package interfaces

import "context"

// Launcher defines the interface for hosting a browser-delivered game client
type Launcher interface {
	// Open opens the game client
	Open(ctx context.Context) error

	// Screenshot saves a screenshot of the client to path
	Screenshot(ctx context.Context, path string) error

	// Close closes the game client
	Close() error
}
