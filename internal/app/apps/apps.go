// Package apps implements the runnable top-level applications: the chat
// server and the interactive chat client.
package apps

import "context"

// App is anything runnable from the CLI entrypoint.
type App interface {
	Run(ctx context.Context, args []string) error
}
