package ports

import "context"

// Launcher starts a candidate daemon and waits for the launching process to
// report success.
type Launcher interface {
	Launch(ctx context.Context) error
}
