package ports

// Diagnostics toggles the daemon's diagnostic log on request.
type Diagnostics interface {
	Start(path string) error
	Stop() error
}
