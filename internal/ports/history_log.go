package ports

// HistoryLog is the durable, append-only history file. Append returns only
// once the entry has reached stable storage.
type HistoryLog interface {
	Append(entry []byte) error
	Close() error
}
