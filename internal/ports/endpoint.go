package ports

// Endpoint is a bound, connectionless message endpoint. One call to Send or
// Reply transmits exactly one message; Receive returns exactly one message.
type Endpoint interface {
	Send(msg []byte, dest string) error
	Receive() ([]byte, error)
	// Reply sends to the sender of the most recently received message.
	Reply(msg []byte) error
	Close() error
}
