//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

// Sink is the write side of a single client connection. The chat core never
// reads from it and never closes it; the transport owns the connection
// lifecycle. Implementations must be safe for concurrent use, rooms
// broadcast to a sink from many goroutines.
type Sink interface {
	// WriteLine delivers one protocol line (already terminated) to the
	// client. Delivery is best effort.
	WriteLine(line string) error
}
