package queue

// Queue is a thread-safe FIFO of commands. Producers are the API
// handlers, the single consumer is the game loop.
type Queue interface {
	// Enqueue adds an item to the end of the queue. It fails instead of
	// blocking when the queue is full.
	Enqueue(item interface{}) error
	Dequeue() (interface{}, error)
	Size() int
	ReadAllMessages() ([]interface{}, error)
	ClearQueue()
}
