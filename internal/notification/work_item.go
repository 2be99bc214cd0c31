package notification

// WorkItem is one enqueued instruction to notify one recipient. Items are
// consumed exactly once by the dispatcher and then discarded; they are never
// persisted, so losing them on shutdown is an accepted failure mode.
type WorkItem struct {
	RecipientID    string
	RecipientEmail string
	RecipientName  string
	Subject        string
	Body           string
	HTMLBody       string // optional, empty means plain text only
}

// Enqueuer is the narrow producer-side view handed to the business services.
type Enqueuer interface {
	TryEnqueue(item WorkItem) bool
}
