package backend

import (
	"context"
	"errors"
)

// ErrQueueNotFound is returned by GetQueueUrl when the backend doesn't know
// the queue name.
var ErrQueueNotFound = errors.New("queue not found")

// Message is one delivery as returned by a receive call. The id is unique
// within a single response but the same message may reappear across calls.
type Message struct {
	Id            string
	ReceiptHandle string
	Body          string
	Attributes    map[string]string
}

type QueueAttributes struct {
	ApproxMessageCount  int
	ApproxInFlightCount int
}

// Client is the queue backend collaborator. Implementations must be safe for
// concurrent use: one long-lived client is shared across all requests.
type Client interface {
	ListQueueUrls(ctx context.Context) ([]string, error)
	GetQueueUrl(ctx context.Context, queueName string) (string, error)
	GetQueueAttributes(ctx context.Context, queueUrl string) (QueueAttributes, error)
	// ReceiveMessages fetches up to maxMessages, hiding each returned message
	// from other receivers for visibilityTimeoutSec. It never deletes.
	ReceiveMessages(ctx context.Context, queueUrl string, maxMessages int32, visibilityTimeoutSec int32) ([]Message, error)
	DeleteMessage(ctx context.Context, queueUrl string, receiptHandle string) error
	PurgeQueue(ctx context.Context, queueUrl string) error
	SendMessage(ctx context.Context, queueUrl string, body string) error
}
