package services

import (
	"context"
	"fmt"

	"github.com/mailflow/mailq/backend"
)

// fakeBackend scripts backend responses for service tests.
type fakeBackend struct {
	queueUrls     []string
	listErr       error
	urlsByName    map[string]string
	attrsByUrl    map[string]backend.QueueAttributes
	attrsErrByUrl map[string]error

	batches         [][]backend.Message
	receiveErrAt    int // 1-based call index that fails, 0 means never
	receiveCalls    int
	lastMaxMessages int32
	lastVisibility  int32

	sendErr    error
	sentBodies []string

	deleteErr      error
	deletedHandles []string

	purgeErr error
	purged   []string
}

func (fb *fakeBackend) ListQueueUrls(ctx context.Context) ([]string, error) {
	if fb.listErr != nil {
		return nil, fb.listErr
	}
	return fb.queueUrls, nil
}

func (fb *fakeBackend) GetQueueUrl(ctx context.Context, queueName string) (string, error) {
	url, ok := fb.urlsByName[queueName]
	if !ok {
		return "", backend.ErrQueueNotFound
	}
	return url, nil
}

func (fb *fakeBackend) GetQueueAttributes(ctx context.Context, queueUrl string) (backend.QueueAttributes, error) {
	if err := fb.attrsErrByUrl[queueUrl]; err != nil {
		return backend.QueueAttributes{}, err
	}
	return fb.attrsByUrl[queueUrl], nil
}

func (fb *fakeBackend) ReceiveMessages(ctx context.Context, queueUrl string, maxMessages int32, visibilityTimeoutSec int32) ([]backend.Message, error) {
	fb.receiveCalls++
	fb.lastMaxMessages = maxMessages
	fb.lastVisibility = visibilityTimeoutSec

	if fb.receiveErrAt != 0 && fb.receiveCalls == fb.receiveErrAt {
		return nil, fmt.Errorf("receive failed")
	}
	if fb.receiveCalls > len(fb.batches) {
		return nil, nil
	}
	return fb.batches[fb.receiveCalls-1], nil
}

func (fb *fakeBackend) DeleteMessage(ctx context.Context, queueUrl string, receiptHandle string) error {
	if fb.deleteErr != nil {
		return fb.deleteErr
	}
	fb.deletedHandles = append(fb.deletedHandles, receiptHandle)
	return nil
}

func (fb *fakeBackend) PurgeQueue(ctx context.Context, queueUrl string) error {
	if fb.purgeErr != nil {
		return fb.purgeErr
	}
	fb.purged = append(fb.purged, queueUrl)
	return nil
}

func (fb *fakeBackend) SendMessage(ctx context.Context, queueUrl string, body string) error {
	if fb.sendErr != nil {
		return fb.sendErr
	}
	fb.sentBodies = append(fb.sentBodies, body)
	return nil
}

func batchOf(idPrefix string, from, count int) []backend.Message {
	messages := make([]backend.Message, 0, count)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("%s-%d", idPrefix, from+i)
		messages = append(messages, backend.Message{
			Id:            id,
			ReceiptHandle: "rh-" + id,
			Body:          "body of " + id,
		})
	}
	return messages
}
