package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mailflow/mailq/backend"
	"github.com/mailflow/mailq/common"
	"github.com/mailflow/mailq/metrics"
)

func newQueuesService(fb *fakeBackend) *QueuesService {
	return NewQueuesService(fb, metrics.NewMetricsService(false))
}

func TestListQueuesDegradesFailedAttributeFetch(t *testing.T) {
	fb := &fakeBackend{
		queueUrls: []string{
			"https://sqs/123/mailflow-app1",
			"https://sqs/123/mailflow-app1-dlq",
		},
		attrsByUrl: map[string]backend.QueueAttributes{
			"https://sqs/123/mailflow-app1": {ApproxMessageCount: 12, ApproxInFlightCount: 4},
		},
		attrsErrByUrl: map[string]error{
			"https://sqs/123/mailflow-app1-dlq": fmt.Errorf("throttled"),
		},
	}
	qs := newQueuesService(fb)

	resp, err := qs.ListQueues(context.Background())
	if err != nil {
		t.Fatalf("ListQueues() error: %v", err)
	}
	if len(resp.Queues) != 2 {
		t.Fatalf("queues = %d, want 2 despite one attribute failure", len(resp.Queues))
	}

	healthy := resp.Queues[0]
	if healthy.Name != "mailflow-app1" || healthy.MessageCount != 12 || healthy.MessagesInFlight != 4 {
		t.Errorf("healthy queue = %+v", healthy)
	}
	if healthy.Type != common.QueueTypeInbound {
		t.Errorf("healthy queue type = %q", healthy.Type)
	}

	degraded := resp.Queues[1]
	if degraded.Name != "mailflow-app1-dlq" || degraded.MessageCount != 0 || degraded.MessagesInFlight != 0 {
		t.Errorf("degraded queue = %+v, want zero counters", degraded)
	}
	if degraded.Type != common.QueueTypeDlq {
		t.Errorf("degraded queue type = %q", degraded.Type)
	}
}

func TestListQueuesBackendFailure(t *testing.T) {
	fb := &fakeBackend{listErr: fmt.Errorf("sqs unavailable")}
	qs := newQueuesService(fb)

	_, err := qs.ListQueues(context.Background())
	var apiErr *common.ApiError
	if !errors.As(err, &apiErr) || apiErr.Kind != common.KindBackend {
		t.Errorf("error = %v, want a backend ApiError", err)
	}
}

func TestPurgeQueue(t *testing.T) {
	fb := &fakeBackend{
		urlsByName: map[string]string{"mailflow-app1": "https://sqs/123/mailflow-app1"},
	}
	qs := newQueuesService(fb)

	resp, err := qs.PurgeQueue("mailflow-app1", context.Background())
	if err != nil {
		t.Fatalf("PurgeQueue() error: %v", err)
	}
	if !resp.Success {
		t.Error("purge response success = false")
	}
	if len(fb.purged) != 1 || fb.purged[0] != "https://sqs/123/mailflow-app1" {
		t.Errorf("purged = %v", fb.purged)
	}
}

func TestPurgeQueueNotFound(t *testing.T) {
	fb := &fakeBackend{urlsByName: map[string]string{}}
	qs := newQueuesService(fb)

	_, err := qs.PurgeQueue("missing", context.Background())
	var apiErr *common.ApiError
	if !errors.As(err, &apiErr) || apiErr.Kind != common.KindNotFound {
		t.Errorf("error = %v, want a not-found ApiError", err)
	}
}

func TestDeleteMessage(t *testing.T) {
	fb := &fakeBackend{
		urlsByName: map[string]string{"mailflow-app1": "https://sqs/123/mailflow-app1"},
	}
	qs := newQueuesService(fb)

	resp, err := qs.DeleteMessage("mailflow-app1", "rh-abc", context.Background())
	if err != nil {
		t.Fatalf("DeleteMessage() error: %v", err)
	}
	if !resp.Success {
		t.Error("delete response success = false")
	}
	if len(fb.deletedHandles) != 1 || fb.deletedHandles[0] != "rh-abc" {
		t.Errorf("deleted handles = %v", fb.deletedHandles)
	}
}

func TestRedriveMessage(t *testing.T) {
	fb := &fakeBackend{
		urlsByName: map[string]string{
			"mailflow-app1-dlq": "https://sqs/123/mailflow-app1-dlq",
			"mailflow-app1":     "https://sqs/123/mailflow-app1",
		},
	}
	qs := newQueuesService(fb)

	resp, err := qs.RedriveMessage("mailflow-app1-dlq", common.RedriveMessageRequest{
		ReceiptHandle:   "rh-abc",
		Body:            "payload",
		TargetQueueName: "mailflow-app1",
	}, context.Background())
	if err != nil {
		t.Fatalf("RedriveMessage() error: %v", err)
	}
	if !resp.Success {
		t.Error("redrive response success = false")
	}
	if len(fb.sentBodies) != 1 || fb.sentBodies[0] != "payload" {
		t.Errorf("sent bodies = %v", fb.sentBodies)
	}
	if len(fb.deletedHandles) != 1 || fb.deletedHandles[0] != "rh-abc" {
		t.Errorf("deleted handles = %v", fb.deletedHandles)
	}
}

func TestRedriveMessageSendFailure(t *testing.T) {
	fb := &fakeBackend{
		urlsByName: map[string]string{
			"mailflow-app1-dlq": "https://sqs/123/mailflow-app1-dlq",
			"mailflow-app1":     "https://sqs/123/mailflow-app1",
		},
		sendErr: fmt.Errorf("access denied"),
	}
	qs := newQueuesService(fb)

	_, err := qs.RedriveMessage("mailflow-app1-dlq", common.RedriveMessageRequest{
		ReceiptHandle:   "rh-abc",
		Body:            "payload",
		TargetQueueName: "mailflow-app1",
	}, context.Background())

	var apiErr *common.ApiError
	if !errors.As(err, &apiErr) || apiErr.Kind != common.KindBackend {
		t.Errorf("error = %v, want a backend ApiError", err)
	}
	if len(fb.deletedHandles) != 0 {
		t.Errorf("message was deleted although the send failed: %v", fb.deletedHandles)
	}
}

func TestRedriveMessageDeleteFailureSurfaces(t *testing.T) {
	fb := &fakeBackend{
		urlsByName: map[string]string{
			"mailflow-app1-dlq": "https://sqs/123/mailflow-app1-dlq",
			"mailflow-app1":     "https://sqs/123/mailflow-app1",
		},
		deleteErr: fmt.Errorf("receipt handle expired"),
	}
	qs := newQueuesService(fb)

	// the send lands, the delete fails: the message is now in both queues
	// and the caller must see an error, not success
	_, err := qs.RedriveMessage("mailflow-app1-dlq", common.RedriveMessageRequest{
		ReceiptHandle:   "rh-abc",
		Body:            "payload",
		TargetQueueName: "mailflow-app1",
	}, context.Background())

	var apiErr *common.ApiError
	if !errors.As(err, &apiErr) || apiErr.Kind != common.KindBackend {
		t.Errorf("error = %v, want a backend ApiError", err)
	}
	if len(fb.sentBodies) != 1 {
		t.Errorf("sent bodies = %v, the send should have happened", fb.sentBodies)
	}
}
