package common

// QueueInfo describes one queue as seen by the dashboard. Counts come from
// the backend's approximate counters and are recomputed on every request.
type QueueInfo struct {
	Name             string `json:"name"`
	Url              string `json:"url"`
	Type             string `json:"type"`
	MessageCount     int    `json:"messageCount"`
	MessagesInFlight int    `json:"messagesInFlight"`
}

// MessageInfo is a transient view of one in-flight message. The receipt
// handle is only valid while the peek visibility timeout has not elapsed.
type MessageInfo struct {
	MessageId     string            `json:"messageId"`
	ReceiptHandle string            `json:"receiptHandle"`
	Body          string            `json:"body"`
	Attributes    map[string]string `json:"attributes"`
	Preview       string            `json:"preview"`
}

// TraceContext is attached once per inbound request and is immutable for the
// request's lifetime.
type TraceContext struct {
	CorrelationId string
	RequestId     string
}

type DeleteMessageRequest struct {
	ReceiptHandle string `json:"receiptHandle"`
}

type RedriveMessageRequest struct {
	ReceiptHandle   string `json:"receiptHandle"`
	Body            string `json:"body"`
	TargetQueueName string `json:"targetQueueName"`
}
