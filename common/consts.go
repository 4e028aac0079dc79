package common

const (
	// queue type markers:
	DlqSuffix      = "-dlq"
	DlqPrefix      = "dlq-"
	OutboundMarker = "outbound"

	// queue types:
	QueueTypeInbound  = "inbound"
	QueueTypeOutbound = "outbound"
	QueueTypeDlq      = "dlq"

	// trace headers:
	CorrelationIdHeader = "x-correlation-id"
	RequestIdHeader     = "x-request-id"

	// SQS hard limit on messages per receive call
	MaxMessagesPerReceive = 10
)
