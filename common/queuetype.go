package common

import "strings"

// QueueTypeOf derives the queue type from its name. The DLQ check runs first,
// so a name matching both the DLQ and outbound markers is a DLQ.
func QueueTypeOf(queueName string) string {
	name := strings.ToLower(queueName)
	if strings.Contains(name, DlqSuffix) || strings.HasPrefix(name, DlqPrefix) {
		return QueueTypeDlq
	}
	if strings.Contains(name, OutboundMarker) {
		return QueueTypeOutbound
	}
	return QueueTypeInbound
}
