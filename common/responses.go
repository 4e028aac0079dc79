package common

type QueuesResponse struct {
	Queues []QueueInfo `json:"queues"`
}

type MessagesResponse struct {
	QueueName  string        `json:"queueName"`
	Messages   []MessageInfo `json:"messages"`
	TotalCount int           `json:"totalCount"`
	QueueInfo  *QueueInfo    `json:"queueInfo"`
}

type OperationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
}
