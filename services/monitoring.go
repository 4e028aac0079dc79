package services

import (
	"context"

	"github.com/mailflow/mailq/backend"
)

type MonitoringService struct {
	backend backend.Client
}

func NewMonitoringService(backendClient backend.Client) *MonitoringService {
	return &MonitoringService{
		backend: backendClient,
	}
}

func (ms *MonitoringService) IsHealthy(ctx context.Context) bool {
	_, err := ms.backend.ListQueueUrls(ctx)
	return err == nil
}
