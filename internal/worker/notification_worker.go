package worker

import (
	"go.uber.org/zap"

	"github.com/streamline-erp/ticket-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to ticket events.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker subscribed to ticket events")
}
