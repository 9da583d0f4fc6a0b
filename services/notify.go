package services

import (
	"context"
	"encoding/json"
	"log"

	"socialnet/models"
)

type wsNotify struct {
	NotifyType string `json:"notify_type"`
	Message    string `json:"message"`
}

// SendWsNotify - отправка короткого уведомления через WebSocket
func SendWsNotify(userID int64, notifyType string, message string) error {
	if len(notifyType) == 0 {
		notifyType = "info"
	}
	if len(message) == 0 {
		return nil
	}
	if len(message) > 100 {
		message = message[:100] + "..."
	}
	notify := wsNotify{NotifyType: notifyType, Message: message}
	jsonData, err := json.Marshal(notify)
	if err != nil {
		return err
	}
	NotificationHub.Send(userID, jsonData)
	return nil
}

// pushNotification рассылает свежесозданное уведомление по живым каналам:
// в exchange для внешних доставщиков и напрямую в WebSocket. Best-effort -
// HTTP-путь никогда не ждет и не падает из-за доставки.
func pushNotification(n models.Notification) {
	if rabbitChannel != nil {
		event := NotificationEvent{
			NotificationID: n.ID,
			ReceiverID:     n.ReceiverUserID,
			SenderID:       n.SenderUserID,
			Type:           n.Type,
			Text:           n.Text,
			CreatedAt:      n.CreatedAt,
		}
		if err := PublishNotificationEvent(context.Background(), event); err != nil {
			log.Printf("push: failed to publish notification %d: %v", n.ID, err)
		}
		return
	}
	// Без брокера пушим напрямую подключенным клиентам
	_ = SendWsNotify(n.ReceiverUserID, string(n.Type), n.Text)
}
