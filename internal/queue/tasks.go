package queue

import (
	"encoding/json"

	"github.com/greenbasket/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPlacedNotify 下单成功通知任务
	TaskOrderPlacedNotify = constants.TaskOrderPlacedNotify
	// TaskOrderDeliveryReminder 配送提醒任务
	TaskOrderDeliveryReminder = constants.TaskOrderDeliveryReminder
)

// OrderPlacedNotifyPayload 下单通知任务载荷
type OrderPlacedNotifyPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderDeliveryReminderPayload 配送提醒任务载荷
type OrderDeliveryReminderPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderPlacedNotifyTask 创建下单通知任务
func NewOrderPlacedNotifyTask(payload OrderPlacedNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlacedNotify, body), nil
}

// NewOrderDeliveryReminderTask 创建配送提醒任务
func NewOrderDeliveryReminderTask(payload OrderDeliveryReminderPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderDeliveryReminder, body), nil
}
