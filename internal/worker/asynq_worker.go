package worker

import (
	"context"
	"encoding/json"

	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/logger"
	"github.com/greenbasket/internal/provider"
	"github.com/greenbasket/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlacedNotify, c.handleOrderPlacedNotify)
	mux.HandleFunc(queue.TaskOrderDeliveryReminder, c.handleOrderDeliveryReminder)
}

// handleOrderPlacedNotify 下单通知。订单已提交成功，
// 这里的失败交给 asynq 重试，绝不反向影响订单。
func (c *Consumer) handleOrderPlacedNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_placed_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPlacedNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_placed_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_placed_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_placed_notify_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_placed_notify_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	user, err := c.UserRepo.GetByID(order.UserID)
	if err != nil {
		logger.Warnw("worker_order_placed_notify_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return err
	}
	email := ""
	if user != nil {
		email = user.Email
	}
	// TODO: 接入站内信/短信渠道后替换为真实投递
	logger.Infow("order_placed_notification",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"email", email,
		"total_amount", order.TotalAmount.String(),
		"delivery_date", order.DeliveryDate.Format("2006-01-02"),
	)
	return nil
}

// handleOrderDeliveryReminder 配送提醒，已取消或已送达的订单跳过
func (c *Consumer) handleOrderDeliveryReminder(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_delivery_reminder_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderDeliveryReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_delivery_reminder_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_delivery_reminder_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_delivery_reminder_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_delivery_reminder_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	if order.Status == constants.OrderStatusCancelled || order.Status == constants.OrderStatusDelivered {
		logger.Debugw("worker_order_delivery_reminder_skip_terminal", "order_id", order.ID, "status", order.Status)
		return nil
	}
	slotLabel := ""
	if order.DeliverySlot != nil {
		slotLabel = order.DeliverySlot.Label
	}
	logger.Infow("order_delivery_reminder",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"delivery_date", order.DeliveryDate.Format("2006-01-02"),
		"slot", slotLabel,
	)
	return nil
}
