package service

import (
	"strings"

	"github.com/greenbasket/internal/constants"
)

// allowedTransitions 订单状态机。delivered 与 cancelled 为终态。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusDelivered: true,
		constants.OrderStatusCancelled: true,
	},
}

// canTransition 判断状态迁移是否合法
func canTransition(current, target string) bool {
	current = strings.ToLower(strings.TrimSpace(current))
	target = strings.ToLower(strings.TrimSpace(target))
	if current == "" || target == "" || current == target {
		return false
	}
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}
