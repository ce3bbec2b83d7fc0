package model

// 订单状态。下单后是 placed，之后由管理员推进。
const (
	StatusPlaced     = "placed"
	StatusAccepted   = "accepted"
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// 支付状态
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// AllStatuses 管理后台下拉框用的完整状态列表
var AllStatuses = []string{
	StatusPlaced,
	StatusAccepted,
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// StatusLabels 状态展示文案
var StatusLabels = map[string]string{
	StatusPlaced:     "Order Placed",
	StatusAccepted:   "Order Accepted",
	StatusPending:    "Pending",
	StatusConfirmed:  "Confirmed",
	StatusInProgress: "In Progress",
	StatusShipped:    "Shipped",
	StatusDelivered:  "Delivered",
	StatusCancelled:  "Cancelled",
}

// IsValidStatus 是否是已知状态
func IsValidStatus(status string) bool {
	_, ok := StatusLabels[status]
	return ok
}

// IsValidPaymentStatus 是否是已知支付状态
func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// IsTerminal 终态订单不再推进
func IsTerminal(status string) bool {
	return status == StatusDelivered || status == StatusCancelled
}

// CanTransition 状态流转校验。管理员可以在非终态之间任意切换
// （包括回退），终态只允许幂等的原状态重设。
func CanTransition(current, target string) bool {
	if !IsValidStatus(current) || !IsValidStatus(target) {
		return false
	}
	if current == target {
		return true
	}
	if IsTerminal(current) {
		return false
	}
	return true
}
