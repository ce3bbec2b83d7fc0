package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists   = 10001
	ErrUserNotFound = 10002
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 订单模块错误 200xx
	ErrOrderNotFound     = 20001
	ErrEmptyCart         = 20002
	ErrInvalidStatus     = 20003
	ErrInvalidTransition = 20004
	ErrNotOrderOwner     = 20005
	ErrOrderNotDelivered = 20006
	ErrAddressRequired   = 20007

	// 图样模块错误 300xx
	ErrDesignNotFound = 30001

	// 购物车模块错误 400xx
	ErrCartItemNotFound = 40001

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
