package model

// CartItem 购物车条目。design_code 是加入时的快照，
// 下单时会原样落到 order_items 上。
type CartItem struct {
	DesignID   string `json:"design_id"`
	DesignCode string `json:"design_code"`
	ImageURL   string `json:"image_url,omitempty"`
	Quantity   int    `json:"quantity"`
}
