package models

// CartRequest represents an incoming add-to-cart request
type CartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartAck acknowledges an add-to-cart request.
// Nothing is stored; the ID only correlates the request in logs.
type CartAck struct {
	ID       string  `json:"id"`
	Success  bool    `json:"success"`
	Quantity int     `json:"quantity"`
	Product  Product `json:"product"`
	Message  string  `json:"message"`
}
