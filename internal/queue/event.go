// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// AccountCreatedEvent is published after a successful signup. Downstream
// consumers (welcome email, analytics) get everything they need without
// querying the primary database. The password hash never leaves the users
// table.
type AccountCreatedEvent struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// ProductCreatedEvent is published when a seller lists a new product.
type ProductCreatedEvent struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SellerID    string `json:"seller_id"`
	Origin      string `json:"origin,omitempty"`
}
