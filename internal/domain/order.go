package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("order not found")

type MenuItem struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
}

// Order mirrors the order service representation. The upstream record is the
// source of truth; values of this type are snapshots.
type Order struct {
	ID         int64      `json:"id"`
	Customer   string     `json:"customer"`
	Items      []MenuItem `json:"items"`
	State      OrderState `json:"state"`
	Waiter     string     `json:"waiter,omitempty"`
	Barista    string     `json:"barista,omitempty"`
	CreateTime time.Time  `json:"createTime"`
	UpdateTime time.Time  `json:"updateTime"`
}

type NewOrderRequest struct {
	Customer string   `json:"customer"`
	Items    []string `json:"items"`
}

type OrderStateRequest struct {
	State OrderState `json:"state"`
}
