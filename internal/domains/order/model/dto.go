package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ListOrdersQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (q *ListOrdersQuery) Normalize() {
	q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

func (q ListOrdersQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Status, validation.In(
			string(StatusPending), string(StatusProcessing), string(StatusShipped),
			string(StatusDelivered), string(StatusCancelled),
		).Error("unknown order status")),
	)
}

func (q ListOrdersQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Customer identifies whose orders to list. Orders placed before signing up
// match on email only.
type Customer struct {
	UserID string
	Email  string
}
