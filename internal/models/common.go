// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type Category string

const (
	CategoryMousepad  Category = "MOUSEPAD"
	CategoryPhoneCase Category = "PHONE_CASE"
	CategoryTShirt    Category = "TSHIRT"
	CategoryBedding   Category = "BEDDING"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryMousepad, CategoryPhoneCase, CategoryTShirt, CategoryBedding:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusProducing OrderStatus = "PRODUCING"
	OrderStatusQA        OrderStatus = "QA"
	OrderStatusShipping  OrderStatus = "SHIPPING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

type OptionKind string

const (
	OptionKindColor  OptionKind = "color"
	OptionKindSelect OptionKind = "select"
	OptionKindSize   OptionKind = "size"
	OptionKindFabric OptionKind = "fabric"
)
