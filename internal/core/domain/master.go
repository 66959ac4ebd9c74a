package domain

import "github.com/shopspring/decimal"

// Entity is the header shared by master-data records that have no lifecycle.
type Entity struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	AuditFields
}

func (e *Entity) GetID() string           { return e.ID }
func (e *Entity) SetID(id string)         { e.ID = id }
func (e *Entity) GetNumber() string       { return e.Number }
func (e *Entity) SetNumber(number string) { e.Number = number }
func (e *Entity) GetAudit() *AuditFields  { return &e.AuditFields }

// Customer is a client of the destruction service.
type Customer struct {
	Entity
	Name           string `json:"name" validate:"required"`
	ContactName    string `json:"contact_name,omitempty"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string `json:"phone,omitempty"`
	BillingAddress string `json:"billing_address,omitempty"`
	ServiceAddress string `json:"service_address,omitempty"`
	Notes          string `json:"notes,omitempty"`
	IsActive       bool   `json:"is_active"`
}

// Vendor is a supplier that expenses are paid to.
type Vendor struct {
	Entity
	Name        string `json:"name" validate:"required"`
	ContactName string `json:"contact_name,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Notes       string `json:"notes,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// Service is a catalog entry line items may reference.
type Service struct {
	Entity
	Name             string          `json:"name" validate:"required"`
	Description      string          `json:"description,omitempty"`
	DefaultUnitPrice decimal.Decimal `json:"default_unit_price"`
	Unit             string          `json:"unit,omitempty"`
	IsActive         bool            `json:"is_active"`
}

// CustomerRequest is an inbound service request that may become an estimate.
type CustomerRequest struct {
	Entity
	CustomerID    string `json:"customer_id,omitempty"`
	ContactName   string `json:"contact_name" validate:"required"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty"`
	ServiceType   string `json:"service_type,omitempty"`
	Message       string `json:"message,omitempty"`
	PreferredDate string `json:"preferred_date,omitempty"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=new contacted quoted closed"`
}
