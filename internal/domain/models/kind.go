package models

// EntityKind - тип сущности с жизненным циклом active/inactive
type EntityKind string

const (
	KindCustomer EntityKind = "customer"
	KindProduct  EntityKind = "product"
)
