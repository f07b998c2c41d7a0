package testutil

import (
	"github.com/roach88/xrq/internal/xr"
	"github.com/roach88/xrq/internal/xrtype"
)

// Shared row types for tests.
//
// PersonType and AddressType share no fields, so their meet is an empty
// product. PersonType and EmployeeType share name and age.
var (
	PersonType = xrtype.NewProduct("Person",
		xrtype.F("name", xrtype.Value{}),
		xrtype.F("age", xrtype.Value{}),
	)

	AddressType = xrtype.NewProduct("Address",
		xrtype.F("owner_id", xrtype.Value{}),
		xrtype.F("street", xrtype.Value{}),
	)

	EmployeeType = xrtype.NewProduct("Employee",
		xrtype.F("name", xrtype.Value{}),
		xrtype.F("age", xrtype.Value{}),
		xrtype.F("salary", xrtype.Value{}),
	)
)

// People is the person table.
func People() xr.Entity {
	return xr.Entity{Name: "person", Type: PersonType}
}

// Addresses is the address table.
func Addresses() xr.Entity {
	return xr.Entity{Name: "address", Type: AddressType}
}

// Employees is the employee table.
func Employees() xr.Entity {
	return xr.Entity{Name: "employee", Type: EmployeeType}
}

// PersonID is an identifier bound to a Person row.
func PersonID(name string) xr.Ident {
	return xr.Id(name, PersonType)
}

// AddressID is an identifier bound to an Address row.
func AddressID(name string) xr.Ident {
	return xr.Id(name, AddressType)
}

// ValueID is a scalar identifier.
func ValueID(name string) xr.Ident {
	return xr.Id(name, xrtype.Value{})
}

// BoolID is a boolean identifier.
func BoolID(name string) xr.Ident {
	return xr.Id(name, xrtype.BooleanValue{})
}

// AdultsOf builds `head.filter { id -> id.age > 18 }`.
func AdultsOf(head xr.Query, id xr.Ident) xr.Filter {
	return xr.Filter{
		Head: head,
		ID:   id,
		Body: xr.Binary(xr.Prop(id, "age"), xr.OpGt, xr.Int(18)),
	}
}

// NamesOf builds `head.map { id -> id.name }`.
func NamesOf(head xr.Query, id xr.Ident) xr.Map {
	return xr.Map{Head: head, ID: id, Body: xr.Prop(id, "name")}
}
