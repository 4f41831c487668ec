package models

import "time"

// SalesmanRoute is one route covered by a salesman (a user with the admin role).
type SalesmanRoute struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	SalesmanID uint   `json:"salesman_id" gorm:"not null;uniqueIndex:idx_salesman_route"`
	Route      string `json:"route" gorm:"size:128;not null;uniqueIndex:idx_salesman_route;index"`
}

// AdminAssign records that a salesman covers a customer on a route.
type AdminAssign struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AdminID      uint      `json:"admin_id" gorm:"not null;uniqueIndex:idx_admin_customer_route"`
	CustomerID   string    `json:"customer_id" gorm:"size:64;not null;uniqueIndex:idx_admin_customer_route;index"`
	Route        string    `json:"route" gorm:"size:128;not null;uniqueIndex:idx_admin_customer_route"`
	AssignedDate time.Time `json:"assigned_date"`
	Status       string    `json:"status" gorm:"size:16;default:'assigned'"`
}

func (AdminAssign) TableName() string {
	return "admin_assign"
}

const AssignmentAssigned = "assigned"
