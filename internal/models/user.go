package models

import (
	"strings"
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CustomerID   string    `json:"customer_id" gorm:"uniqueIndex;size:64;not null"`
	Username     string    `json:"username" gorm:"size:128;index"`
	Name         string    `json:"name" gorm:"size:128;index"`
	Alias        string    `json:"alias" gorm:"size:128"`
	Password     string    `json:"-" gorm:"size:255"`
	Role         string    `json:"role" gorm:"size:32;default:'user'"`
	Route        string    `json:"route" gorm:"size:255;index"`
	Status       string    `json:"status" gorm:"size:16;default:'active'"`
	Phone        string    `json:"phone" gorm:"size:32;index"`
	AddressLine1 string    `json:"address_line1" gorm:"size:255"`
	AddressLine2 string    `json:"address_line2" gorm:"size:255"`
	City         string    `json:"city" gorm:"size:64"`
	State        string    `json:"state" gorm:"size:64"`
	Zip          string    `json:"zip" gorm:"size:16"`
	GSTNumber    string    `json:"gst_number" gorm:"size:32"`
	Designation  string    `json:"designation" gorm:"size:64"`
	AadharNumber string    `json:"aadhar_number" gorm:"size:32"`
	PanNumber    string    `json:"pan_number" gorm:"size:32"`
	DLNumber     string    `json:"dl_number" gorm:"size:32"`
	Notes        string    `json:"notes" gorm:"type:text"`
	PriceMode    string    `json:"price_mode" gorm:"size:32"`
	AutoAMOrder  *string   `json:"auto_am_order" gorm:"column:auto_am_order;size:8"`
	AutoPMOrder  *string   `json:"auto_pm_order" gorm:"column:auto_pm_order;size:8"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserRole string

const (
	SuperAdmin UserRole = "superadmin"
	Admin      UserRole = "admin"
	Customer   UserRole = "user"
)

type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserBlocked UserStatus = "blocked"
)

func (u *User) IsSalesman() bool {
	return strings.EqualFold(u.Role, string(Admin))
}

// AutoOrderEnabled reports whether the customer opted into automatic orders for the shift.
func (u *User) AutoOrderEnabled(orderType OrderType) bool {
	flag := u.AutoAMOrder
	if orderType == OrderTypePM {
		flag = u.AutoPMOrder
	}
	return flag != nil && strings.EqualFold(strings.TrimSpace(*flag), "yes")
}
