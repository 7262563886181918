package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleRenter UserRole = "renter"
	UserRoleStaff  UserRole = "staff"
	UserRoleAdmin  UserRole = "admin"
)

type User struct {
	gorm.Model
	FullName     string   `json:"fullName" gorm:"column:full_name;not null"`
	Email        string   `json:"email" gorm:"column:email;unique;not null"`
	Password     string   `json:"-" gorm:"-:migration"` // Temporary field for password handling
	PasswordHash string   `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber  string   `json:"phoneNumber" gorm:"column:phone_number"`
	Role         UserRole `json:"role" gorm:"column:role;not null;default:'renter'"`

	// Renter documents
	DriverLicenseNumber   string `json:"driverLicenseNumber,omitempty"`
	DriverLicenseImageUrl string `json:"driverLicenseImageUrl,omitempty"`
	IdCardNumber          string `json:"idCardNumber,omitempty"`
	IdCardImageUrl        string `json:"idCardImageUrl,omitempty"`
	IsVerified            bool   `json:"isVerified" gorm:"not null;default:false"`

	// Staff assignment
	StationID *uint    `json:"stationId,omitempty"`
	Station   *Station `json:"station,omitempty"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
