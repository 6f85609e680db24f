// file: models/account.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Account struct {
	AccountID string    `gorm:"column:account_id;primaryKey;size:36" json:"account_id"`
	Email     string    `gorm:"column:email;size:100;unique;not null" json:"email"`
	Password  string    `gorm:"column:password;size:255;not null" json:"-"`
	Events    []string  `gorm:"column:events;serializer:json" json:"events"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Account) TableName() string {
	return "account"
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.AccountID == "" {
		a.AccountID = uuid.NewString()
	}
	return nil
}

// BeforeSave hashes the password for new accounts and whenever it changes.
func (a *Account) BeforeSave(tx *gorm.DB) error {
	if a.AccountID == "" || tx.Statement.Changed("Password") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		a.Password = string(hashedPassword)
	}
	return nil
}

func (a *Account) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password))
	return err == nil
}

// HasEvent reports whether the account already joined the given competition.
func (a *Account) HasEvent(tag string) bool {
	for _, e := range a.Events {
		if e == tag {
			return true
		}
	}
	return false
}
