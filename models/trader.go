package models

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// Trader (feirante) owns items by name. Inventory is never persisted with the
// trader; it is resolved from the items whose owner matches Name.
type Trader struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement;column:feirante_id" bson:"_id" json:"feiranteId"`
	Name      string `gorm:"size:191;index" bson:"name" json:"name"`
	Password  string `gorm:"size:255" bson:"password" json:"-"`
	Inventory []Item `gorm:"-" bson:"-" json:"inventory"`
}

// HashPassword replaces the password with its bcrypt hash.
func (t *Trader) HashPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	t.Password = string(hashed)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (t *Trader) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(t.Password), prehash(password))
	return err == nil
}

// prehash folds a password of any length into 44 bytes, below bcrypt's
// 72 byte input limit.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
