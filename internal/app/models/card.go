package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// DefaultInstitution is used when a card is issued without an institution name
const DefaultInstitution = "Universidade Exemplo"

// Card defines the student ID card model based on the 'cards' table
type Card struct {
	ID               int64     `json:"id" db:"id" example:"1"`                                            // Unique identifier assigned by the store
	FullName         string    `json:"fullName" db:"full_name" example:"Maria Silva"`                     // Student's full name
	Photo            string    `json:"photo" db:"photo"`                                                  // Photo URL or embedded data URI
	EnrollmentNumber string    `json:"enrollmentNumber" db:"enrollment_number" example:"20230123"`        // Student's enrollment number
	Course           string    `json:"course" db:"course" example:"Ciência da Computação"`                // Course name
	Institution      string    `json:"institution" db:"institution" example:"Universidade Exemplo"`       // Issuing institution
	BirthDate        time.Time `json:"birthDate" db:"birth_date"`                                         // Student's date of birth
	ValidUntil       time.Time `json:"validUntil" db:"valid_until"`                                       // Card expiration date
	NationalID       string    `json:"nationalId" db:"national_id" example:"123.456.789-00"`              // CPF in the format 000.000.000-00
	VerificationID   string    `json:"verificationId" db:"verification_id" example:"a1b2c3d4e5f6a7b8c9d0"` // Public lookup token for authenticity checks
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`                                         // Creation timestamp, set once by the store
}

// NewVerificationID generates an unguessable public lookup token.
// Ten random bytes rendered as hex, so the token is 20 characters long.
func NewVerificationID() string {
	buf := make([]byte, 10)
	// rand.Read on crypto/rand never returns a partial read without an error
	if _, err := rand.Read(buf); err != nil {
		panic("models: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
