package domain

type Guest struct {
	ID           int64
	FullName     string
	Email        string // unique; lookup key for booking-application upserts
	PasswordHash string
	PhoneNumber  string
	Country      string
	Address      string
	City         string
}
