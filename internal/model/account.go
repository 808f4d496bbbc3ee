package model

import "time"

// Account represents a registered user as stored in the `Account` table.
// The profile attributes are optional; pointers are nil when the column is
// NULL. Numeric sentinels such as -1 are never used to mean "absent".
//
// Fields:
//  AccountID    – 20-character server-generated identifier (primary key).
//  Username     – unique login name, case-sensitive as stored.
//  PasswordHash – bcrypt hashed password.
//  BirthYear    – optional year of birth.
//  Weight       – optional weight in pounds.
//  Sex          – optional, "male" or "female".
//  Height       – optional height in inches.
//  CreatedAt    – timestamp of account creation.
type Account struct {
	AccountID    string    // Account.accountID
	Username     string    // Account.username
	PasswordHash string    // Account.password
	BirthYear    *int      // Account.birthyear (nullable)
	Weight       *int      // Account.weight (nullable)
	Sex          *string   // Account.sex (nullable)
	Height       *int      // Account.height (nullable)
	CreatedAt    time.Time // Account.createdAt
}
