package models

import "gorm.io/gorm"

// User is the account row in PostgreSQL. UserID is the stable ID issued by
// Firebase Auth and is the identity every other record refers to.
type User struct {
	gorm.Model  `json:"-"`
	UserID      string `json:"userId" gorm:"uniqueIndex"`
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	DisplayName string `json:"displayName"`
}

// DirectoryUser is the user's document in the store's "users" collection.
// It is written on registration and on display-name changes so the directory
// feed sees the full user set; everything except DisplayName is immutable.
type DirectoryUser struct {
	UserID      string `json:"userId" firestore:"userId"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"displayName" firestore:"displayName"`
}

// RegisterRequest defines the request body for account registration
type RegisterRequest struct {
	IDToken     string `json:"idToken" validate:"required"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=50"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" validate:"required,min=2,max=50"`
}
