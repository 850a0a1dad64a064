package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRequestOTP = "verification code sent"
	MessageSuccessVerifyOTP  = "phone number verified"
	MessageSuccessGetMe      = "user retrieved successfully"

	MessageFailedRequestOTP = "failed to send verification code"
	MessageFailedVerifyOTP  = "verification failed, please try again"
	MessageFailedGetMe      = "failed to retrieve user"

	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPhone    = errors.New("please enter a valid phone number")
	ErrOTPNotRequested = errors.New("no pending verification for this phone number")
	ErrInvalidOTP      = errors.New("invalid verification code")
)

type (
	RequestOTPRequest struct {
		Phone string `json:"phone" validate:"required,min=10,max=20"`
	}

	RequestOTPResponse struct {
		Phone     string    `json:"phone"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	VerifyOTPRequest struct {
		Phone string `json:"phone" validate:"required,min=10,max=20"`
		Code  string `json:"code" validate:"required,len=6,numeric"`
	}

	VerifyOTPResponse struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}

	UserResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
)
