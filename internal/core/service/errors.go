package service

import (
	"errors"
)

var (
	ErrUnknownView = errors.New("unknown view")
	ErrForbidden   = errors.New("admin access required")
)

// ValidationError is a client-side rejection raised before any network call.
// Its text is shown to the user as is.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

// userMessager is implemented by upstream errors that carry a server-reported
// message.
type userMessager interface {
	UserMessage() string
}

// DisplayMessage collapses err into the single string shown to the user.
func DisplayMessage(err error, fallback string) string {
	var ve ValidationError
	if errors.As(err, &ve) {
		return string(ve)
	}
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return fallback
}

const (
	msgFetchCategories     = "Failed to fetch categories"
	msgFetchProducts       = "Failed to fetch products"
	msgFetchOrders         = "Failed to fetch orders"
	msgNoOrders            = "No orders found"
	msgFetchProductDetails = "Failed to fetch product details"
	msgFetchReviews        = "Failed to fetch reviews"
	msgPlaceOrder          = "Failed to place order"
	msgSubmitReview        = "Failed to submit review"
	msgRegister            = "Registration failed"
	msgInvalidCredentials  = "Invalid username or password"
	msgConnect             = "Failed to connect to server. Please try again."
	msgAddProduct          = "Failed to add product"
	msgUpdateProduct       = "Failed to update product"
	msgDeleteProduct       = "Failed to delete product"
	msgUpdateOrder         = "Failed to update order"
	msgCreateReceipt       = "Failed to create receipt"
)
