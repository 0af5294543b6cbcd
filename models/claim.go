package models

import "time"

const (
	ClaimPending  = "pending"
	ClaimApproved = "approved"
	ClaimDenied   = "denied"
)

type ClaimRequest struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"itemId"`
	ClaimantID     string    `json:"claimantId"`
	ClaimantName   string    `json:"claimantName"`
	Message        string    `json:"message"`
	ContactInfo    string    `json:"contactInfo"`
	Status         string    `json:"status"`
	PickupLocation string    `json:"pickupLocation,omitempty"`
	AdminNote      string    `json:"adminNote,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
