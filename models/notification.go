package models

import (
	"time"
)

const (
	NotificationClaimSubmitted = "claim_submitted"
	NotificationClaimApproved  = "claim_approved"
	NotificationClaimDenied    = "claim_denied"
	NotificationItemClaimed    = "item_claimed"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ItemID    string    `json:"itemId,omitempty"`
	ClaimID   string    `json:"claimId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
