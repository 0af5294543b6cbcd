package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/store"
	"github.com/yeremiapane/beartracks/utils"
)

const (
	DefaultPickupLocation = "Main Office"
	DefaultAdminNote      = "Please bring your student ID when you pick up your item."
	UnknownItemTitle      = "Unknown Item"
)

type ClaimService struct {
	store         store.Store
	mu            *sync.Mutex
	notifications *NotificationService
}

type ClaimInput struct {
	Message     string `json:"message"`
	ContactInfo string `json:"contactInfo"`
}

type ApproveInput struct {
	PickupLocation string `json:"pickupLocation"`
	AdminNote      string `json:"adminNote"`
}

// ClaimView is a claim with the claimed item's title for admin listings.
type ClaimView struct {
	models.ClaimRequest
	ItemTitle string `json:"itemTitle"`
}

// Submit files a pending claim for itemID and notifies both the item's
// submitter and the claimant. A second pending claim by the same claimant on
// the same item is rejected before anything is written.
func (cs *ClaimService) Submit(claimant models.User, itemID string, in ClaimInput) (models.ClaimRequest, error) {
	if strings.TrimSpace(in.Message) == "" || strings.TrimSpace(in.ContactInfo) == "" {
		return models.ClaimRequest{}, validationError("message and contact info are required")
	}

	cs.mu.Lock()

	item, ok := findItem(cs.store.GetItems(), itemID)
	if !ok {
		cs.mu.Unlock()
		return models.ClaimRequest{}, ErrItemNotFound
	}

	claims := cs.store.GetClaims()
	for _, c := range claims {
		if c.ItemID == itemID && c.ClaimantID == claimant.ID && c.Status == models.ClaimPending {
			cs.mu.Unlock()
			return models.ClaimRequest{}, ErrDuplicateClaim
		}
	}

	claim := models.ClaimRequest{
		ID:           newID(),
		ItemID:       item.ID,
		ClaimantID:   claimant.ID,
		ClaimantName: claimant.Name,
		Message:      strings.TrimSpace(in.Message),
		ContactInfo:  strings.TrimSpace(in.ContactInfo),
		Status:       models.ClaimPending,
		CreatedAt:    now(),
	}
	if err := cs.store.SaveClaims(append(claims, claim)); err != nil {
		cs.mu.Unlock()
		return models.ClaimRequest{}, err
	}

	created, err := cs.notifications.appendLocked(
		models.Notification{
			UserID:  item.SubmittedBy,
			Type:    models.NotificationClaimSubmitted,
			Title:   "New Claim Submitted",
			Message: fmt.Sprintf("%s has submitted a claim for %q. Check the admin panel to review.", claimant.Name, item.Title),
			ItemID:  item.ID,
			ClaimID: claim.ID,
		},
		models.Notification{
			UserID:  claimant.ID,
			Type:    models.NotificationClaimSubmitted,
			Title:   "Claim Submitted",
			Message: fmt.Sprintf("Your claim for %q has been submitted successfully. You will be notified when an admin reviews it.", item.Title),
			ItemID:  item.ID,
			ClaimID: claim.ID,
		},
	)
	cs.mu.Unlock()
	if err != nil {
		return models.ClaimRequest{}, err
	}
	cs.notifications.publish(created...)

	utils.InfoLogger.Printf("Claim submitted: %s on item %s by %s", claim.ID, item.ID, claimant.ID)
	return claim, nil
}

// Approve marks a pending claim approved, hands the item to the claimant and
// notifies them. The item's current status is not checked: approving a
// second claim on the same item reassigns it.
func (cs *ClaimService) Approve(claimID string, in ApproveInput) (models.ClaimRequest, error) {
	pickup := strings.TrimSpace(in.PickupLocation)
	if pickup == "" {
		pickup = DefaultPickupLocation
	}
	note := strings.TrimSpace(in.AdminNote)
	if note == "" {
		note = DefaultAdminNote
	}

	cs.mu.Lock()

	claims := cs.store.GetClaims()
	idx, err := pendingClaimIndex(claims, claimID)
	if err != nil {
		cs.mu.Unlock()
		return models.ClaimRequest{}, err
	}
	claims[idx].Status = models.ClaimApproved
	claims[idx].PickupLocation = pickup
	claims[idx].AdminNote = note
	claim := claims[idx]
	if err := cs.store.SaveClaims(claims); err != nil {
		cs.mu.Unlock()
		return models.ClaimRequest{}, err
	}

	title := UnknownItemTitle
	items := cs.store.GetItems()
	for i := range items {
		if items[i].ID != claim.ItemID {
			continue
		}
		if items[i].ClaimedBy != "" && items[i].ClaimedBy != claim.ClaimantID {
			utils.InfoLogger.Warnf("Item %s reassigned from %s to %s", items[i].ID, items[i].ClaimedBy, claim.ClaimantID)
		}
		items[i].Status = models.ItemClaimed
		items[i].ClaimedBy = claim.ClaimantID
		title = items[i].Title
		if err := cs.store.SaveItems(items); err != nil {
			cs.mu.Unlock()
			return models.ClaimRequest{}, err
		}
		break
	}

	created, err := cs.notifications.appendLocked(models.Notification{
		UserID:  claim.ClaimantID,
		Type:    models.NotificationClaimApproved,
		Title:   "Claim Approved",
		Message: fmt.Sprintf("Your claim for %q has been approved! Pick it up at %s. %s", title, pickup, note),
		ItemID:  claim.ItemID,
		ClaimID: claim.ID,
	})
	cs.mu.Unlock()
	if err != nil {
		return models.ClaimRequest{}, err
	}
	cs.notifications.publish(created...)

	utils.InfoLogger.Printf("Claim approved: %s (item %s, pickup at %s)", claim.ID, claim.ItemID, pickup)
	return claim, nil
}

// Deny marks a pending claim denied and notifies the claimant. The item is
// left as it is.
func (cs *ClaimService) Deny(claimID string) (models.ClaimRequest, error) {
	cs.mu.Lock()

	claims := cs.store.GetClaims()
	idx, err := pendingClaimIndex(claims, claimID)
	if err != nil {
		cs.mu.Unlock()
		return models.ClaimRequest{}, err
	}
	claims[idx].Status = models.ClaimDenied
	claim := claims[idx]
	if err := cs.store.SaveClaims(claims); err != nil {
		cs.mu.Unlock()
		return models.ClaimRequest{}, err
	}

	title := UnknownItemTitle
	if item, ok := findItem(cs.store.GetItems(), claim.ItemID); ok {
		title = item.Title
	}

	created, err := cs.notifications.appendLocked(models.Notification{
		UserID:  claim.ClaimantID,
		Type:    models.NotificationClaimDenied,
		Title:   "Claim Denied",
		Message: fmt.Sprintf("Your claim for %q was not approved. Contact the main office if you think this is a mistake.", title),
		ItemID:  claim.ItemID,
		ClaimID: claim.ID,
	})
	cs.mu.Unlock()
	if err != nil {
		return models.ClaimRequest{}, err
	}
	cs.notifications.publish(created...)

	utils.InfoLogger.Printf("Claim denied: %s (item %s)", claim.ID, claim.ItemID)
	return claim, nil
}

func (cs *ClaimService) Get(id string) (models.ClaimRequest, error) {
	for _, c := range cs.store.GetClaims() {
		if c.ID == id {
			return c, nil
		}
	}
	return models.ClaimRequest{}, ErrClaimNotFound
}

// List returns every claim with its item title.
func (cs *ClaimService) List() []ClaimView {
	return cs.views(func(models.ClaimRequest) bool { return true })
}

func (cs *ClaimService) Pending() []ClaimView {
	return cs.views(func(c models.ClaimRequest) bool { return c.Status == models.ClaimPending })
}

func (cs *ClaimService) ByClaimant(claimantID string) []ClaimView {
	return cs.views(func(c models.ClaimRequest) bool { return c.ClaimantID == claimantID })
}

func (cs *ClaimService) views(keep func(models.ClaimRequest) bool) []ClaimView {
	titles := make(map[string]string)
	for _, item := range cs.store.GetItems() {
		titles[item.ID] = item.Title
	}

	result := make([]ClaimView, 0)
	for _, c := range cs.store.GetClaims() {
		if !keep(c) {
			continue
		}
		title, ok := titles[c.ItemID]
		if !ok {
			title = UnknownItemTitle
		}
		result = append(result, ClaimView{ClaimRequest: c, ItemTitle: title})
	}
	return result
}

func pendingClaimIndex(claims []models.ClaimRequest, id string) (int, error) {
	for i, c := range claims {
		if c.ID != id {
			continue
		}
		if c.Status != models.ClaimPending {
			return -1, ErrClaimNotPending
		}
		return i, nil
	}
	return -1, ErrClaimNotFound
}

func findItem(items []models.FoundItem, id string) (models.FoundItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return models.FoundItem{}, false
}
