package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/store"
	"github.com/yeremiapane/beartracks/utils"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTitle  = "title"
)

type ItemService struct {
	store store.Store
	mu    *sync.Mutex
}

type ItemInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	DateFound   string   `json:"dateFound"`
	Photos      []string `json:"photos"`
}

// BrowseFilter narrows the public item list. Empty fields match everything.
type BrowseFilter struct {
	Search   string
	Category string
	Location string
	Sort     string
}

// ItemDetail is an item with its submitter's display name resolved.
type ItemDetail struct {
	models.FoundItem
	SubmitterName string `json:"submitterName"`
}

type Stats struct {
	AvailableItems int `json:"availableItems"`
	PendingClaims  int `json:"pendingClaims"`
	ClaimedItems   int `json:"claimedItems"`
	TotalUsers     int `json:"totalUsers"`
}

// Submit records a found item as available, whatever claims already exist.
func (is *ItemService) Submit(submitterID string, in ItemInput) (models.FoundItem, error) {
	if submitterID == "" {
		return models.FoundItem{}, validationError("submitter is required")
	}
	if err := validateItem(in); err != nil {
		return models.FoundItem{}, err
	}

	photos := in.Photos
	if photos == nil {
		photos = []string{}
	}
	item := models.FoundItem{
		ID:          newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Location:    in.Location,
		DateFound:   in.DateFound,
		Photos:      photos,
		Status:      models.ItemAvailable,
		SubmittedBy: submitterID,
		CreatedAt:   now(),
	}

	is.mu.Lock()
	defer is.mu.Unlock()

	if err := is.store.SaveItems(append(is.store.GetItems(), item)); err != nil {
		return models.FoundItem{}, err
	}
	utils.InfoLogger.Printf("Item submitted: %s (%s) by %s", item.Title, item.ID, submitterID)
	return item, nil
}

func validateItem(in ItemInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return validationError("title is required")
	}
	if !models.Contains(models.Categories, in.Category) {
		return validationError("unknown category %q", in.Category)
	}
	if !models.Contains(models.Locations, in.Location) {
		return validationError("unknown location %q", in.Location)
	}
	if _, err := time.Parse(models.DateFoundLayout, in.DateFound); err != nil {
		return validationError("dateFound must be YYYY-MM-DD")
	}
	return nil
}

func (is *ItemService) Get(id string) (models.FoundItem, error) {
	for _, item := range is.store.GetItems() {
		if item.ID == id {
			return item, nil
		}
	}
	return models.FoundItem{}, ErrItemNotFound
}

func (is *ItemService) Detail(id string) (ItemDetail, error) {
	item, err := is.Get(id)
	if err != nil {
		return ItemDetail{}, err
	}
	name := UnknownUserName
	for _, u := range is.store.GetUsers() {
		if u.ID == item.SubmittedBy {
			name = u.Name
			break
		}
	}
	return ItemDetail{FoundItem: item, SubmitterName: name}, nil
}

// List returns every item in stored order.
func (is *ItemService) List() []models.FoundItem {
	return is.store.GetItems()
}

// Browse returns the available items that match f, sorted by f.Sort.
func (is *ItemService) Browse(f BrowseFilter) []models.FoundItem {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	result := make([]models.FoundItem, 0)
	for _, item := range is.store.GetItems() {
		if item.Status != models.ItemAvailable {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Title), search) &&
			!strings.Contains(strings.ToLower(item.Description), search) {
			continue
		}
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if f.Location != "" && item.Location != f.Location {
			continue
		}
		result = append(result, item)
	}

	sortItems(result, f.Sort)
	return result
}

// Recent returns up to n available items, newest first.
func (is *ItemService) Recent(n int) []models.FoundItem {
	items := is.Browse(BrowseFilter{Sort: SortNewest})
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

func sortItems(items []models.FoundItem, order string) {
	switch order {
	case SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		})
	case SortTitle:
		col := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(items, func(i, j int) bool {
			return col.CompareString(items[i].Title, items[j].Title) < 0
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	}
}

// Approve makes an item available again.
func (is *ItemService) Approve(id string) (models.FoundItem, error) {
	is.mu.Lock()
	defer is.mu.Unlock()

	items := is.store.GetItems()
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Status = models.ItemAvailable
		if err := is.store.SaveItems(items); err != nil {
			return models.FoundItem{}, err
		}
		utils.InfoLogger.Printf("Item approved: %s", id)
		return items[i], nil
	}
	return models.FoundItem{}, ErrItemNotFound
}

// Delete removes the item and every claim that references it. Claimants are
// not notified.
func (is *ItemService) Delete(id string) error {
	is.mu.Lock()
	defer is.mu.Unlock()

	items := is.store.GetItems()
	kept := make([]models.FoundItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return ErrItemNotFound
	}
	if err := is.store.SaveItems(kept); err != nil {
		return err
	}

	claims := is.store.GetClaims()
	keptClaims := make([]models.ClaimRequest, 0, len(claims))
	for _, claim := range claims {
		if claim.ItemID != id {
			keptClaims = append(keptClaims, claim)
		}
	}
	if err := is.store.SaveClaims(keptClaims); err != nil {
		return err
	}

	utils.InfoLogger.Printf("Item deleted: %s (%d claims removed)", id, len(claims)-len(keptClaims))
	return nil
}

func (is *ItemService) Stats() Stats {
	var stats Stats
	for _, item := range is.store.GetItems() {
		switch item.Status {
		case models.ItemAvailable:
			stats.AvailableItems++
		case models.ItemClaimed:
			stats.ClaimedItems++
		}
	}
	for _, claim := range is.store.GetClaims() {
		if claim.Status == models.ClaimPending {
			stats.PendingClaims++
		}
	}
	stats.TotalUsers = len(is.store.GetUsers())
	return stats
}
