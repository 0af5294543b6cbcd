package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/store"
)

// PickupSlip is what an approved claimant shows at the pickup location.
type PickupSlip struct {
	Number         string    `json:"number"`
	ClaimID        string    `json:"claimId"`
	ItemTitle      string    `json:"itemTitle"`
	ItemCategory   string    `json:"itemCategory"`
	FoundAt        string    `json:"foundAt"`
	DateFound      string    `json:"dateFound"`
	ClaimantName   string    `json:"claimantName"`
	ContactInfo    string    `json:"contactInfo"`
	PickupLocation string    `json:"pickupLocation"`
	AdminNote      string    `json:"adminNote"`
	IssuedAt       time.Time `json:"issuedAt"`
}

type PickupSlipService struct {
	store store.Store
}

// Build assembles the slip for an approved claim.
func (ps *PickupSlipService) Build(claimID string) (PickupSlip, error) {
	var claim *models.ClaimRequest
	for _, c := range ps.store.GetClaims() {
		if c.ID == claimID {
			found := c
			claim = &found
			break
		}
	}
	if claim == nil {
		return PickupSlip{}, ErrClaimNotFound
	}
	if claim.Status != models.ClaimApproved {
		return PickupSlip{}, validationError("claim %s is %s, only approved claims get a pickup slip", claim.ID, claim.Status)
	}

	issued := now()
	slip := PickupSlip{
		Number:         slipNumber(issued, claim.ID),
		ClaimID:        claim.ID,
		ItemTitle:      UnknownItemTitle,
		ClaimantName:   claim.ClaimantName,
		ContactInfo:    claim.ContactInfo,
		PickupLocation: claim.PickupLocation,
		AdminNote:      claim.AdminNote,
		IssuedAt:       issued,
	}
	if item, ok := findItem(ps.store.GetItems(), claim.ItemID); ok {
		slip.ItemTitle = item.Title
		slip.ItemCategory = item.Category
		slip.FoundAt = item.Location
		slip.DateFound = item.DateFound
	}
	return slip, nil
}

func slipNumber(issued time.Time, claimID string) string {
	prefix := strings.ReplaceAll(claimID, "-", "")
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("PKP/%s/%s", issued.Format("20060102"), strings.ToUpper(prefix))
}

// Render writes the slip as a one page PDF.
func (ps *PickupSlipService) Render(w io.Writer, slip PickupSlip) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Pickup Slip "+slip.Number, true)
	pdf.SetCreator("BearTracks", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "BearTracks Lost & Found", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Pickup Slip "+slip.Number, "B", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Item", slip.ItemTitle},
		{"Category", slip.ItemCategory},
		{"Found at", slip.FoundAt},
		{"Date found", slip.DateFound},
		{"Claimant", slip.ClaimantName},
		{"Contact", slip.ContactInfo},
		{"Pick up at", slip.PickupLocation},
		{"Issued", slip.IssuedAt.Format("2006-01-02 15:04")},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(32, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, tr(row[1]), "", 1, "L", false, 0, "")
	}

	if slip.AdminNote != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, tr(slip.AdminNote), "1", "L", false)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(60, 7, "Received by (signature)", "T", 0, "L", false, 0, "")

	return pdf.Output(w)
}
