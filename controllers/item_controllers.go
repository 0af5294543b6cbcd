package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/services"
	"github.com/yeremiapane/beartracks/utils"
)

const defaultRecentItems = 6

type ItemController struct {
	Items *services.ItemService
}

func NewItemController(svc *services.Services) *ItemController {
	return &ItemController{Items: svc.Items}
}

// BrowseItems lists available items. Query: q, category, location, sort.
func (ic *ItemController) BrowseItems(c *gin.Context) {
	items := ic.Items.Browse(services.BrowseFilter{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		Location: c.Query("location"),
		Sort:     c.Query("sort"),
	})
	utils.RespondJSON(c, http.StatusOK, "Available items", items)
}

func (ic *ItemController) RecentItems(c *gin.Context) {
	limit := defaultRecentItems
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errInvalidLimit)
			return
		}
		limit = n
	}
	utils.RespondJSON(c, http.StatusOK, "Recent items", ic.Items.Recent(limit))
}

func (ic *ItemController) GetItem(c *gin.Context) {
	detail, err := ic.Items.Detail(c.Param("item_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item detail", detail)
}

// SubmitItem records a found item for the logged-in user.
func (ic *ItemController) SubmitItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := ic.Items.Submit(user.ID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item submitted", item)
}

// GetAllItems lists every item whatever its status.
func (ic *ItemController) GetAllItems(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "All items", ic.Items.List())
}

func (ic *ItemController) ApproveItem(c *gin.Context) {
	item, err := ic.Items.Approve(c.Param("item_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item approved", item)
}

// DeleteItem removes the item and every claim on it.
func (ic *ItemController) DeleteItem(c *gin.Context) {
	if err := ic.Items.Delete(c.Param("item_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item deleted", nil)
}

// GetMeta returns the fixed option lists used by the forms.
func (ic *ItemController) GetMeta(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Form options", gin.H{
		"categories":  models.Categories,
		"locations":   models.Locations,
		"gradeLevels": models.GradeLevels,
	})
}

func (ic *ItemController) GetStats(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Registry stats", ic.Items.Stats())
}
