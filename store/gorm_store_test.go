package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/store"
	"github.com/yeremiapane/beartracks/store/storetest"
)

func TestEmptyCollections(t *testing.T) {
	st := storetest.New(t)

	assert.Empty(t, st.GetUsers())
	assert.NotNil(t, st.GetUsers())
	assert.Empty(t, st.GetItems())
	assert.Empty(t, st.GetClaims())
	assert.Empty(t, st.GetNotifications())
	assert.Nil(t, st.GetCurrentUser())
}

func TestSaveOverwritesWholeCollection(t *testing.T) {
	st := storetest.New(t)

	require.NoError(t, st.SaveUsers([]models.User{{ID: "u1"}, {ID: "u2"}}))
	require.NoError(t, st.SaveUsers([]models.User{{ID: "u3"}}))

	users := st.GetUsers()
	require.Len(t, users, 1)
	assert.Equal(t, "u3", users[0].ID)
}

func TestItemsRoundTripKeepsFields(t *testing.T) {
	st := storetest.New(t)
	created := time.Date(2024, 10, 28, 9, 0, 0, 0, time.UTC)

	require.NoError(t, st.SaveItems([]models.FoundItem{{
		ID:          "i1",
		Title:       "Blue Backpack",
		Category:    "Bags & Backpacks",
		Location:    "Gym",
		DateFound:   "2024-10-28",
		Status:      models.ItemAvailable,
		SubmittedBy: "u1",
		CreatedAt:   created,
	}}))

	items := st.GetItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Blue Backpack", items[0].Title)
	assert.True(t, created.Equal(items[0].CreatedAt))
	assert.NotNil(t, items[0].Photos)
	assert.Empty(t, items[0].ClaimedBy)
}

func TestCorruptValueReadsAsEmpty(t *testing.T) {
	st := storetest.New(t)

	require.NoError(t, st.DB.Create(&models.KVEntry{Key: store.KeyClaims, Value: "{not json"}).Error)
	assert.Empty(t, st.GetClaims())

	require.NoError(t, st.DB.Model(&models.KVEntry{}).
		Where("kv_key = ?", store.KeyClaims).
		Update("kv_value", `{"id":"object-not-array"}`).Error)
	assert.Empty(t, st.GetClaims())

	// a later save replaces the bad value
	require.NoError(t, st.SaveClaims([]models.ClaimRequest{{ID: "c1"}}))
	assert.Len(t, st.GetClaims(), 1)
}

func TestReadsLegacyBrowserData(t *testing.T) {
	st := storetest.New(t)
	legacy := `[{"id":"admin-1","email":"admin@bridgelandhs.edu","password":"admin123","name":"Admin User","gradeLevel":"Staff","role":"admin","createdAt":"2024-10-01T12:00:00.000Z"}]`
	require.NoError(t, st.DB.Create(&models.KVEntry{Key: store.KeyUsers, Value: legacy}).Error)

	users := st.GetUsers()
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Role)
	assert.Equal(t, "Staff", users[0].GradeLevel)
	assert.Equal(t, 2024, users[0].CreatedAt.Year())
}

func TestCurrentUserPointer(t *testing.T) {
	st := storetest.New(t)
	require.NoError(t, st.SaveUsers([]models.User{{ID: "u1", Name: "Ada"}}))

	require.NoError(t, st.SetCurrentUser("u1"))
	current := st.GetCurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "Ada", current.Name)

	require.NoError(t, st.ClearCurrentUser())
	assert.Nil(t, st.GetCurrentUser())

	// clearing twice is fine
	require.NoError(t, st.ClearCurrentUser())
}

func TestStalePointerReadsAsLoggedOut(t *testing.T) {
	st := storetest.New(t)
	require.NoError(t, st.SaveUsers([]models.User{{ID: "u1"}}))
	require.NoError(t, st.SetCurrentUser("u1"))

	require.NoError(t, st.SaveUsers(nil))
	assert.Nil(t, st.GetCurrentUser())
}

func TestExportImport(t *testing.T) {
	src := storetest.New(t)
	require.NoError(t, src.SaveUsers([]models.User{{ID: "u1"}}))
	require.NoError(t, src.SaveItems([]models.FoundItem{{ID: "i1"}}))
	require.NoError(t, src.SaveClaims([]models.ClaimRequest{{ID: "c1", ItemID: "i1"}}))
	require.NoError(t, src.SaveNotifications([]models.Notification{{ID: "n1", UserID: "u1"}}))

	dst := storetest.New(t)
	require.NoError(t, dst.SaveUsers([]models.User{{ID: "stale"}}))
	require.NoError(t, store.Import(dst, store.Export(src)))

	snap := store.Export(dst)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "u1", snap.Users[0].ID)
	assert.Len(t, snap.Items, 1)
	assert.Len(t, snap.Claims, 1)
	assert.Len(t, snap.Notifications, 1)
}
