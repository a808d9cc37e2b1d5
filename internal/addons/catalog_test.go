package addons_test

import (
	"testing"

	"ms-event-setup/internal/addons"
	"ms-event-setup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNameIndex map[string]bool

func (s stubNameIndex) HasTicketName(name string) bool { return s[name] }

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestNewCatalogSeedsPlaceholderRow(t *testing.T) {
	c := addons.NewCatalog(stubNameIndex{})

	rows := c.List()
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsTouched())
	assert.False(t, addons.IsBlocking(rows[0]))
}

func TestAddAllowsDuplicateNames(t *testing.T) {
	c := addons.NewCatalog(stubNameIndex{})

	first, err := c.Add(models.Addon{Name: "Parking", Price: floatPtr(5)})
	require.NoError(t, err)
	second, err := c.Add(models.Addon{Name: "Parking", Price: floatPtr(10)})
	require.NoError(t, err)

	assert.NotEqual(t, first.AddonID, second.AddonID)
	assert.Len(t, c.List(), 3) // placeholder + two added
}

func TestToggleEligibilityIsSymmetric(t *testing.T) {
	c := addons.NewCatalog(stubNameIndex{"VIP": true})
	added, err := c.Add(models.Addon{Name: "Meet & Greet", Price: floatPtr(30)})
	require.NoError(t, err)

	updated, err := c.ToggleEligibility(added.AddonID, "VIP")
	require.NoError(t, err)
	assert.Equal(t, []string{"VIP"}, updated.EligibleTicketNames)

	updated, err = c.ToggleEligibility(added.AddonID, "VIP")
	require.NoError(t, err)
	assert.Empty(t, updated.EligibleTicketNames)
}

func TestToggleEligibilityRejectsUnknownTicketName(t *testing.T) {
	c := addons.NewCatalog(stubNameIndex{"VIP": true})
	added, err := c.Add(models.Addon{Name: "Meet & Greet"})
	require.NoError(t, err)

	_, err = c.ToggleEligibility(added.AddonID, "Backstage")
	assert.ErrorIs(t, err, addons.ErrUnknownTicketName)
}

func TestAddRejectsUnknownEligibleTicketName(t *testing.T) {
	c := addons.NewCatalog(stubNameIndex{"Regular": true})

	_, err := c.Add(models.Addon{
		Name:                "Backstage Tour",
		Price:               floatPtr(15),
		EligibleTicketNames: []string{"Ghost"},
	})
	assert.ErrorIs(t, err, addons.ErrUnknownTicketName)

	added, err := c.Add(models.Addon{
		Name:                "Backstage Tour",
		Price:               floatPtr(15),
		EligibleTicketNames: []string{"Regular"},
	})
	require.NoError(t, err)
	assert.True(t, added.EligibleFor("Regular"))
}

func TestReconcileAfterTicketRemovalStripsEveryAddon(t *testing.T) {
	names := stubNameIndex{"VIP": true, "Regular": true}
	c := addons.NewCatalog(names)

	meet, err := c.Add(models.Addon{Name: "Meet & Greet", Price: floatPtr(30)})
	require.NoError(t, err)
	parking, err := c.Add(models.Addon{Name: "Parking", Price: floatPtr(5)})
	require.NoError(t, err)
	for _, id := range []string{meet.AddonID, parking.AddonID} {
		_, err := c.ToggleEligibility(id, "VIP")
		require.NoError(t, err)
		_, err = c.ToggleEligibility(id, "Regular")
		require.NoError(t, err)
	}

	c.ReconcileAfterTicketRemoval("VIP")

	for _, a := range c.List() {
		assert.False(t, a.EligibleFor("VIP"), "addon %s still references removed ticket", a.Name)
	}
	got, err := c.Get(meet.AddonID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Regular"}, got.EligibleTicketNames)
}

func TestReconciledEmptyAddonBecomesIncompleteNotDeleted(t *testing.T) {
	c := addons.NewCatalog(stubNameIndex{"VIP": true})
	added, err := c.Add(models.Addon{Name: "Meet & Greet", Price: floatPtr(30)})
	require.NoError(t, err)
	_, err = c.ToggleEligibility(added.AddonID, "VIP")
	require.NoError(t, err)

	c.ReconcileAfterTicketRemoval("VIP")

	got, err := c.Get(added.AddonID)
	require.NoError(t, err)
	assert.False(t, addons.IsComplete(*got))
	assert.True(t, addons.IsBlocking(*got))
}

func TestReconcileAfterTicketRenameFollowsProduct(t *testing.T) {
	c := addons.NewCatalog(stubNameIndex{"VIP": true})
	added, err := c.Add(models.Addon{Name: "Meet & Greet", Price: floatPtr(30)})
	require.NoError(t, err)
	_, err = c.ToggleEligibility(added.AddonID, "VIP")
	require.NoError(t, err)

	c.ReconcileAfterTicketRename("VIP", "VIP Gold")

	got, err := c.Get(added.AddonID)
	require.NoError(t, err)
	assert.Equal(t, []string{"VIP Gold"}, got.EligibleTicketNames)
}

func TestRemoveLastRowRejected(t *testing.T) {
	c := addons.NewCatalog(stubNameIndex{})
	only := c.List()[0]

	err := c.Remove(only.AddonID)
	assert.ErrorIs(t, err, addons.ErrCannotRemoveLastAddon)
}

func TestClearResetsDirtyRow(t *testing.T) {
	c := addons.NewCatalog(stubNameIndex{})
	row := c.List()[0]

	_, err := c.ApplyPatch(row.AddonID, addons.Patch{Name: strPtr("Parking")})
	require.NoError(t, err)
	got, err := c.Get(row.AddonID)
	require.NoError(t, err)
	require.True(t, addons.IsBlocking(*got))

	require.NoError(t, c.Clear(row.AddonID))
	got, err = c.Get(row.AddonID)
	require.NoError(t, err)
	assert.False(t, got.IsTouched())
	assert.False(t, addons.IsBlocking(*got))
}

func TestBlockingSemantics(t *testing.T) {
	untouched := models.Addon{AddonID: "a1", IsVisible: true}
	assert.False(t, addons.IsBlocking(untouched))

	dirty := models.Addon{AddonID: "a2", Name: "Parking"}
	assert.True(t, addons.IsBlocking(dirty))

	complete := models.Addon{
		AddonID:             "a3",
		Name:                "Parking",
		Price:               floatPtr(5),
		EligibleTicketNames: []string{"VIP"},
	}
	assert.False(t, addons.IsBlocking(complete))
}
