package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingRecipe() *Recipe {
	return &Recipe{
		Title:        "Tarte aux pommes",
		Ingredients:  []string{"pommes", "farine de riz"},
		Instructions: "Mélanger et cuire.",
		Category:     CategoryDessert,
		CreatedBy:    "owner-1",
		Status:       StatusPending,
		Comments:     []Comment{},
		Revision:     1,
	}
}

func TestUpsertComment(t *testing.T) {
	t.Run("first comment is appended and aggregates follow", func(t *testing.T) {
		r := newPendingRecipe()

		c, created, err := r.UpsertComment("user-b", "b@example.com", "great", 5)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, 1, r.RatingsCount)
		assert.Equal(t, 5.0, r.RatingsAvg)
	})

	t.Run("same author overwrites in place", func(t *testing.T) {
		r := newPendingRecipe()
		_, _, err := r.UpsertComment("user-a", "", "first", 4)
		require.NoError(t, err)
		_, _, err = r.UpsertComment("user-b", "", "middle", 2)
		require.NoError(t, err)
		_, _, err = r.UpsertComment("user-c", "", "last", 3)
		require.NoError(t, err)

		updated, created, err := r.UpsertComment("user-b", "", "changed my mind", 5)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "changed my mind", updated.Text)

		// Length unchanged, position preserved.
		require.Len(t, r.Comments, 3)
		assert.Equal(t, "user-b", r.Comments[1].Author)
		assert.Equal(t, "changed my mind", r.Comments[1].Text)
		assert.Equal(t, 3, r.RatingsCount)
		assert.Equal(t, 4.0, r.RatingsAvg)
	})

	t.Run("update of single comment keeps count at one", func(t *testing.T) {
		r := newPendingRecipe()
		_, _, err := r.UpsertComment("user-b", "", "great", 5)
		require.NoError(t, err)
		assert.Equal(t, 5.0, r.RatingsAvg)
		assert.Equal(t, 1, r.RatingsCount)

		_, created, err := r.UpsertComment("user-b", "", "good", 3)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 3.0, r.RatingsAvg)
		assert.Equal(t, 1, r.RatingsCount)
	})

	t.Run("mean is rounded to two decimals", func(t *testing.T) {
		r := newPendingRecipe()
		for i, rating := range []int{5, 4, 4} {
			_, _, err := r.UpsertComment(string(rune('a'+i)), "", "x", rating)
			require.NoError(t, err)
		}
		assert.Equal(t, 4.33, r.RatingsAvg)
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		r := newPendingRecipe()
		_, _, err := r.UpsertComment("user-b", "", "   ", 3)
		assert.ErrorIs(t, err, ErrBlankComment)
		assert.Empty(t, r.Comments)
	})

	t.Run("rating outside range is rejected", func(t *testing.T) {
		r := newPendingRecipe()
		_, _, err := r.UpsertComment("user-b", "", "fine", 6)
		assert.ErrorIs(t, err, ErrRatingRange)
		_, _, err = r.UpsertComment("user-b", "", "fine", -1)
		assert.ErrorIs(t, err, ErrRatingRange)
		assert.Empty(t, r.Comments)
	})
}

func TestDeleteComment(t *testing.T) {
	t.Run("removes comment and recomputes aggregates", func(t *testing.T) {
		r := newPendingRecipe()
		c1, _, err := r.UpsertComment("user-a", "", "ok", 2)
		require.NoError(t, err)
		_, _, err = r.UpsertComment("user-b", "", "great", 5)
		require.NoError(t, err)

		removed, err := r.DeleteComment(c1.ID)
		require.NoError(t, err)
		assert.Equal(t, "user-a", removed.Author)
		assert.Equal(t, 1, r.RatingsCount)
		assert.Equal(t, 5.0, r.RatingsAvg)
	})

	t.Run("aggregates go to zero when the list empties", func(t *testing.T) {
		r := newPendingRecipe()
		c, _, err := r.UpsertComment("user-a", "", "ok", 4)
		require.NoError(t, err)

		_, err = r.DeleteComment(c.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, r.RatingsCount)
		assert.Equal(t, 0.0, r.RatingsAvg)
	})

	t.Run("unknown id fails", func(t *testing.T) {
		r := newPendingRecipe()
		_, err := r.DeleteComment("nope")
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})
}

func TestReportComment(t *testing.T) {
	r := newPendingRecipe()
	c, _, err := r.UpsertComment("user-a", "", "spam?", 0)
	require.NoError(t, err)

	reports, err := r.ReportComment(c.ID, "user-b", "looks like spam")
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	// Repeat reports by the same reporter are kept, not deduplicated.
	reports, err = r.ReportComment(c.ID, "user-b", "")
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	// Reports never touch the aggregates.
	assert.Equal(t, 1, r.RatingsCount)
	assert.Equal(t, 0.0, r.RatingsAvg)

	_, err = r.ReportComment("nope", "user-b", "")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestModerationTransitions(t *testing.T) {
	t.Run("approve sets reviewer fields and clears any reason", func(t *testing.T) {
		r := newPendingRecipe()
		r.RejectionReason = "leftover"

		r.Approve("nutri-1")
		assert.Equal(t, StatusValidated, r.Status)
		assert.Equal(t, "nutri-1", r.ValidatedBy)
		require.NotNil(t, r.ValidatedAt)
		assert.Empty(t, r.RejectionReason)
	})

	t.Run("reject after approve reflects only the last call", func(t *testing.T) {
		r := newPendingRecipe()
		r.Approve("nutri-1")

		require.NoError(t, r.Reject("nutri-2", "too much sugar"))
		assert.Equal(t, StatusRejected, r.Status)
		assert.Equal(t, "nutri-2", r.ValidatedBy)
		assert.Equal(t, "too much sugar", r.RejectionReason)
	})

	t.Run("approve after reject reflects only the last call", func(t *testing.T) {
		r := newPendingRecipe()
		require.NoError(t, r.Reject("nutri-1", "unclear steps"))

		r.Approve("nutri-2")
		assert.Equal(t, StatusValidated, r.Status)
		assert.Equal(t, "nutri-2", r.ValidatedBy)
		assert.Empty(t, r.RejectionReason)
	})

	t.Run("blank reason fails and leaves the recipe untouched", func(t *testing.T) {
		r := newPendingRecipe()
		err := r.Reject("nutri-1", "   ")
		assert.ErrorIs(t, err, ErrBlankReason)
		assert.Equal(t, StatusPending, r.Status)
		assert.Empty(t, r.ValidatedBy)
		assert.Nil(t, r.ValidatedAt)
	})

	t.Run("reset returns to pending and clears reviewer fields", func(t *testing.T) {
		r := newPendingRecipe()
		require.NoError(t, r.Reject("nutri-1", "bad"))

		r.ResetStatus()
		assert.Equal(t, StatusPending, r.Status)
		assert.Empty(t, r.ValidatedBy)
		assert.Nil(t, r.ValidatedAt)
		assert.Empty(t, r.RejectionReason)
	})
}

func TestNormalizeCategory(t *testing.T) {
	cases := map[string]string{
		"plats":   CategoryPlats,
		"dessert": CategoryDessert,
		"sweet":   CategoryDessert,
		"sour":    CategoryPlats,
		"salty":   CategoryPlats,
		"spicy":   CategoryPlats,
		"Dessert": CategoryDessert,
	}
	for raw, want := range cases {
		got, err := NormalizeCategory(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := NormalizeCategory("soup")
	assert.ErrorIs(t, err, ErrBadCategory)
}

func TestCategoryFilterValues(t *testing.T) {
	assert.ElementsMatch(t, []string{"dessert", "sweet"}, CategoryFilterValues(CategoryDessert))
	assert.ElementsMatch(t, []string{"plats", "sour", "salty", "spicy"}, CategoryFilterValues(CategoryPlats))
}

func TestStatusNormalization(t *testing.T) {
	assert.Equal(t, StatusValidated, NormalizeStatus(StatusApproved))
	assert.Equal(t, StatusPending, NormalizeStatus(StatusPending))

	r := newPendingRecipe()
	r.Status = StatusApproved
	assert.True(t, r.IsValidated())
	r.Normalize()
	assert.Equal(t, StatusValidated, r.Status)
}

func TestSummary(t *testing.T) {
	r := newPendingRecipe()
	_, _, err := r.UpsertComment("user-a", "", "great", 5)
	require.NoError(t, err)

	s := r.Summary()
	assert.Equal(t, r.Title, s.Title)
	assert.Equal(t, 1, s.CommentsCount)
	assert.Equal(t, 5.0, s.RatingsAvg)
}
