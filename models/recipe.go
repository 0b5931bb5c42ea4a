package models

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe moderation states.
const (
	StatusPending   = "pending"
	StatusValidated = "validated"
	StatusRejected  = "rejected"

	// StatusApproved is a legacy synonym for StatusValidated still present in
	// documents written by earlier versions.
	StatusApproved = "approved"
)

// Canonical recipe categories. Legacy documents may carry one of the old
// values; NormalizeCategory maps those at read/query time.
const (
	CategoryPlats   = "plats"
	CategoryDessert = "dessert"
)

var legacyCategories = map[string]string{
	"sweet":  CategoryDessert,
	"sour":   CategoryPlats,
	"salty":  CategoryPlats,
	"spicy":  CategoryPlats,
}

var (
	ErrBlankReason     = errors.New("rejection reason is required")
	ErrBlankComment    = errors.New("comment text is required")
	ErrRatingRange     = errors.New("rating must be an integer between 0 and 5")
	ErrCommentNotFound = errors.New("comment not found")
	ErrBadCategory     = errors.New("unknown category")
)

type Report struct {
	Reporter   string    `bson:"reporter" json:"reporter"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	ReportedAt time.Time `bson:"reportedAt" json:"reportedAt"`
}

// Comment is embedded in its parent recipe; its id is only meaningful within
// that recipe's comment list.
type Comment struct {
	ID          string    `bson:"id" json:"id"`
	Text        string    `bson:"text" json:"text"`
	Rating      int       `bson:"rating" json:"rating"`
	Author      string    `bson:"author" json:"author"`
	AuthorEmail string    `bson:"authorEmail,omitempty" json:"authorEmail,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	Reports     []Report  `bson:"reports,omitempty" json:"reports,omitempty"`
}

// CanBeDeletedBy reports whether the given principal may remove the comment:
// its author, or an admin.
func (c *Comment) CanBeDeletedBy(userID, role string) bool {
	return c.Author == userID || role == RoleAdmin
}

type Recipe struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Ingredients     []string           `bson:"ingredients" json:"ingredients"`
	Instructions    string             `bson:"instructions" json:"instructions"`
	Category        string             `bson:"category" json:"category"`
	CoverImage      string             `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	CreatedBy       string             `bson:"createdBy" json:"createdBy"`
	Status          string             `bson:"status" json:"status"`
	ValidatedBy     string             `bson:"validatedBy,omitempty" json:"validatedBy,omitempty"`
	ValidatedAt     *time.Time         `bson:"validatedAt,omitempty" json:"validatedAt,omitempty"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Comments        []Comment          `bson:"comments" json:"comments"`
	RatingsAvg      float64            `bson:"ratingsAvg" json:"ratingsAvg"`
	RatingsCount    int                `bson:"ratingsCount" json:"ratingsCount"`
	Revision        int64              `bson:"revision" json:"revision"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecipeSummary is the public-listing view: comment count only, no bodies.
type RecipeSummary struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Title         string             `json:"title"`
	Category      string             `json:"category"`
	CoverImage    string             `json:"coverImage,omitempty"`
	CreatedBy     string             `json:"createdBy"`
	CreatedAt     time.Time          `json:"createdAt"`
	Status        string             `json:"status"`
	RatingsAvg    float64            `json:"ratingsAvg"`
	RatingsCount  int                `json:"ratingsCount"`
	CommentsCount int                `json:"commentsCount"`
}

// NormalizeCategory maps a raw category value to its canonical form.
func NormalizeCategory(category string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == CategoryPlats || c == CategoryDessert {
		return c, nil
	}
	if mapped, ok := legacyCategories[c]; ok {
		return mapped, nil
	}
	return "", ErrBadCategory
}

// CategoryFilterValues returns every stored value that should match the given
// canonical category, so legacy documents keep showing up in filtered queries.
func CategoryFilterValues(canonical string) []string {
	values := []string{canonical}
	for legacy, mapped := range legacyCategories {
		if mapped == canonical {
			values = append(values, legacy)
		}
	}
	return values
}

// NormalizeStatus maps the legacy approved value onto validated.
func NormalizeStatus(status string) string {
	if status == StatusApproved {
		return StatusValidated
	}
	return status
}

// ValidatedStatuses are the stored values treated as publicly visible.
func ValidatedStatuses() []string {
	return []string{StatusValidated, StatusApproved}
}

func (r *Recipe) IsValidated() bool {
	return NormalizeStatus(r.Status) == StatusValidated
}

// Normalize rewrites legacy category and status values in place before the
// recipe is returned to a client.
func (r *Recipe) Normalize() {
	if c, err := NormalizeCategory(r.Category); err == nil {
		r.Category = c
	}
	r.Status = NormalizeStatus(r.Status)
}

// Summary projects the recipe into its public-listing shape.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:            r.ID,
		Title:         r.Title,
		Category:      r.Category,
		CoverImage:    r.CoverImage,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
		Status:        r.Status,
		RatingsAvg:    r.RatingsAvg,
		RatingsCount:  r.RatingsCount,
		CommentsCount: len(r.Comments),
	}
}

// CanBeEditedBy reports whether the principal may edit or delete the recipe:
// the owner, or any reviewer.
func (r *Recipe) CanBeEditedBy(userID, role string) bool {
	return r.CreatedBy == userID || IsReviewerRole(role)
}

// Approve moves the recipe to validated. Re-approving an already validated
// recipe overwrites the reviewer and timestamp.
func (r *Recipe) Approve(reviewerID string) {
	now := time.Now()
	r.Status = StatusValidated
	r.ValidatedBy = reviewerID
	r.ValidatedAt = &now
	r.RejectionReason = ""
}

// Reject moves the recipe to rejected. A blank reason fails without touching
// any field.
func (r *Recipe) Reject(reviewerID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrBlankReason
	}
	now := time.Now()
	r.Status = StatusRejected
	r.ValidatedBy = reviewerID
	r.ValidatedAt = &now
	r.RejectionReason = reason
	return nil
}

// ResetStatus returns the recipe to pending for re-review. Administrative
// transition, not wired to a default route.
func (r *Recipe) ResetStatus() {
	r.Status = StatusPending
	r.ValidatedBy = ""
	r.ValidatedAt = nil
	r.RejectionReason = ""
}

// UpsertComment adds a comment, or overwrites the caller's existing one in
// place. Returns the stored comment and whether it was newly created. The
// derived rating fields are recomputed before returning.
func (r *Recipe) UpsertComment(authorID, authorEmail, text string, rating int) (Comment, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, false, ErrBlankComment
	}
	if rating < 0 || rating > 5 {
		return Comment{}, false, ErrRatingRange
	}

	for i := range r.Comments {
		if r.Comments[i].Author == authorID {
			r.Comments[i].Text = text
			r.Comments[i].Rating = rating
			r.Comments[i].CreatedAt = time.Now()
			r.recomputeRatings()
			return r.Comments[i], false, nil
		}
	}

	comment := Comment{
		ID:          uuid.NewString(),
		Text:        text,
		Rating:      rating,
		Author:      authorID,
		AuthorEmail: authorEmail,
		CreatedAt:   time.Now(),
	}
	r.Comments = append(r.Comments, comment)
	r.recomputeRatings()
	return comment, true, nil
}

// DeleteComment removes the comment with the given id and recomputes the
// derived rating fields.
func (r *Recipe) DeleteComment(commentID string) (Comment, error) {
	for i := range r.Comments {
		if r.Comments[i].ID == commentID {
			removed := r.Comments[i]
			r.Comments = append(r.Comments[:i], r.Comments[i+1:]...)
			r.recomputeRatings()
			return removed, nil
		}
	}
	return Comment{}, ErrCommentNotFound
}

// FindComment returns the embedded comment with the given id.
func (r *Recipe) FindComment(commentID string) (*Comment, error) {
	for i := range r.Comments {
		if r.Comments[i].ID == commentID {
			return &r.Comments[i], nil
		}
	}
	return nil, ErrCommentNotFound
}

// ReportComment appends an advisory report to the comment. Repeat reports by
// the same reporter are kept as-is.
func (r *Recipe) ReportComment(commentID, reporterID, reason string) ([]Report, error) {
	c, err := r.FindComment(commentID)
	if err != nil {
		return nil, err
	}
	c.Reports = append(c.Reports, Report{
		Reporter:   reporterID,
		Reason:     strings.TrimSpace(reason),
		ReportedAt: time.Now(),
	})
	return c.Reports, nil
}

// recomputeRatings keeps ratingsAvg/ratingsCount exactly derived from the
// embedded comments: count is the list length, avg the mean rounded to two
// decimals, zero when there are no comments.
func (r *Recipe) recomputeRatings() {
	r.RatingsCount = len(r.Comments)
	if r.RatingsCount == 0 {
		r.RatingsAvg = 0
		return
	}
	sum := 0
	for i := range r.Comments {
		sum += r.Comments[i].Rating
	}
	r.RatingsAvg = math.Round(float64(sum)/float64(r.RatingsCount)*100) / 100
}
