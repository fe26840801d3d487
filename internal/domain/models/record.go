package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the human-facing date format used everywhere a date is shown,
// both for stored decant dates and render-time scan dates, e.g. "5-Jan-24".
const DateLayout = "2-Jan-06"

// DefaultPurchaseOrder fills the purchase-order field when the requester has none.
const DefaultPurchaseOrder = "0000-000000"

const amountUnit = "KG"

// Record is a single liquid-nitrogen decanting transaction. The ID doubles as
// the QR payload identifier and the primary lookup key in the store.
type Record struct {
	ID                      string     `bson:"_id" json:"id"`
	Date                    string     `bson:"date" json:"date"`
	Requester               string     `bson:"requester" json:"requester"`
	Department              string     `bson:"department" json:"department"`
	PurchaseOrder           string     `bson:"purchase_order" json:"purchaseOrder"`
	Amount                  string     `bson:"amount" json:"amount"`
	Representative          string     `bson:"representative" json:"representative"`
	RequesterRepresentative string     `bson:"requester_representative" json:"requesterRepresentative"`
	Deleted                 bool       `bson:"deleted" json:"deleted"`
	DeletedAt               *time.Time `bson:"deleted_at,omitempty" json:"deletedAt,omitempty"`
	CreatedAt               time.Time  `bson:"created_at" json:"createdAt"`
}

// Normalize applies the construction-time defaults exactly once: fields are
// trimmed, a missing purchase order becomes DefaultPurchaseOrder, a bare
// numeric amount gains the KG unit suffix, and a missing id or date is filled
// from the clock. After Normalize the record is stored as-is, never re-derived.
func (r *Record) Normalize(now time.Time) {
	r.ID = strings.TrimSpace(r.ID)
	r.Date = strings.TrimSpace(r.Date)
	r.Requester = strings.TrimSpace(r.Requester)
	r.Department = strings.TrimSpace(r.Department)
	r.PurchaseOrder = strings.TrimSpace(r.PurchaseOrder)
	r.Amount = strings.TrimSpace(r.Amount)
	r.Representative = strings.TrimSpace(r.Representative)
	r.RequesterRepresentative = strings.TrimSpace(r.RequesterRepresentative)

	if r.ID == "" {
		r.ID = NewDecantID(now)
	}
	if r.Date == "" {
		r.Date = now.Format(DateLayout)
	}
	if r.PurchaseOrder == "" {
		r.PurchaseOrder = DefaultPurchaseOrder
	}
	if r.Amount != "" && !strings.HasSuffix(strings.ToUpper(r.Amount), amountUnit) {
		r.Amount += amountUnit
	}
}

// Validate reports whether the record carries the fields required for a
// printable form. The date, when present, must match DateLayout.
func (r *Record) Validate() error {
	switch {
	case r.Requester == "":
		return fmt.Errorf("requester must not be empty")
	case r.Department == "":
		return fmt.Errorf("department must not be empty")
	case r.Amount == "":
		return fmt.Errorf("amount must not be empty")
	case r.Representative == "":
		return fmt.Errorf("representative must not be empty")
	case r.RequesterRepresentative == "":
		return fmt.Errorf("requester representative must not be empty")
	}

	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("date %q does not match layout %s: %w", r.Date, DateLayout, err)
	}

	return nil
}

// NewDecantID derives a decanting identifier from the clock, mirroring the
// LN2-prefixed numbering used on the printed forms.
func NewDecantID(now time.Time) string {
	millis := now.UnixMilli() % 10000
	return fmt.Sprintf("LN2%04d", millis)
}

// RecordUpdate carries a partial in-place update. Nil fields are untouched.
// The identifier itself is immutable once a record exists.
type RecordUpdate struct {
	Date                    *string `json:"date"`
	Requester               *string `json:"requester"`
	Department              *string `json:"department"`
	PurchaseOrder           *string `json:"purchaseOrder"`
	Amount                  *string `json:"amount"`
	Representative          *string `json:"representative"`
	RequesterRepresentative *string `json:"requesterRepresentative"`
}

// Empty reports whether the update would change nothing.
func (u RecordUpdate) Empty() bool {
	return u.Date == nil && u.Requester == nil && u.Department == nil &&
		u.PurchaseOrder == nil && u.Amount == nil &&
		u.Representative == nil && u.RequesterRepresentative == nil
}
