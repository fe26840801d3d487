package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	now := time.Date(2024, time.January, 5, 10, 30, 0, 0, time.UTC)

	t.Run("defaults applied once", func(t *testing.T) {
		r := Record{
			ID:                      "  LN21001 ",
			Requester:               " J. Smith ",
			Department:              "Pathology",
			Amount:                  "50",
			Representative:          "Tiaan van der Merwe",
			RequesterRepresentative: "A. Jones",
		}
		r.Normalize(now)

		assert.Equal(t, "LN21001", r.ID)
		assert.Equal(t, "J. Smith", r.Requester)
		assert.Equal(t, DefaultPurchaseOrder, r.PurchaseOrder)
		assert.Equal(t, "50KG", r.Amount)
		assert.Equal(t, "5-Jan-24", r.Date)
	})

	t.Run("existing unit suffix kept", func(t *testing.T) {
		r := Record{Amount: "50KG"}
		r.Normalize(now)
		assert.Equal(t, "50KG", r.Amount)
	})

	t.Run("explicit values survive", func(t *testing.T) {
		r := Record{Date: "9-Feb-23", PurchaseOrder: "1234-567890"}
		r.Normalize(now)
		assert.Equal(t, "9-Feb-23", r.Date)
		assert.Equal(t, "1234-567890", r.PurchaseOrder)
	})

	t.Run("missing id generated", func(t *testing.T) {
		r := Record{}
		r.Normalize(now)
		assert.Regexp(t, `^LN2\d{4}$`, r.ID)
	})
}

func TestValidate(t *testing.T) {
	valid := Record{
		ID:                      "LN21001",
		Date:                    "5-Jan-24",
		Requester:               "J. Smith",
		Department:              "Pathology",
		PurchaseOrder:           DefaultPurchaseOrder,
		Amount:                  "50KG",
		Representative:          "Tiaan van der Merwe",
		RequesterRepresentative: "A. Jones",
	}
	require.NoError(t, valid.Validate())

	t.Run("bad date layout", func(t *testing.T) {
		r := valid
		r.Date = "2024-01-05"
		assert.Error(t, r.Validate())
	})

	t.Run("missing requester", func(t *testing.T) {
		r := valid
		r.Requester = ""
		assert.Error(t, r.Validate())
	})
}

func TestDateLayoutHasNoLeadingZero(t *testing.T) {
	d := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "5-Jan-24", d.Format(DateLayout))
}
