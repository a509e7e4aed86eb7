package entity

import (
	"strings"
	"time"
)

// ShopDetails identity fields required to create a shop
type ShopDetails struct {
	ShopID       string
	ShopName     string
	ShopLocation string
	ShopType     string
}

// Normalize trims every field
func (d ShopDetails) Normalize() ShopDetails {
	return ShopDetails{
		ShopID:       strings.TrimSpace(d.ShopID),
		ShopName:     strings.TrimSpace(d.ShopName),
		ShopLocation: strings.TrimSpace(d.ShopLocation),
		ShopType:     strings.TrimSpace(d.ShopType),
	}
}

// Validate reports the first field that is empty after trimming
func (d ShopDetails) Validate() error {
	n := d.Normalize()
	switch {
	case n.ShopID == "":
		return &InvalidShopFieldError{Field: "shop_id"}
	case n.ShopName == "":
		return &InvalidShopFieldError{Field: "shop_name"}
	case n.ShopLocation == "":
		return &InvalidShopFieldError{Field: "shop_location"}
	case n.ShopType == "":
		return &InvalidShopFieldError{Field: "shop_type"}
	}
	return nil
}

// DraftState manual entry state of a draft
type DraftState int

const (
	DraftNoEntries DraftState = iota
	DraftHasEntries
)

func (s DraftState) String() string {
	if s == DraftHasEntries {
		return "has_entries"
	}
	return "no_entries"
}

// ShopDraft in-progress shop creation record. It exclusively owns its planogram and facings.
type ShopDraft struct {
	ID        string
	OrgID     string
	OwnerID   int64
	Details   ShopDetails
	Planogram []PlanogramRow
	Facings   FacingsMap
	UploadSeq int
	Source    string // last imported file name
	CreatedAt time.Time
	UpdatedAt time.Time
}

// State NoEntries until either structure holds something
func (d *ShopDraft) State() DraftState {
	if len(d.Planogram) > 0 || len(d.Facings) > 0 {
		return DraftHasEntries
	}
	return DraftNoEntries
}

// Clone deep copy; row field pointers are shared because they are never written through
func (d *ShopDraft) Clone() *ShopDraft {
	out := *d
	if d.Planogram != nil {
		out.Planogram = make([]PlanogramRow, len(d.Planogram))
		copy(out.Planogram, d.Planogram)
	}
	out.Facings = d.Facings.Clone()
	return &out
}

// DraftAction audit record of a draft mutation
type DraftAction struct {
	ID        string
	DraftID   string
	UserID    int64
	Action    string // "open", "upload", "add_facing", "submit", ...
	Details   string
	Timestamp time.Time
}

// FormField one multipart form field of the outgoing payload
type FormField struct {
	Name  string
	Value string
}

// ShopPayload form fields sent to the shop creation endpoint, in send order
type ShopPayload struct {
	Fields []FormField
}

// Get returns the value of a field and whether it is present
func (p *ShopPayload) Get(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
