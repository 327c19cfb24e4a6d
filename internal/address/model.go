package address

import (
	"time"

	"github.com/google/uuid"
)

type Address struct {
	ID     uuid.UUID
	UserID uint

	Country  string
	State    string
	Town     string
	Area     string
	Landmark *string
	Pincode  string
	HouseNo  *string

	IsDefault bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot is the deep copy embedded in an order document. Holding plain
// values instead of an address reference keeps historical orders stable
// when the customer later edits or deletes the address.
type Snapshot struct {
	Country  string `json:"country"`
	State    string `json:"state"`
	Town     string `json:"town"`
	Area     string `json:"area"`
	Landmark string `json:"landmark,omitempty"`
	Pincode  string `json:"pincode"`
	HouseNo  string `json:"house_no,omitempty"`
}

func (a *Address) Snapshot() Snapshot {
	s := Snapshot{
		Country: a.Country,
		State:   a.State,
		Town:    a.Town,
		Area:    a.Area,
		Pincode: a.Pincode,
	}
	if a.Landmark != nil {
		s.Landmark = *a.Landmark
	}
	if a.HouseNo != nil {
		s.HouseNo = *a.HouseNo
	}
	return s
}

type CreateAddressInput struct {
	Country      string
	State        string
	Town         string
	Area         string
	Landmark     *string
	Pincode      string
	HouseNo      *string
	SetAsDefault bool
}
