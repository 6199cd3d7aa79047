package models

import (
	"strings"

	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
)

// DefaultBoothRadius is the geofence radius in metres for a new election booth.
const DefaultBoothRadius = 50

// Ward is a municipal subdivision of one election.
type Ward struct {
	ID          id.WardID     `json:"id"`
	ElectionID  id.ElectionID `json:"election_id"`
	WardNo      int           `json:"ward_no"`
	WardName    string        `json:"ward_name"`
	Description string        `json:"description,omitempty"`
}

// Booth is master polling-location data shared across elections.
type Booth struct {
	ID         id.BoothID `json:"id"`
	State      string     `json:"state"`
	District   string     `json:"district"`
	ACNameNo   string     `json:"ac_name_no"`
	PartNameNo string     `json:"part_name_no"`
	Name       string     `json:"name"`
	Address    string     `json:"address"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	WardID     *id.WardID `json:"ward_id,omitempty"`
}

// ElectionBooth is a booth allocated into one election's operative set.
// Assembly allocations reference a master booth; municipal ward booths may
// be created directly with no master row.
type ElectionBooth struct {
	ID         id.ElectionBoothID `json:"id"`
	ElectionID id.ElectionID      `json:"election_id"`
	BoothID    *id.BoothID        `json:"booth_id,omitempty"`
	WardID     *id.WardID         `json:"ward_id,omitempty"`
	BoothName  string             `json:"booth_name"`
	Latitude   *float64           `json:"latitude,omitempty"`
	Longitude  *float64           `json:"longitude,omitempty"`
	Radius     int                `json:"radius"`
}

// Normalize trims text fields and checks the columns every master booth needs.
func (b *Booth) Normalize() error {
	b.State = strings.TrimSpace(b.State)
	b.District = strings.TrimSpace(b.District)
	b.ACNameNo = strings.TrimSpace(b.ACNameNo)
	b.PartNameNo = strings.TrimSpace(b.PartNameNo)
	b.Name = strings.TrimSpace(b.Name)
	b.Address = strings.TrimSpace(b.Address)
	if b.State == "" || b.District == "" || b.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "state, district and name are required")
	}
	return nil
}

// BoothFilter narrows discovery queries.
type BoothFilter struct {
	ACNameNo string
	WardID   *id.WardID
}

// HierarchyRow is one state/district/AC/part bucket with its booth count.
type HierarchyRow struct {
	State      string `json:"state"`
	District   string `json:"district"`
	ACNameNo   string `json:"ac_name_no"`
	PartNameNo string `json:"part_name_no"`
	Booths     int    `json:"booths"`
}

type CreateWardRequest struct {
	ElectionID  id.ElectionID `json:"election_id"`
	WardNo      int           `json:"ward_no"`
	WardName    string        `json:"ward_name"`
	Description string        `json:"description"`
}

func (r *CreateWardRequest) Validate() error {
	r.WardName = strings.TrimSpace(r.WardName)
	if r.ElectionID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "election_id is required")
	}
	if r.WardNo <= 0 || r.WardName == "" {
		return dErrors.New(dErrors.CodeValidation, "ward_no and ward_name are required")
	}
	return nil
}

type CreateWardBoothRequest struct {
	ElectionID id.ElectionID `json:"election_id"`
	WardID     id.WardID     `json:"ward_id"`
	BoothName  string        `json:"booth_name"`
	Latitude   *float64      `json:"latitude"`
	Longitude  *float64      `json:"longitude"`
	Radius     int           `json:"radius"`
}

func (r *CreateWardBoothRequest) Validate() error {
	r.BoothName = strings.TrimSpace(r.BoothName)
	if r.ElectionID <= 0 || r.WardID <= 0 || r.BoothName == "" {
		return dErrors.New(dErrors.CodeValidation, "election_id, ward_id and booth_name are required")
	}
	if r.Radius < 0 {
		return dErrors.New(dErrors.CodeValidation, "radius must not be negative")
	}
	if r.Radius == 0 {
		r.Radius = DefaultBoothRadius
	}
	return nil
}

type AllocateBoothsRequest struct {
	ElectionID id.ElectionID `json:"election_id"`
	BoothIDs   []id.BoothID  `json:"booth_ids"`
	WardID     *id.WardID    `json:"ward_id"`
}

func (r *AllocateBoothsRequest) Validate() error {
	if r.ElectionID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "election_id is required")
	}
	if len(r.BoothIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "booth_ids must not be empty")
	}
	return nil
}
