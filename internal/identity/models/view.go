package models

import (
	id "electoral/pkg/domain"
)

// ProfileView is a user as shown to API callers. PhotoURL is a short-lived
// signed URL derived from the stored key at read time.
type ProfileView struct {
	ID               id.UserID   `json:"id"`
	VoterID          string      `json:"voter_id"`
	FirstName        string      `json:"first_name"`
	LastName         string      `json:"last_name"`
	Phone            string      `json:"phone,omitempty"`
	Email            string      `json:"email,omitempty"`
	GovIDType        string      `json:"gov_id_type,omitempty"`
	GovIDNo          string      `json:"gov_id_no,omitempty"`
	Gender           string      `json:"gender,omitempty"`
	Age              *int        `json:"age,omitempty"`
	PermanentBoothID *id.BoothID `json:"permanent_booth_id,omitempty"`
	PhotoURL         string      `json:"profile_photo,omitempty"`
	Roles            []RoleName  `json:"roles"`
	IsActive         bool        `json:"is_active"`
}

// NewProfileView copies the display fields of u.
func NewProfileView(u *User, roles []RoleName, photoURL string) *ProfileView {
	if roles == nil {
		roles = []RoleName{}
	}
	return &ProfileView{
		ID:               u.ID,
		VoterID:          u.VoterID,
		FirstName:        u.Profile.FirstName,
		LastName:         u.Profile.LastName,
		Phone:            u.Profile.Phone,
		Email:            u.Profile.Email,
		GovIDType:        u.Profile.GovIDType,
		GovIDNo:          u.Profile.GovIDNo,
		Gender:           u.Profile.Gender,
		Age:              u.Profile.Age,
		PermanentBoothID: u.Profile.PermanentBoothID,
		PhotoURL:         photoURL,
		Roles:            roles,
		IsActive:         u.IsActive,
	}
}
