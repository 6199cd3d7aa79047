package models

import (
	"strconv"
	"strings"

	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
)

// ProfileInput is the wire shape of profile fields in JSON bodies and
// multipart forms. The photo arrives as a file, never as a field.
type ProfileInput struct {
	FirstName        string      `json:"first_name"`
	LastName         string      `json:"last_name"`
	Phone            string      `json:"phone"`
	Email            string      `json:"email"`
	GovIDType        string      `json:"gov_id_type"`
	GovIDNo          string      `json:"gov_id_no"`
	Gender           string      `json:"gender"`
	Age              *int        `json:"age"`
	PermanentBoothID *id.BoothID `json:"permanent_booth_id"`
}

func (in ProfileInput) Profile() Profile {
	p := Profile{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Phone:            in.Phone,
		Email:            in.Email,
		GovIDType:        in.GovIDType,
		GovIDNo:          in.GovIDNo,
		Gender:           in.Gender,
		Age:              in.Age,
		PermanentBoothID: in.PermanentBoothID,
	}
	p.Normalize()
	return p
}

func (in *ProfileInput) Validate() error {
	if in.Age != nil && (*in.Age <= 0 || *in.Age > 150) {
		return dErrors.New(dErrors.CodeValidation, "age must be between 1 and 150")
	}
	if e := strings.TrimSpace(in.Email); e != "" && !strings.Contains(e, "@") {
		return dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	return nil
}

// ProfileInputFromForm reads profile fields from form values.
func ProfileInputFromForm(get func(string) string) (ProfileInput, error) {
	in := ProfileInput{
		FirstName: get("first_name"),
		LastName:  get("last_name"),
		Phone:     get("phone"),
		Email:     get("email"),
		GovIDType: get("gov_id_type"),
		GovIDNo:   get("gov_id_no"),
		Gender:    get("gender"),
	}
	if raw := strings.TrimSpace(get("age")); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return ProfileInput{}, dErrors.New(dErrors.CodeValidation, "age must be a number")
		}
		in.Age = &age
	}
	if raw := strings.TrimSpace(get("permanent_booth_id")); raw != "" {
		booth, err := id.ParseBoothID(raw)
		if err != nil {
			return ProfileInput{}, err
		}
		in.PermanentBoothID = &booth
	}
	return in, in.Validate()
}
