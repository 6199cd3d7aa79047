package handler

import (
	"net/http"
	"strings"

	"electoral/internal/enrollment/models"
	identity "electoral/internal/identity/models"
	id "electoral/pkg/domain"
)

func agentRequestFromForm(r *http.Request) (*models.CreateAgentRequest, error) {
	profile, err := identity.ProfileInputFromForm(r.FormValue)
	if err != nil {
		return nil, err
	}
	electionID, err := id.ParseElectionID(r.FormValue("election_id"))
	if err != nil {
		return nil, err
	}
	boothID, err := id.ParseElectionBoothID(r.FormValue("booth_id"))
	if err != nil {
		return nil, err
	}
	wardID, err := id.ParseOptionalWardID(r.FormValue("ward_id"))
	if err != nil {
		return nil, err
	}
	return &models.CreateAgentRequest{
		VoterID:    r.FormValue("voter_id"),
		ElectionID: electionID,
		BoothID:    boothID,
		WardID:     wardID,
		ACName:     strings.TrimSpace(r.FormValue("ac_name")),
		Password:   r.FormValue("password"),
		Profile:    profile.Profile(),
	}, nil
}

func candidateRequestFromForm(r *http.Request) (*models.CreateCandidateRequest, error) {
	profile, err := identity.ProfileInputFromForm(r.FormValue)
	if err != nil {
		return nil, err
	}
	electionID, err := id.ParseElectionID(r.FormValue("election_id"))
	if err != nil {
		return nil, err
	}
	wardID, err := id.ParseOptionalWardID(r.FormValue("ward_id"))
	if err != nil {
		return nil, err
	}
	return &models.CreateCandidateRequest{
		VoterID:       r.FormValue("voter_id"),
		ElectionID:    electionID,
		Party:         r.FormValue("party"),
		CandidateType: r.FormValue("candidate_type"),
		WardID:        wardID,
		Password:      r.FormValue("password"),
		Profile:       profile.Profile(),
	}, nil
}

// candidateUpdateInput is the body of PUT /candidates/{id}. Absent fields
// are left unchanged.
type candidateUpdateInput struct {
	Party         *string    `json:"party"`
	CandidateType *string    `json:"candidate_type"`
	WardID        *id.WardID `json:"ward_id"`
	Status        *string    `json:"nomination_status"`
	identity.ProfileInput
}

func (in *candidateUpdateInput) Validate() error {
	return in.ProfileInput.Validate()
}

func (in *candidateUpdateInput) toUpdate() (models.CandidateUpdate, error) {
	u := models.CandidateUpdate{
		Party:         in.Party,
		CandidateType: in.CandidateType,
		WardID:        in.WardID,
		Profile:       in.ProfileInput.Profile(),
	}
	if in.Status != nil {
		s, err := models.ParseNominationStatus(*in.Status)
		if err != nil {
			return models.CandidateUpdate{}, err
		}
		u.Status = &s
	}
	return u, nil
}

func candidateUpdateFromForm(r *http.Request) (*candidateUpdateInput, error) {
	profile, err := identity.ProfileInputFromForm(r.FormValue)
	if err != nil {
		return nil, err
	}
	in := &candidateUpdateInput{ProfileInput: profile}
	if _, ok := r.MultipartForm.Value["party"]; ok {
		party := r.FormValue("party")
		in.Party = &party
	}
	if ct := r.FormValue("candidate_type"); ct != "" {
		in.CandidateType = &ct
	}
	if in.WardID, err = id.ParseOptionalWardID(r.FormValue("ward_id")); err != nil {
		return nil, err
	}
	if s := r.FormValue("nomination_status"); s != "" {
		in.Status = &s
	}
	return in, nil
}
