package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/service"
)

func (s *Server) registerPeopleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPeople",
		Method:      http.MethodGet,
		Path:        peoplePrefix,
		Summary:     "Directory overview",
		Description: "Recently updated profiles, the organization tree and popular tags",
		Tags:        []string{"People"},
	}, s.handleOverview)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPerson",
		Method:      http.MethodGet,
		Path:        peoplePrefix + "/{stub}",
		Summary:     "View profile",
		Description: "Returns a profile with its tags by category and recent thanks",
		Tags:        []string{"People"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleViewProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePerson",
		Method:      http.MethodPatch,
		Path:        peoplePrefix + "/{stub}",
		Summary:     "Update own profile",
		Description: "Updates contact details, flags and bio sections. Bio fields accept HTML, stored as Markdown.",
		Tags:        []string{"People"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)
}

// === DTOs ===

// OverviewOutput wraps the directory overview.
type OverviewOutput struct {
	Body *service.Overview
}

// ViewProfileInput addresses a profile page.
type ViewProfileInput struct {
	Authorization string `header:"Authorization"`
	Stub          string `path:"stub" doc:"Profile handle"`
	DraftThanks   string `query:"draft_thanks" doc:"Thanks text to prefill"`
}

// ProfileOutput wraps a profile page.
type ProfileOutput struct {
	Body *service.ProfileView
}

// UpdateProfileRequest holds optional profile changes.
type UpdateProfileRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,max=120" doc:"Job title"`
	HideProfile  *bool   `json:"hide_profile,omitempty" doc:"Hide from browse and filter pages"`
	AllowTagging *bool   `json:"allow_tagging,omitempty" doc:"Let colleagues tag this profile"`

	OfficePhone    *string `json:"office_phone,omitempty" validate:"omitempty,max=40"`
	MobilePhone    *string `json:"mobile_phone,omitempty" validate:"omitempty,max=40"`
	OfficeLocation *string `json:"office_location,omitempty" validate:"omitempty,max=120"`
	RoomNumber     *string `json:"room_number,omitempty" validate:"omitempty,max=40"`

	AboutMe         *string `json:"about_me,omitempty" doc:"HTML or Markdown"`
	WhatIDo         *string `json:"what_i_do,omitempty" doc:"HTML or Markdown"`
	CurrentProjects *string `json:"current_projects,omitempty" doc:"HTML or Markdown"`
	StuffIveDone    *string `json:"stuff_ive_done,omitempty" doc:"HTML or Markdown"`
	ThingsImGoodAt  *string `json:"things_im_good_at,omitempty" doc:"HTML or Markdown"`
}

// UpdateProfileInput is the PATCH request.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Stub          string `path:"stub" doc:"Profile handle"`
	Body          UpdateProfileRequest
}

// PersonOutput wraps a single profile.
type PersonOutput struct {
	Body *domain.Person
}

// === Handlers ===

func (s *Server) handleOverview(ctx context.Context, _ *struct{}) (*OverviewOutput, error) {
	ov, err := s.services.Directory.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return &OverviewOutput{Body: ov}, nil
}

func (s *Server) handleViewProfile(ctx context.Context, input *ViewProfileInput) (*ProfileOutput, error) {
	view, err := s.services.Directory.ViewProfile(ctx, accountIDFrom(ctx), input.Stub, input.DraftThanks)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*PersonOutput, error) {
	accountID, err := GetAccountID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	b := input.Body
	person, err := s.services.Profiles.UpdateProfile(ctx, accountID, input.Stub, service.UpdateProfileInput{
		Title:           b.Title,
		HideProfile:     b.HideProfile,
		AllowTagging:    b.AllowTagging,
		OfficePhone:     b.OfficePhone,
		MobilePhone:     b.MobilePhone,
		OfficeLocation:  b.OfficeLocation,
		RoomNumber:      b.RoomNumber,
		AboutMe:         b.AboutMe,
		WhatIDo:         b.WhatIDo,
		CurrentProjects: b.CurrentProjects,
		StuffIveDone:    b.StuffIveDone,
		ThingsImGoodAt:  b.ThingsImGoodAt,
	})
	if err != nil {
		return nil, err
	}
	return &PersonOutput{Body: person}, nil
}
