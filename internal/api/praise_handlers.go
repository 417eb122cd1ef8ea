package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/service"
	"github.com/listenupapp/staff-directory/internal/store"
)

func (s *Server) registerPraiseRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "submitThanks",
		Method:      http.MethodPost,
		Path:        peoplePrefix + "/{stub}/thanks",
		Summary:     "Thank a colleague",
		Description: "Records a thanks note citing one of serve, lead or innovate. Thanking yourself succeeds without recording anything.",
		Tags:        []string{"Thanks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSubmitPraise)

	huma.Register(s.api, huma.Operation{
		OperationID: "listThanks",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/thanks",
		Summary:     "Thanks ledger",
		Description: "Newest thanks first. Out-of-range pages resolve to the last page, unparseable ones to the first.",
		Tags:        []string{"Thanks"},
	}, s.handleListPraise)
}

// === DTOs ===

// SubmitPraiseRequest is a thanks note.
type SubmitPraiseRequest struct {
	Value  string `json:"value" required:"false" doc:"serve, lead or innovate"`
	Reason string `json:"reason" required:"false" maxLength:"2000" doc:"What they did"`
}

// SubmitPraiseInput wraps the thanks request for Huma.
type SubmitPraiseInput struct {
	Authorization string `header:"Authorization"`
	Stub          string `path:"stub" doc:"Recipient profile handle"`
	Body          SubmitPraiseRequest
}

// PraiseMutationResponse reports the outcome of a thanks note.
type PraiseMutationResponse struct {
	OK       bool           `json:"ok" doc:"Whether the note was accepted"`
	Created  bool           `json:"created" doc:"False when nothing was recorded"`
	Redirect string         `json:"redirect,omitempty" doc:"Recipient profile"`
	Praise   *domain.Praise `json:"praise,omitempty" doc:"The recorded note"`
	Error    *MutationError `json:"error,omitempty" doc:"Inline failure"`
}

// PraiseMutationOutput wraps the thanks outcome for Huma.
type PraiseMutationOutput struct {
	Body PraiseMutationResponse
}

// ListPraiseInput selects a ledger page. Page is a string so bad values
// fall back instead of failing.
type ListPraiseInput struct {
	Page string `query:"page" doc:"Page number"`
}

// ListPraiseOutput wraps a ledger page for Huma.
type ListPraiseOutput struct {
	Body *store.Page[*domain.Praise]
}

// === Handlers ===

func (s *Server) handleSubmitPraise(ctx context.Context, input *SubmitPraiseInput) (*PraiseMutationOutput, error) {
	accountID, err := GetAccountID(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Praise.SubmitPraise(ctx, accountID, service.SubmitPraiseInput{
		Stub:   input.Stub,
		Value:  input.Body.Value,
		Reason: input.Body.Reason,
	})
	if err != nil {
		inline, err := inlineError(err)
		if err != nil {
			return nil, err
		}
		return &PraiseMutationOutput{Body: PraiseMutationResponse{Error: inline}}, nil
	}

	return &PraiseMutationOutput{Body: PraiseMutationResponse{
		OK:       true,
		Created:  res.Created,
		Redirect: apiLink(service.ProfileLink(res.Recipient.Stub)),
		Praise:   res.Praise,
	}}, nil
}

func (s *Server) handleListPraise(ctx context.Context, input *ListPraiseInput) (*ListPraiseOutput, error) {
	page, err := s.services.Praise.ListPraise(ctx, input.Page)
	if err != nil {
		return nil, err
	}
	return &ListPraiseOutput{Body: page}, nil
}
