package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/normalize"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

const registrationPath = "user/register"

// RegistrationService handles resident sign-up requests. Sign-ups carry
// documents, so they are sent as multipart forms.
type RegistrationService struct {
	*Resource[domain.Registration]
	api ports.APIClient
}

func NewRegistrationService(api ports.APIClient) *RegistrationService {
	return &RegistrationService{
		Resource: NewResource[domain.Registration](api, "registrations", registrationPath),
		api:      api,
	}
}

func (s *RegistrationService) Register(
	ctx context.Context,
	input domain.RegistrationInput,
	documents []ports.FormFile,
) (domain.Registration, error) {
	if err := validateInput(input); err != nil {
		return domain.Registration{}, err
	}

	files := make([]ports.FormFile, 0, len(documents))
	for _, doc := range documents {
		if doc.Field == "" {
			doc.Field = "documents"
		}
		files = append(files, doc)
	}

	raw, err := s.api.Do(ctx, ports.Request{
		Method: http.MethodPost,
		Path:   registrationPath,
		Route:  registrationPath,
		Form: &ports.MultipartForm{
			Fields: input.Fields(),
			Files:  files,
		},
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("register %s: %w", input.Email, err)
	}
	return oneOrZero[domain.Registration](raw)
}

func (s *RegistrationService) Approve(ctx context.Context, id string) (domain.Registration, error) {
	return s.decide(ctx, id, "approve", nil)
}

func (s *RegistrationService) Reject(ctx context.Context, id, reason string) (domain.Registration, error) {
	var body any
	if reason != "" {
		body = map[string]any{"reason": reason}
	}
	return s.decide(ctx, id, "reject", body)
}

func (s *RegistrationService) decide(ctx context.Context, id, decision string, body any) (domain.Registration, error) {
	if id == "" {
		return domain.Registration{}, domain.ErrInvalidID
	}
	raw, err := s.api.Do(ctx, ports.Request{
		Method: http.MethodPut,
		Path:   registrationPath + "/" + url.PathEscape(id) + "/" + decision,
		Route:  registrationPath + "/:id/" + decision,
		Body:   body,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("%s registration %s: %w", decision, id, err)
	}
	reg, err := normalize.One[domain.Registration](raw)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Registration{}, fmt.Errorf("%s registration %s: %w", decision, id, err)
		}
		// Some deployments answer with a bare message; reflect the decision locally.
		reg = domain.Registration{Base: domain.Base{ID: domain.ID(id)}}
		if decision == "approve" {
			reg.Status = domain.RegistrationApproved
		} else {
			reg.Status = domain.RegistrationRejected
		}
	}
	return reg, nil
}
