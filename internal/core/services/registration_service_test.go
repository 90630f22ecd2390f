package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/mocks"
)

func validRegistration() domain.RegistrationInput {
	return domain.RegistrationInput{
		FirstName: "Asha",
		Email:     "asha@example.com",
		Phone:     "9876543210",
		Password:  "s3cretpass",
		Society:   "s1",
		Unit:      "u-402",
	}
}

func TestRegistrationService_RegisterSendsMultipart(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodPost, "user/register", `{"data":{"_id":"r1","firstName":"Asha","status":"pending"}}`)
	svc := NewRegistrationService(api)

	reg, err := svc.Register(context.Background(), validRegistration(), []ports.FormFile{
		{Filename: "id.pdf", Content: strings.NewReader("%PDF")},
	})
	require.NoError(t, err)
	assert.Equal(t, "r1", reg.Key())

	calls := api.CallsTo(http.MethodPost, "user/register")
	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].Form)
	assert.Nil(t, calls[0].Body)
	assert.Equal(t, "asha@example.com", calls[0].Form.Fields["email"])
	assert.NotContains(t, calls[0].Form.Fields, "lastName")
	require.Len(t, calls[0].Form.Files, 1)
	assert.Equal(t, "documents", calls[0].Form.Files[0].Field)
}

func TestRegistrationService_RegisterValidates(t *testing.T) {
	api := mocks.NewMockAPIClient()
	svc := NewRegistrationService(api)

	input := validRegistration()
	input.Email = "not-an-email"

	_, err := svc.Register(context.Background(), input, nil)
	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Zero(t, api.CallCount())
}

func TestRegistrationService_Decisions(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		reply      string
		decide     func(*RegistrationService) (domain.Registration, error)
		wantStatus string
		wantBody   any
	}{
		{
			name:       "approve uses upstream record",
			path:       "user/register/r1/approve",
			reply:      `{"data":{"_id":"r1","status":"approved"}}`,
			decide:     func(s *RegistrationService) (domain.Registration, error) { return s.Approve(context.Background(), "r1") },
			wantStatus: domain.RegistrationApproved,
			wantBody:   nil,
		},
		{
			name:       "reject with reason and bare message answer",
			path:       "user/register/r1/reject",
			reply:      `{"message":"rejected"}`,
			decide:     func(s *RegistrationService) (domain.Registration, error) { return s.Reject(context.Background(), "r1", "blurry id") },
			wantStatus: domain.RegistrationRejected,
			wantBody:   map[string]any{"reason": "blurry id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := mocks.NewMockAPIClient().Reply(http.MethodPut, tt.path, tt.reply)
			svc := NewRegistrationService(api)

			reg, err := tt.decide(svc)
			require.NoError(t, err)
			assert.Equal(t, "r1", reg.Key())
			assert.Equal(t, tt.wantStatus, reg.Status)

			calls := api.CallsTo(http.MethodPut, tt.path)
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantBody, calls[0].Body)
		})
	}
}

func TestRegistrationService_MalformedRecordIsNotMaskedAsDecision(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		reply  string
		decide func(*RegistrationService) (domain.Registration, error)
	}{
		{
			name:   "approve with wrongly typed status",
			path:   "user/register/r1/approve",
			reply:  `{"data":{"_id":"r1","status":123}}`,
			decide: func(s *RegistrationService) (domain.Registration, error) { return s.Approve(context.Background(), "r1") },
		},
		{
			name:   "reject with wrongly typed identifier",
			path:   "user/register/r1/reject",
			reply:  `{"item":{"_id":true,"status":"rejected"}}`,
			decide: func(s *RegistrationService) (domain.Registration, error) { return s.Reject(context.Background(), "r1", "") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := mocks.NewMockAPIClient().Reply(http.MethodPut, tt.path, tt.reply)

			reg, err := tt.decide(NewRegistrationService(api))
			require.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrNotFound)
			assert.Empty(t, reg.Status)
		})
	}
}
