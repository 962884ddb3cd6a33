package payment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// MercadoPago implementa Provider con el SDK oficial
type MercadoPago struct {
	preferences preference.Client
	payments    mppayment.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("error inicializando MercadoPago: %v", err)
	}
	return &MercadoPago{
		preferences: preference.NewClient(cfg),
		payments:    mppayment.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	items := make([]preference.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, preference.ItemRequest{
			ID:         it.ID,
			Title:      it.Title,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			CurrencyID: it.Currency,
		})
	}

	now := time.Now()
	expires := req.ExpiresAt
	body := preference.Request{
		Items: items,
		Payer: &preference.PayerRequest{
			Name:    req.Payer.Name,
			Surname: req.Payer.Surname,
			Email:   req.Payer.Email,
			Phone: &preference.PhoneRequest{
				Number: req.Payer.Phone,
			},
			Address: &preference.AddressRequest{
				StreetName:   req.Payer.Street,
				StreetNumber: req.Payer.StreetNumber,
				ZipCode:      req.Payer.ZipCode,
			},
		},
		BackURLs: &preference.BackURLsRequest{
			Success: req.BackURLs.Success,
			Failure: req.BackURLs.Failure,
			Pending: req.BackURLs.Pending,
		},
		AutoReturn:          "approved",
		NotificationURL:     req.NotificationURL,
		ExternalReference:   req.ExternalReference,
		StatementDescriptor: req.StatementDescriptor,
		Expires:             true,
		ExpirationDateFrom:  &now,
		ExpirationDateTo:    &expires,
	}

	resp, err := m.preferences.Create(ctx, body)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.ID == "" {
		return nil, fmt.Errorf("MercadoPago no devolvió preference id")
	}

	return &Preference{
		ID:         resp.ID,
		InitPoint:  resp.InitPoint,
		SandboxURL: resp.SandboxInitPoint,
	}, nil
}

func (m *MercadoPago) GetPayment(ctx context.Context, id string) (*PaymentInfo, error) {
	numericID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("payment id inválido %q: %v", id, err)
	}

	resp, err := m.payments.Get(ctx, numericID)
	if err != nil {
		return nil, err
	}

	return &PaymentInfo{
		ID:                strconv.Itoa(resp.ID),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
	}, nil
}
