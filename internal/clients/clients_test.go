package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/booking"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"
)

func TestVehicleClient(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "found", status: http.StatusOK},
		{name: "not found", status: http.StatusNotFound, wantErr: booking.ErrVehicleNotFound},
		{name: "server error", status: http.StatusInternalServerError, wantErr: booking.ErrVehicleServiceUnavailable},
		{name: "bad gateway", status: http.StatusBadGateway, wantErr: booking.ErrVehicleServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/vehicles/42", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewVehicleClient(server.Client(), server.URL+"/", logger.Discard())
			err := client.VerifyVehicle(context.Background(), 42)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVehicleClientTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewVehicleClient(&http.Client{Timeout: time.Second}, url, logger.Discard())
	err := client.VerifyVehicle(context.Background(), 42)
	assert.ErrorIs(t, err, booking.ErrVehicleServiceUnavailable)
}

func TestVehicleClientForwardsRequestID(t *testing.T) {
	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(utils.RequestIDHeader)
	}))
	defer server.Close()

	ctx := utils.WithRequestID(context.Background(), "req-1")
	require.NoError(t, NewVehicleClient(server.Client(), server.URL, logger.Discard()).VerifyVehicle(ctx, 1))
	assert.Equal(t, "req-1", seen)
}

func TestWorkshopClientDecodesSlots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/workshop/slots", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":7,"startTime":"09:00"},{"id":"8"}]`))
	}))
	defer server.Close()

	client := NewWorkshopClient(server.Client(), server.URL, logger.Discard())
	slots, err := client.AvailableSlots(context.Background())

	require.NoError(t, err)
	require.Len(t, slots, 2)
	first, err := slots[0].SlotID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), first)
	second, err := slots[1].SlotID()
	require.NoError(t, err)
	assert.Equal(t, int64(8), second)
}

func TestWorkshopClientEmptyAndNull(t *testing.T) {
	for _, body := range []string{`[]`, `null`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		slots, err := NewWorkshopClient(server.Client(), server.URL, logger.Discard()).AvailableSlots(context.Background())
		server.Close()

		require.NoError(t, err, body)
		assert.Empty(t, slots, body)
	}
}

func TestWorkshopClientFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "not found", status: http.StatusNotFound},
		{name: "garbage body", status: http.StatusOK, body: "<html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewWorkshopClient(server.Client(), server.URL, logger.Discard()).AvailableSlots(context.Background())
			assert.ErrorIs(t, err, booking.ErrWorkshopUnavailable)
		})
	}
}

func TestPaymentClientCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.PaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 100.0, req.Amount)
		assert.Equal(t, int64(1), req.BookingID)

		w.Write([]byte(`{"id":555,"status":"SUCCESS"}`))
	}))
	defer server.Close()

	client := NewPaymentClient(server.Client(), server.URL, logger.Discard())
	resp, err := client.Charge(context.Background(), models.PaymentRequest{Amount: 100, BookingID: 1})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, int64(555), resp.ID)
	assert.True(t, resp.Succeeded())
}

func TestPaymentClientEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := NewPaymentClient(server.Client(), server.URL, logger.Discard()).
		Charge(context.Background(), models.PaymentRequest{Amount: 10, BookingID: 2})

	assert.NoError(t, err)
	assert.Nil(t, resp)
}

func TestPaymentClientFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"id":1,"status":"SUCCESS"}`},
		{name: "payment required", status: http.StatusPaymentRequired},
		{name: "garbage body", status: http.StatusOK, body: "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			resp, err := NewPaymentClient(server.Client(), server.URL, logger.Discard()).
				Charge(context.Background(), models.PaymentRequest{Amount: 10, BookingID: 2})
			assert.Error(t, err)
			assert.Nil(t, resp)
		})
	}
}

func TestClientsImplementGateways(t *testing.T) {
	var _ booking.VehicleGateway = (*VehicleClient)(nil)
	var _ booking.WorkshopGateway = (*WorkshopClient)(nil)
	var _ booking.PaymentGateway = (*PaymentClient)(nil)
}
