package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/ogrusev/bookmart/internal/handler/http/mocks"
	"github.com/ogrusev/bookmart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// claimCodeRequest builds a request routed through chi so the {code} URL
// parameter resolves inside the handler
func claimCodeRequest(t *testing.T, method, code string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, "/"+code, nil)
	if err != nil {
		t.Fatal("cannot create request", zap.Error(err))
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("code", code)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestStaffHandler_VerifyClaimCode(t *testing.T) {
	tests := []struct {
		name           string
		code           string
		setup          func(t *testing.T) *mocks.MockStaffOrderService
		wantStatusCode int
	}{
		{
			// 200 — успешная обработка запроса;
			name: "valid_code_return_200",
			code: "BK-7XK2M9",
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().GetByClaimCode(gomock.Any(), "BK-7XK2M9").Return(testOrder(t), nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 400 — неверный формат кода;
			name: "malformed_code_return_400",
			code: "BK-0O1ILZ",
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().GetByClaimCode(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 404 — заказ не найден;
			name: "unknown_code_return_404",
			code: "BK-ZZZZZZ",
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().GetByClaimCode(gomock.Any(), gomock.Any()).Return(nil, models.ErrDataNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// 500 — внутренняя ошибка сервера.
			name: "internal_error_return_500",
			code: "BK-7XK2M9",
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().GetByClaimCode(gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := claimCodeRequest(t, http.MethodGet, tt.code)

			w := httptest.NewRecorder()
			st := tt.setup(t)

			handler := NewStaffHandler(st)
			h := handler.VerifyClaimCode()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestStaffHandler_ConfirmOrder(t *testing.T) {
	tests := []struct {
		name           string
		code           string
		setup          func(t *testing.T) *mocks.MockStaffOrderService
		wantStatusCode int
	}{
		{
			// 200 — заказ подтверждён;
			name: "valid_request_return_200",
			code: "BK-7XK2M9",
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				order := testOrder(t)
				order.Status = models.OrderStatusConfirmed

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), "BK-7XK2M9").Return(order, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 400 — неверный формат кода;
			name: "malformed_code_return_400",
			code: "not-a-code",
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 404 — заказ не найден;
			name: "unknown_code_return_404",
			code: "BK-ZZZZZZ",
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(nil, models.ErrDataNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// 409 — недопустимый переход состояния;
			name: "cancelled_order_return_409",
			code: "BK-7XK2M9",
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(nil, &models.OrderStateError{
					Status: models.OrderStatusCancelled,
					To:     models.OrderStatusConfirmed,
				}).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			// 500 — внутренняя ошибка сервера.
			name: "internal_error_return_500",
			code: "BK-7XK2M9",
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := claimCodeRequest(t, http.MethodPost, tt.code)

			w := httptest.NewRecorder()
			st := tt.setup(t)

			handler := NewStaffHandler(st)
			h := handler.ConfirmOrder()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestStaffHandler_ConflictBodyCarriesCurrentStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svcMock := mocks.NewMockStaffOrderService(ctrl)
	svcMock.EXPECT().Cancel(gomock.Any(), "BK-7XK2M9").Return(nil, &models.OrderStateError{
		Status: models.OrderStatusReadyForPickup,
		To:     models.OrderStatusCancelled,
	})

	req := claimCodeRequest(t, http.MethodPost, "BK-7XK2M9")
	w := httptest.NewRecorder()

	handler := NewStaffHandler(svcMock)
	handler.CancelOrder()(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusConflict, res.StatusCode)

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var got stateConflictResponse
	require.NoError(t, json.Unmarshal(resBody, &got))
	assert.Equal(t, models.OrderStatusReadyForPickup, got.Status)
	assert.NotEmpty(t, got.Error)
}

func TestStaffHandler_ListOrders(t *testing.T) {
	tests := []struct {
		name           string
		status         string
		setup          func(t *testing.T) *mocks.MockStaffOrderService
		wantStatusCode int
	}{
		{
			// 200 — успешная обработка запроса;
			name:   "valid_request_return_200",
			status: models.OrderStatusPending,
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().ListByStatus(gomock.Any(), models.OrderStatusPending).Return([]models.Order{*testOrder(t)}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 204 — нет данных для ответа;
			name:   "no_orders_return_204",
			status: models.OrderStatusCompleted,
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			// 400 — неизвестный статус;
			name:   "unknown_status_return_400",
			status: "SHIPPED",
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return(nil, models.ErrInvalidOrderStatus).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 500 — внутренняя ошибка сервера.
			name:   "internal_error_return_500",
			status: models.OrderStatusPending,
			setup: func(t *testing.T) *mocks.MockStaffOrderService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStaffOrderService(ctrl)
				svcMock.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/api/staff/orders?status="+tt.status, nil)
			if err != nil {
				t.Fatal("cannot create request", zap.Error(err))
			}

			w := httptest.NewRecorder()
			st := tt.setup(t)

			handler := NewStaffHandler(st)
			h := handler.ListOrders()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
