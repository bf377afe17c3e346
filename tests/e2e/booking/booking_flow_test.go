//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"resihub/internal/handler/dto/request"
	"resihub/internal/handler/dto/response"
	"resihub/tests/common/authtest"
	"resihub/tests/common/dbtest"
	"resihub/tests/common/httptest"
	"resihub/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL     = "/api/bookings"
	availabilityURL = "/api/amenities/%s/availability?date=%s"
)

// bookingDate is far enough in the future that the 15-minute payment hold
// never races the real clock during a test run.
var bookingDate = time.Date(2027, 5, 10, 0, 0, 0, 0, time.UTC)

type BookingFlowSuite struct {
	e2e.SharedSuite
}

func (s *BookingFlowSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingFlowSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingFlowSuite))
}

func (s *BookingFlowSuite) token(t *testing.T, residentID uuid.UUID) string {
	t.Helper()
	return authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, residentID)
}

func windowRequest(startHour, endHour int) request.BookingWindowRequest {
	return request.BookingWindowRequest{
		Start: bookingDate.Add(time.Duration(startHour) * time.Hour),
		End:   bookingDate.Add(time.Duration(endHour) * time.Hour),
	}
}

func createRequest(amenityID uuid.UUID, windows ...request.BookingWindowRequest) request.CreateBookingRequest {
	return request.CreateBookingRequest{
		AmenityID:   amenityID,
		BookingDate: bookingDate.Format("2006-01-02"),
		Windows:     windows,
	}
}

func (s *BookingFlowSuite) reserve(t *testing.T, token string, req request.CreateBookingRequest) response.BookingResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created response.BookingResponse
	err := httptest.DecodeResponseBody(t, w.Body, &created)
	require.NoError(t, err)
	return created
}

func (s *BookingFlowSuite) dayGrid(t *testing.T, token string, amenityID uuid.UUID) response.AvailabilityResponse {
	t.Helper()

	url := fmt.Sprintf(availabilityURL, amenityID, bookingDate.Format("2006-01-02"))
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var grid response.AvailabilityResponse
	err := httptest.DecodeResponseBody(t, w.Body, &grid)
	require.NoError(t, err)
	return grid
}

func remainingAt(t *testing.T, grid response.AvailabilityResponse, startHour int) int32 {
	t.Helper()
	start := bookingDate.Add(time.Duration(startHour) * time.Hour)
	for _, slot := range grid.Slots {
		if slot.Start.Equal(start) {
			return slot.Remaining
		}
	}
	t.Fatalf("slot starting at %s not in grid", start)
	return 0
}

// =============================================================================
// TestReserveAndPay - booking lifecycle from hold to settlement
// =============================================================================

func (s *BookingFlowSuite) TestReserveAndPay() {
	s.Run("Normal case: reservation holds capacity and direct payment settles it", func() {
		t := s.T()

		residentID := dbtest.CreateTestResident(t, s.DB, "resident@example.com")
		amenityID := dbtest.CreateTestAmenity(t, s.DB, "Swimming Pool", 2, 50000)
		token := s.token(t, residentID)

		created := s.reserve(t, token, createRequest(amenityID, windowRequest(9, 10), windowRequest(10, 11)))

		expected := &response.BookingResponse{
			ResidentID:  residentID,
			AmenityID:   amenityID,
			AmenityName: "Swimming Pool",
			Code:        "BKG-20270510-001",
			UnitPrice:   50000,
			TotalPrice:  100000,
			Status:      "PENDING",
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.BookingResponse{},
				"ID", "BookingDate", "Windows", "ExpiresAt", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, &created, opts...); diff != "" {
			t.Errorf("booking response mismatch (-want +got):\n%s", diff)
		}
		require.NotNil(t, created.ExpiresAt, "pending booking must carry a payment deadline")
		require.Len(t, created.Windows, 2)

		// The hold decrements exactly the reserved windows.
		grid := s.dayGrid(t, token, amenityID)
		require.Len(t, grid.Slots, 12, "08:00-20:00 with 60-minute slots")
		require.Equal(t, int32(1), remainingAt(t, grid, 9))
		require.Equal(t, int32(1), remainingAt(t, grid, 10))
		require.Equal(t, int32(2), remainingAt(t, grid, 11))

		payURL := bookingsURL + "/" + created.ID.String() + "/pay"
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, payURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var paid response.BookingResponse
		err := httptest.DecodeResponseBody(t, w.Body, &paid)
		require.NoError(t, err)
		require.Equal(t, "PAID", paid.Status)
		require.Nil(t, paid.ExpiresAt, "settlement clears the payment deadline")

		// Settlement keeps the capacity reserved.
		grid = s.dayGrid(t, token, amenityID)
		require.Equal(t, int32(1), remainingAt(t, grid, 9))

		listW := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, token)
		require.Equal(t, http.StatusOK, listW.Code)
		var items []response.BookingListResponse
		err = httptest.DecodeResponseBody(t, listW.Body, &items)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, "PAID", items[0].Status)
	})

	s.Run("Normal case: codes increment per day across residents", func() {
		t := s.T()

		first := dbtest.CreateTestResident(t, s.DB, "first@example.com")
		second := dbtest.CreateTestResident(t, s.DB, "second@example.com")
		amenityID := dbtest.CreateTestAmenity(t, s.DB, "Gym", 5, 30000)

		b1 := s.reserve(t, s.token(t, first), createRequest(amenityID, windowRequest(9, 10)))
		b2 := s.reserve(t, s.token(t, second), createRequest(amenityID, windowRequest(9, 10)))

		require.Equal(t, "BKG-20270510-001", b1.Code)
		require.Equal(t, "BKG-20270510-002", b2.Code)
	})

	s.Run("Error case: exhausted window rejects the whole request", func() {
		t := s.T()

		first := dbtest.CreateTestResident(t, s.DB, "holder@example.com")
		second := dbtest.CreateTestResident(t, s.DB, "latecomer@example.com")
		amenityID := dbtest.CreateTestAmenity(t, s.DB, "Tennis Court", 1, 80000)

		s.reserve(t, s.token(t, first), createRequest(amenityID, windowRequest(9, 10)))

		// A free window plus the taken one must leave no trace of either.
		token := s.token(t, second)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			createRequest(amenityID, windowRequest(14, 15), windowRequest(9, 10)), token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Slot window has no remaining capacity")

		grid := s.dayGrid(t, token, amenityID)
		require.Equal(t, int32(1), remainingAt(t, grid, 14), "rolled-back window keeps full capacity")

		listW := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, token)
		require.Equal(t, http.StatusOK, listW.Code)
		var items []response.BookingListResponse
		err := httptest.DecodeResponseBody(t, listW.Body, &items)
		require.NoError(t, err)
		require.Empty(t, items)
	})

	s.Run("Error case: inactive resident cannot reserve", func() {
		t := s.T()

		residentID := dbtest.CreateTestResident(t, s.DB, "inactive@example.com")
		amenityID := dbtest.CreateTestAmenity(t, s.DB, "Sauna", 2, 40000)
		dbtest.DeactivateResident(t, s.DB, residentID)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			createRequest(amenityID, windowRequest(9, 10)), s.token(t, residentID))
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Resident not found")
	})

	s.Run("Error case: window outside operating hours is rejected", func() {
		t := s.T()

		residentID := dbtest.CreateTestResident(t, s.DB, "early@example.com")
		amenityID := dbtest.CreateTestAmenity(t, s.DB, "Pool", 2, 50000)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			createRequest(amenityID, windowRequest(6, 7)), s.token(t, residentID))
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid booking windows")
	})

	s.Run("Auth test: request without token is rejected", func() {
		t := s.T()

		amenityID := dbtest.CreateTestAmenity(t, s.DB, "Pool", 2, 50000)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			createRequest(amenityID, windowRequest(9, 10)), "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestBookingVisibility - bookings are private to their resident
// =============================================================================

func (s *BookingFlowSuite) TestBookingVisibility() {
	s.Run("Error case: another resident cannot fetch or pay the booking", func() {
		t := s.T()

		owner := dbtest.CreateTestResident(t, s.DB, "owner@example.com")
		other := dbtest.CreateTestResident(t, s.DB, "other@example.com")
		amenityID := dbtest.CreateTestAmenity(t, s.DB, "BBQ Area", 3, 20000)

		created := s.reserve(t, s.token(t, owner), createRequest(amenityID, windowRequest(9, 10)))

		otherToken := s.token(t, other)
		getURL := bookingsURL + "/" + created.ID.String()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, getURL, nil, otherToken)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Booking not found")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, getURL+"/pay", nil, otherToken)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Booking not found")

		// The owner still sees a pending booking.
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, getURL, nil, s.token(t, owner))
		require.Equal(t, http.StatusOK, w.Code)
		var got response.BookingResponse
		err := httptest.DecodeResponseBody(t, w.Body, &got)
		require.NoError(t, err)
		require.Equal(t, "PENDING", got.Status)
	})
}
