//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"resihub/internal/domain/booking"
	"resihub/internal/pkg/clock"
	"resihub/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var testDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func windowInput(startHour, endHour int) commands.WindowInput {
	return commands.WindowInput{
		Start: testDay.Add(time.Duration(startHour) * time.Hour),
		End:   testDay.Add(time.Duration(endHour) * time.Hour),
	}
}

type ReservationUseCaseTestSuite struct {
	suite.Suite
	uow *fakeUoW
	clk *clock.MockClock
	uc  commands.ReservationCommands

	residentID uuid.UUID
	amenityID  uuid.UUID
}

func TestReservationUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(ReservationUseCaseTestSuite))
}

func (s *ReservationUseCaseTestSuite) SetupTest() {
	s.uow = newFakeUoW()
	s.clk = clock.NewMockClock(testDay.Add(7 * time.Hour))
	s.uc = commands.NewReservationUseCase(s.uow, booking.NewFactory(s.clk), s.clk)
	s.residentID = s.uow.seedResident(true)
	s.amenityID = s.uow.seedAmenity(2, 50000)
}

func (s *ReservationUseCaseTestSuite) reserve(windows ...commands.WindowInput) (*commands.ReserveResult, error) {
	return s.uc.Reserve(context.Background(), commands.ReserveRequest{
		AmenityID:   s.amenityID,
		BookingDate: testDay,
		Windows:     windows,
	}, s.residentID)
}

func (s *ReservationUseCaseTestSuite) TestReserve_Success() {
	res, err := s.reserve(windowInput(9, 10), windowInput(14, 16))
	s.Require().NoError(err)

	s.Equal("BKG-20260310-001", res.Code)
	s.Equal(int64(150000), res.TotalPrice) // 3 slots at 50000
	s.Equal(s.clk.Now().Add(booking.HoldTTL), res.ExpiresAt)

	snap := s.uow.booking(res.BookingID)
	s.Equal(booking.StatusPending, snap.Status)
	s.Equal(s.residentID, snap.ResidentID)

	for _, h := range []int{9, 14, 15} {
		remaining, ok := s.uow.remaining(s.amenityID, testDay.Add(time.Duration(h)*time.Hour))
		s.Require().True(ok)
		s.Equal(int32(1), remaining)
	}
}

func (s *ReservationUseCaseTestSuite) TestReserve_CodesIncrementPerDay() {
	first, err := s.reserve(windowInput(9, 10))
	s.Require().NoError(err)
	second, err := s.reserve(windowInput(10, 11))
	s.Require().NoError(err)

	s.Equal("BKG-20260310-001", first.Code)
	s.Equal("BKG-20260310-002", second.Code)
}

func (s *ReservationUseCaseTestSuite) TestReserve_DuplicateWindowsCollapse() {
	res, err := s.reserve(windowInput(9, 10), windowInput(9, 10))
	s.Require().NoError(err)

	// One decrement, one slot's worth of price.
	s.Equal(int64(50000), res.TotalPrice)
	remaining, ok := s.uow.remaining(s.amenityID, testDay.Add(9*time.Hour))
	s.Require().True(ok)
	s.Equal(int32(1), remaining)
}

func (s *ReservationUseCaseTestSuite) TestReserve_ConflictRollsBackEverything() {
	// Exhaust the 14:00 window: capacity 2.
	_, err := s.reserve(windowInput(14, 15))
	s.Require().NoError(err)
	_, err = s.reserve(windowInput(14, 15))
	s.Require().NoError(err)

	res, err := s.reserve(windowInput(9, 10), windowInput(14, 15))
	s.Require().Error(err)
	s.ErrorIs(err, commands.ErrSlotUnavailable)

	var slotErr *commands.SlotUnavailableError
	s.Require().ErrorAs(err, &slotErr)
	s.Equal(testDay.Add(14*time.Hour), slotErr.Start)
	s.Nil(res)

	// The 09:00 decrement made before the conflict was rolled back.
	_, ok := s.uow.remaining(s.amenityID, testDay.Add(9*time.Hour))
	s.False(ok)
	// And no third booking exists.
	s.Len(s.uow.state.bookings, 2)
}

func (s *ReservationUseCaseTestSuite) TestReserve_ResidentChecks() {
	_, err := s.uc.Reserve(context.Background(), commands.ReserveRequest{
		AmenityID:   s.amenityID,
		BookingDate: testDay,
		Windows:     []commands.WindowInput{windowInput(9, 10)},
	}, uuid.New())
	s.ErrorIs(err, commands.ErrResidentNotFound)

	inactive := s.uow.seedResident(false)
	_, err = s.uc.Reserve(context.Background(), commands.ReserveRequest{
		AmenityID:   s.amenityID,
		BookingDate: testDay,
		Windows:     []commands.WindowInput{windowInput(9, 10)},
	}, inactive)
	s.ErrorIs(err, commands.ErrResidentInactive)
}

func (s *ReservationUseCaseTestSuite) TestReserve_AmenityChecks() {
	s.amenityID = uuid.New()
	_, err := s.reserve(windowInput(9, 10))
	s.ErrorIs(err, commands.ErrAmenityNotFound)

	inactive := s.uow.seedAmenity(2, 50000)
	snap := s.uow.state.amenities[inactive]
	snap.Active = false
	s.uow.state.amenities[inactive] = snap
	s.amenityID = inactive
	_, err = s.reserve(windowInput(9, 10))
	s.ErrorIs(err, commands.ErrAmenityInactive)
}

func (s *ReservationUseCaseTestSuite) TestReserve_ValidationErrors() {
	tests := []struct {
		name    string
		windows []commands.WindowInput
	}{
		{"no windows", nil},
		{"end before start", []commands.WindowInput{{Start: testDay.Add(10 * time.Hour), End: testDay.Add(9 * time.Hour)}}},
		{"outside operating hours", []commands.WindowInput{windowInput(6, 7)}},
		{"not a whole slot", []commands.WindowInput{{Start: testDay.Add(9 * time.Hour), End: testDay.Add(9*time.Hour + 30*time.Minute)}}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.reserve(tt.windows...)
			s.ErrorIs(err, commands.ErrDomainValidation)
		})
	}
}

func TestSlotUnavailableErrorMessage(t *testing.T) {
	err := &commands.SlotUnavailableError{
		Start: testDay.Add(9 * time.Hour),
		End:   testDay.Add(10 * time.Hour),
	}
	assert.Contains(t, err.Error(), "2026-03-10T09:00:00Z/2026-03-10T10:00:00Z")
	require.ErrorIs(t, err, commands.ErrSlotUnavailable)
}
