package email

import (
	"context"
	"fmt"
	"testing"

	"github.com/anisurarzu/hotelseashore/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSender_Send(t *testing.T) {
	var lines []string
	s := &Sender{logf: func(format string, args ...any) { lines = append(lines, fmt.Sprintf(format, args...)) }}

	require.NoError(t, s.Send(context.Background(), kafka.ReservationEvent{Type: kafka.EventReservationCancelled, ReservationID: "b-1"}))
	assert.Empty(t, lines, "no address, no mail")

	require.NoError(t, s.Send(context.Background(), kafka.ReservationEvent{
		Type: kafka.EventReservationCreated, ReservationID: "b-1", RoomID: "101",
		CheckIn: "2024-05-01", CheckOut: "2024-05-05", GuestEmail: "guest@example.com",
	}))
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "guest@example.com")
	assert.Contains(t, lines[0], "room 101, 2024-05-01 to 2024-05-05")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Reservation b-2 cancelled", Subject(kafka.ReservationEvent{Type: kafka.EventReservationCancelled, ReservationID: "b-2"}))
	assert.Contains(t, Subject(kafka.ReservationEvent{Type: kafka.EventReservationEdited, ReservationID: "b-2"}), "changed")
	assert.Equal(t, "Reservation b-2 update", Subject(kafka.ReservationEvent{Type: "other", ReservationID: "b-2"}))
}
