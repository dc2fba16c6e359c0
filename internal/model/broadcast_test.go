package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantsScan(t *testing.T) {
	var p Participants

	require.NoError(t, p.Scan([]byte(`[{"id":"p1","name":"Ana","status":"paid"}]`)))
	require.Len(t, p, 1)
	assert.Equal(t, ParticipantPaid, p[0].Status)

	require.NoError(t, p.Scan(nil))
	assert.Empty(t, p)

	assert.Error(t, p.Scan(42))
}

func TestParticipantsValueOfNilIsEmptyArray(t *testing.T) {
	var p Participants

	v, err := p.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestAppointmentNormalize(t *testing.T) {
	a := Appointment{Modality: ModalityInPerson, VideoLink: "https://meet.example.com/x"}
	a.Normalize()
	assert.Empty(t, a.VideoLink)

	b := Appointment{VideoLink: "https://meet.example.com/y"}
	b.Normalize()
	assert.Equal(t, ModalityInPerson, b.Modality)
	assert.Empty(t, b.VideoLink)

	c := Appointment{Modality: ModalityVideoCall, VideoLink: "https://meet.example.com/z"}
	c.Normalize()
	assert.Equal(t, "https://meet.example.com/z", c.VideoLink)
}
