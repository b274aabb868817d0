package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name string  `validate:"required,max=10"`
	Time string  `validate:"required,hhmm"`
	Date string  `validate:"required,ddmmyyyy"`
	Team int     `validate:"oneof=1 2"`
	Lat  float64 `validate:"omitempty,latitude"`
}

func TestValidateStruct(t *testing.T) {
	valid := sample{Name: "Five", Time: "19:30", Date: "17/10/2026", Team: 2}
	assert.NoError(t, ValidateStruct(valid))

	tests := []struct {
		name string
		in   sample
		want string
	}{
		{name: "missing name", in: sample{Time: "19:30", Date: "17/10/2026", Team: 1}, want: "name is required"},
		{name: "bad time", in: sample{Name: "x", Time: "25:00", Date: "17/10/2026", Team: 1}, want: "time must be a time in HH:MM format"},
		{name: "bad date", in: sample{Name: "x", Time: "09:00", Date: "2026-10-17", Team: 1}, want: "date must be a date in DD/MM/YYYY format"},
		{name: "bad team", in: sample{Name: "x", Time: "09:00", Date: "17/10/2026", Team: 3}, want: "team must be one of 1 2"},
		{name: "bad latitude", in: sample{Name: "x", Time: "09:00", Date: "17/10/2026", Team: 1, Lat: 123}, want: "lat must be a valid coordinate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestParseUint(t *testing.T) {
	id, ok := ParseUint(" 1000 ")
	assert.True(t, ok)
	assert.Equal(t, uint(1000), id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, ok := ParseUint(bad)
		assert.False(t, ok, bad)
	}
}

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "error", Result(errors.New("x")))
}

func TestGenerateRateLimitKey(t *testing.T) {
	assert.Equal(t, "rl:1000:m1:/invitations", GenerateRateLimitKey("1000", "m1", "/invitations"))
}
