package ynab

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "date only", input: `"2024-02-29"`, want: "2024-02-29"},
		{name: "RFC3339 timestamp", input: `"2024-02-29T15:04:05Z"`, want: "2024-02-29"},
		{name: "null value", input: `null`, want: ""},
		{name: "empty string", input: `""`, want: ""},
		{name: "invalid format", input: `"not-a-date"`, wantErr: true},
		{name: "impossible day", input: `"2023-02-30"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewDate(2024, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01"`, string(data))

	data, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}

func TestDate_InStruct(t *testing.T) {
	type payload struct {
		Date  Date  `json:"date"`
		Maybe *Date `json:"maybe"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-15","maybe":null}`), &p))
	assert.Equal(t, "2024-01-15", p.Date.String())
	assert.Nil(t, p.Maybe)
}

func TestParseDateAndMonthOf(t *testing.T) {
	d, err := ParseDate("2024-07-19")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", MonthOf(d.Time).String())

	_, err = ParseDate("07/19/2024")
	assert.Error(t, err)
}
