package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportInfo_MarshalJSON(t *testing.T) {
	at := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)
	info := ReportInfo{
		ID:        "r1",
		Camera:    "desk",
		Date:      at,
		TimeOfDay: at,
		Objects:   []string{"cup", "laptop"},
		Risks:     []string{"spill_risk"},
	}

	data, err := json.Marshal(info)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "09-03-2025", decoded["date"])
	assert.Equal(t, "14:05:07", decoded["timeOfDay"])
	assert.Equal(t, "desk", decoded["camera"])
	assert.NotContains(t, decoded, "snapshot")
}
