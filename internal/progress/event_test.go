package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventValidate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tests := []struct {
		name    string
		evt     Event
		wantErr string
	}{
		{
			name: "run start ok",
			evt:  Event{RunID: "run-1", TS: now, Stage: StageRunStart},
		},
		{
			name: "page fetched ok",
			evt: Event{
				RunID:       "run-1",
				TS:          now,
				Stage:       StagePageFetched,
				URL:         "https://www.pantone.com/color-finder/100-C",
				StatusClass: Status2xx,
			},
		},
		{
			name:    "missing run id",
			evt:     Event{TS: now, Stage: StageRunStart},
			wantErr: "run id is required",
		},
		{
			name:    "missing timestamp",
			evt:     Event{RunID: "run-1", Stage: StageRunStart},
			wantErr: "timestamp is required",
		},
		{
			name:    "fetched without url",
			evt:     Event{RunID: "run-1", TS: now, Stage: StagePageFetched, StatusClass: Status2xx},
			wantErr: "page fetched requires url",
		},
		{
			name:    "fetched without status class",
			evt:     Event{RunID: "run-1", TS: now, Stage: StagePageFetched, URL: "https://example.com/p"},
			wantErr: "page fetched requires status class",
		},
		{
			name:    "parsed without code",
			evt:     Event{RunID: "run-1", TS: now, Stage: StagePageParsed, URL: "https://example.com/p"},
			wantErr: "page parsed requires colour code",
		},
		{
			name:    "skipped without url",
			evt:     Event{RunID: "run-1", TS: now, Stage: StagePageSkipped},
			wantErr: "page skipped requires url",
		},
		{
			name:    "unknown stage",
			evt:     Event{RunID: "run-1", TS: now, Stage: "WARP"},
			wantErr: `unknown stage "WARP"`,
		},
		{
			name:    "negative duration",
			evt:     Event{RunID: "run-1", TS: now, Stage: StageRunDone, Dur: -time.Second},
			wantErr: "duration must be >= 0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.evt.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tc.wantErr)
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, Status2xx, ClassifyStatus(200))
	require.Equal(t, Status3xx, ClassifyStatus(301))
	require.Equal(t, Status4xx, ClassifyStatus(404))
	require.Equal(t, Status5xx, ClassifyStatus(503))
	require.Equal(t, StatusOther, ClassifyStatus(0))
	require.Equal(t, StatusOther, ClassifyStatus(700))
}
