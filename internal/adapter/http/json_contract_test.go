package httpadapter

import (
	"encoding/json"
	"strings"
	"testing"

	"shelterverse/internal/app/command"
	"shelterverse/internal/app/replay"
	"shelterverse/internal/app/simulate"
	"shelterverse/internal/app/status"
	"shelterverse/internal/domain/colony"
)

func TestResponseJSONUsesSnakeCase(t *testing.T) {
	event := colony.DomainEvent{
		Type:     colony.EventWeekCompleted,
		Title:    "Week completed",
		Severity: colony.SeverityInfo,
		Tick:     4,
		Payload:  map[string]any{"population": 5},
	}
	snapshot := colony.Snapshot{
		Seed:          1,
		Clock:         colony.Clock{Tick: 4, Elapsed: 4.2, Speed: 1},
		PendingDeaths: []colony.DeathNotice{{HabitantID: "h-1", AgeWeeks: 4000}},
		NextID:        9,
	}

	cases := []struct {
		name    string
		payload any
		want    []string
		notWant []string
	}{
		{
			name:    "advance",
			payload: simulate.Response{Weeks: 1, Tick: 4, Version: 2, Events: []colony.DomainEvent{event}, Snapshot: snapshot},
			want:    []string{`"weeks"`, `"elapsed_weeks"`, `"pending_deaths"`, `"habitant_id"`, `"age_weeks"`, `"next_id"`},
			notWant: []string{`"Weeks"`, `"PendingDeaths"`, `"NextID"`},
		},
		{
			name:    "command",
			payload: command.Response{ResultCode: command.ResultOK, Tick: 4, Version: 3, Events: []colony.DomainEvent{event}},
			want:    []string{`"result_code"`, `"severity"`},
			notWant: []string{`"ResultCode"`, `"replayed"`},
		},
		{
			name:    "status",
			payload: status.Response{ColonyID: "c1", Version: 3, Summary: status.Summary{Population: 5}, Snapshot: snapshot},
			want:    []string{`"colony_id"`, `"summary"`, `"population"`, `"pending_deaths"`},
			notWant: []string{`"ColonyID"`, `"Summary"`},
		},
		{
			name:    "replay",
			payload: replay.Response{Events: []colony.DomainEvent{event}, Counts: map[string]int{event.Type: 1}},
			want:    []string{`"events"`, `"counts"`},
			notWant: []string{`"Events"`, `"Counts"`},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.payload)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			s := string(b)
			for _, key := range tc.want {
				if !strings.Contains(s, key) {
					t.Fatalf("expected key %s in %s", key, s)
				}
			}
			for _, key := range tc.notWant {
				if strings.Contains(s, key) {
					t.Fatalf("unexpected key %s in %s", key, s)
				}
			}
		})
	}
}
