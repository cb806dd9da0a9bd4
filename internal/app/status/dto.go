package status

import "shelterverse/internal/domain/colony"

type Request struct {
	ColonyID string
}

// Summary is the derived view a client needs without walking the snapshot.
type Summary struct {
	Population    int                  `json:"population"`
	Adults        int                  `json:"adults"`
	Children      int                  `json:"children"`
	Idle          int                  `json:"idle"`
	Homeless      int                  `json:"homeless"`
	Happiness     int                  `json:"happiness"`
	Unlocked      []colony.RoomType    `json:"unlocked"`
	PendingDeaths []colony.DeathNotice `json:"pending_deaths"`
	Brownout      bool                 `json:"brownout"`
}

type Response struct {
	ColonyID string          `json:"colony_id"`
	Version  int64           `json:"version"`
	Summary  Summary         `json:"summary"`
	Snapshot colony.Snapshot `json:"snapshot"`
}
