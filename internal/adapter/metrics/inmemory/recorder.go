package inmemory

import "sync"

type Snapshot struct {
	Advances        uint64            `json:"advances"`
	WeeksSimulated  uint64            `json:"weeks_simulated"`
	CommandTotal    uint64            `json:"command_total"`
	CommandRejected uint64            `json:"command_rejected"`
	Conflicts       uint64            `json:"conflicts"`
	ByCommand       map[string]uint64 `json:"by_command"`
	ByRejection     map[string]uint64 `json:"by_rejection"`
}

type Recorder struct {
	mu          sync.Mutex
	advances    uint64
	weeks       uint64
	commands    uint64
	rejected    uint64
	conflicts   uint64
	byCommand   map[string]uint64
	byRejection map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byCommand:   map[string]uint64{},
		byRejection: map[string]uint64{},
	}
}

func (r *Recorder) RecordAdvance(weeks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advances++
	if weeks > 0 {
		r.weeks += uint64(weeks)
	}
}

func (r *Recorder) RecordCommand(commandType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands++
	r.byCommand[commandType]++
}

func (r *Recorder) RecordRejection(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.byRejection[code]++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		Advances:        r.advances,
		WeeksSimulated:  r.weeks,
		CommandTotal:    r.commands + r.rejected,
		CommandRejected: r.rejected,
		Conflicts:       r.conflicts,
		ByCommand:       make(map[string]uint64, len(r.byCommand)),
		ByRejection:     make(map[string]uint64, len(r.byRejection)),
	}
	for k, v := range r.byCommand {
		out.ByCommand[k] = v
	}
	for k, v := range r.byRejection {
		out.ByRejection[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
