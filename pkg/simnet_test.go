package simnet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stageRecorder struct{ stages []string }

func (r *stageRecorder) Maintain(*Outbox, *Sink) { r.stages = append(r.stages, "maintain") }

func (r *stageRecorder) Send(*Outbox, Gate, *Sink) { r.stages = append(r.stages, "send") }

func (r *stageRecorder) Poll(time.Time) { r.stages = append(r.stages, "poll") }

func (r *stageRecorder) Receive(*Sink) { r.stages = append(r.stages, "receive") }

func TestTickStageOrder(t *testing.T) {
	var (
		rec  stageRecorder
		o    Outbox
		sink Sink
	)

	Tick(&rec, &o, nil, &sink, time.Now())
	assert.Equal(t, []string{"maintain", "send", "poll", "receive"}, rec.stages)
}
