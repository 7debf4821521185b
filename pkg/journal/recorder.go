package journal

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"swap-supply/pkg/pipeline"
)

// Recorder builds a Record from pipeline events and appends it when the run finishes
type Recorder struct {
	storage *Storage
	log     logrus.FieldLogger
	now     func() time.Time

	mu      sync.Mutex
	pending map[string]*Record
}

func NewRecorder(storage *Storage, log logrus.FieldLogger) *Recorder {
	return &Recorder{
		storage: storage,
		log:     log,
		now:     time.Now,
		pending: make(map[string]*Record),
	}
}

// Transition implements pipeline.Reporter. Storage errors are logged, never returned to the run.
func (r *Recorder) Transition(e pipeline.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.pending[e.RunID]
	if !ok {
		record = &Record{
			RunID:   e.RunID,
			Started: r.now(),
			Txs:     make(map[string]string),
		}
		r.pending[e.RunID] = record
	}

	if e.Receipt != nil {
		record.Txs[e.From.String()] = e.Receipt.Hash.Hex()
	}

	switch e.To {
	case pipeline.AuthorizingInput:
		record.Input = e.Quantity.String()
	case pipeline.AuthorizingOutput, pipeline.Complete:
		record.Output = e.Quantity.String()
	}

	if !e.To.Terminal() {
		return
	}

	delete(r.pending, e.RunID)

	record.Finished = r.now()
	record.State = e.To.String()
	if e.To == pipeline.Failed {
		record.FailedIn = e.From.String()
		if e.Err != nil {
			record.Error = e.Err.Error()
		}
	}

	if err := r.storage.Append(record); err != nil {
		r.log.WithError(err).WithField("run", e.RunID).Warn("failed to record run")
	}
}
