// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package feedback

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewave/internal/logging"
	"github.com/tomtom215/swipewave/internal/metrics"
	"github.com/tomtom215/swipewave/internal/models"
)

// Topic carries feedback records between Dispatch and Serve.
const Topic = "feedback.submit"

const seqMetadataKey = "seq"

// ErrDispatcherClosed is returned by Dispatch after Close.
var ErrDispatcherClosed = errors.New("feedback: dispatcher closed")

// Submitter posts a decision to the recommendation API.
type Submitter interface {
	SubmitFeedback(ctx context.Context, req models.FeedbackRequest) error
}

// CachePatcher rewrites cached recommendation data after a decision.
type CachePatcher interface {
	PatchFeedback(ctx context.Context, songID string, liked bool) error
}

// Notifier shows a notice to the user.
type Notifier interface {
	Notify(n models.Notice)
}

// NotifierFunc adapts a func to Notifier.
type NotifierFunc func(models.Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n models.Notice) { f(n) }

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	// SubmitTimeout bounds a single submission.
	SubmitTimeout time.Duration

	// Buffer is the gochannel output buffer.
	Buffer int64
}

// DefaultDispatcherConfig returns production defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{SubmitTimeout: 15 * time.Second, Buffer: 64}
}

// Dispatcher submits feedback records in the background.
type Dispatcher struct {
	cfg       DispatcherConfig
	submitter Submitter
	patcher   CachePatcher
	notifier  Notifier
	pubsub    *gochannel.GoChannel
	messages  <-chan *message.Message
	cancelSub context.CancelFunc
	logger    zerolog.Logger

	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
	closed bool
}

// NewDispatcher creates a dispatcher and subscribes to Topic so that records
// dispatched before Serve starts are delivered once it does. patcher and
// notifier may be nil.
func NewDispatcher(cfg DispatcherConfig, submitter Submitter, patcher CachePatcher, notifier Notifier) (*Dispatcher, error) {
	if submitter == nil {
		return nil, fmt.Errorf("feedback: submitter required")
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = DefaultDispatcherConfig().SubmitTimeout
	}

	ps := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: cfg.Buffer},
		watermill.NewSlogLogger(logging.NewSlogLogger()),
	)

	subCtx, cancel := context.WithCancel(context.Background())
	msgs, err := ps.Subscribe(subCtx, Topic)
	if err != nil {
		cancel()
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", Topic, err)
	}

	return &Dispatcher{
		cfg:       cfg,
		submitter: submitter,
		patcher:   patcher,
		notifier:  notifier,
		pubsub:    ps,
		messages:  msgs,
		cancelSub: cancel,
		logger:    logging.WithComponent("feedback-dispatcher"),
		latest:    make(map[string]uint64),
	}, nil
}

// Dispatch publishes rec and returns without waiting for submission.
func (d *Dispatcher) Dispatch(ctx context.Context, rec models.FeedbackRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal feedback record: %w", err)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.seq++
	seq := d.seq
	d.latest[rec.SongID] = seq
	d.mu.Unlock()

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(seqMetadataKey, strconv.FormatUint(seq, 10))
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}

	if err := d.pubsub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish feedback: %w", err)
	}
	return nil
}

// Serve submits records until ctx is cancelled or the dispatcher is closed.
func (d *Dispatcher) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-d.messages:
			if !ok {
				return nil
			}
			d.handle(ctx, msg)
			msg.Ack()
		}
	}
}

// String names the service for the supervisor.
func (d *Dispatcher) String() string { return "feedback-dispatcher" }

// Close stops accepting records and releases the subscription.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.cancelSub()
	return d.pubsub.Close()
}

func (d *Dispatcher) handle(ctx context.Context, msg *message.Message) {
	var rec models.FeedbackRecord
	if err := json.Unmarshal(msg.Payload, &rec); err != nil {
		d.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed feedback record")
		return
	}

	if d.superseded(rec.SongID, msg.Metadata.Get(seqMetadataKey)) {
		metrics.FeedbackSubmissions.WithLabelValues("superseded").Inc()
		d.logger.Debug().Str("song_id", rec.SongID).Msg("Skipping superseded feedback")
		return
	}

	if id := msg.Metadata.Get("correlation_id"); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}

	// Serve handles one record at a time, so patches land in decision order.
	if d.patcher != nil {
		if err := d.patcher.PatchFeedback(ctx, rec.SongID, rec.Liked); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("song_id", rec.SongID).Msg("Failed to patch cached recommendations")
		}
	}

	subCtx, cancel := context.WithTimeout(ctx, d.cfg.SubmitTimeout)
	defer cancel()

	err := d.submitter.SubmitFeedback(subCtx, rec.Request())
	metrics.RecordFeedbackSubmission(err)
	if err == nil {
		logging.Ctx(ctx).Debug().Str("song_id", rec.SongID).Bool("liked", rec.Liked).Msg("Feedback submitted")
		return
	}

	logging.Ctx(ctx).Warn().Err(err).Str("song_id", rec.SongID).Msg("Feedback submission failed")
	if d.notifier != nil {
		d.notifier.Notify(models.Notice{
			Kind:        models.NoticeFeedbackFailed,
			Message:     "Your feedback was saved locally but could not be sent. It will not be retried.",
			SongID:      rec.SongID,
			Dismissible: true,
		})
	}
}

// superseded reports whether a newer record for songID was dispatched.
func (d *Dispatcher) superseded(songID, rawSeq string) bool {
	seq, err := strconv.ParseUint(rawSeq, 10, 64)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest[songID] > seq
}
