package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/soluna-app/soluna/internal/domain"
	"github.com/soluna-app/soluna/internal/insight"
	"github.com/soluna-app/soluna/internal/kv"
	"github.com/soluna-app/soluna/internal/metrics"
)

// ErrNoActiveSession is returned when insight generation is requested with
// nothing to summarize.
var ErrNoActiveSession = errors.New("no active session with messages")

// ErrStaleInsight is returned when the session was reset while the insight
// was being generated; the result is discarded.
var ErrStaleInsight = errors.New("session reset during insight generation")

// GenerateInsight snapshots the transcript, produces a quote, completes the
// backend session, and archives the session with a back-reference to the new
// card. On failure the offer flag is restored and counters keep their values
// so the user may retry.
func (s *Service) GenerateInsight(ctx context.Context, id domain.Identity) (domain.InsightCard, error) {
	s.mu.Lock()

	st := s.kvs.For(id)
	sess := kv.Read(ctx, st, keySession, domain.ActiveSession{})
	msgs := kv.Read(ctx, st, keyBuffer, []domain.Message{})
	if sess.SessionID == "" || len(msgs) == 0 {
		s.mu.Unlock()
		return domain.InsightCard{}, ErrNoActiveSession
	}

	offerWas := sess.OfferInsight
	sess.OfferInsight = false
	kv.Write(ctx, st, keySession, sess)

	gen := sess.Generation
	snapshot := make([]domain.Message, len(msgs))
	copy(snapshot, msgs)
	s.mu.Unlock()

	quote, source := s.insights.Generate(ctx, snapshot, sess.Type)
	if quote == "" {
		// The generator contract forbids this, but the static quote keeps the
		// operation total.
		quote = insight.StaticQuote(sess.Type)
		source = "static"
	}

	// Best-effort still capture after the readiness delay.
	still := ""
	if s.stills != nil {
		if url, err := s.stills.Capture(ctx, sess.Scene); err == nil {
			still = url
		} else {
			log.Debug().Err(err).Str("scene", string(sess.Scene)).Msg("still capture failed")
		}
	}

	insightID, err := s.store.CompleteChatSession(ctx, sess.SessionID, id.UserID, quote, sess.Scene)
	if err != nil {
		s.restoreOffer(ctx, id, sess.SessionID, gen, offerWas)
		return domain.InsightCard{}, err
	}

	now := s.clock.Now()
	card := domain.InsightCard{
		CardID:    insightID,
		Quote:     quote,
		Type:      sess.Type,
		SessionID: sess.SessionID,
		CreatedAt: now,
		SceneType: sess.Scene,
		StillURL:  still,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := kv.Read(ctx, st, keySession, domain.ActiveSession{})
	if cur.SessionID != sess.SessionID || cur.Generation != gen {
		log.Debug().Str("session_id", sess.SessionID).Msg("dropping stale insight result")
		return domain.InsightCard{}, ErrStaleInsight
	}

	cards := kv.Read(ctx, st, keyInsights, []domain.InsightCard{})
	cards = append(cards, card)
	kv.Write(ctx, st, keyInsights, cards)

	if !cur.Archived {
		cur.Archived = true
		s.archive(ctx, st, cur, snapshot, card.CardID)
	}

	cur.MessagesSince = 0
	cur.OfferInsight = false
	kv.Write(ctx, st, keySession, cur)

	lim := s.limitsFor(ctx, st, id)
	s.stampCompleted(&lim, sess.Type, now)
	kv.Write(ctx, st, keyLimits, lim)

	metrics.InsightsGenerated.WithLabelValues(string(source)).Inc()
	if data, err := json.Marshal(map[string]interface{}{"event": "insight", "card": card}); err == nil {
		s.broadcast(sess.SessionID, data)
	}
	log.Info().Str("session_id", sess.SessionID).Str("insight_id", card.CardID).Str("source", string(source)).Msg("insight generated")

	return card, nil
}

// restoreOffer puts the offer flag back after a failed generation so the user
// can retry. The counter is untouched.
func (s *Service) restoreOffer(ctx context.Context, id domain.Identity, sessionID string, gen int64, offerWas bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.kvs.For(id)
	cur := kv.Read(ctx, st, keySession, domain.ActiveSession{})
	if cur.SessionID != sessionID || cur.Generation != gen {
		return
	}
	cur.OfferInsight = offerWas
	kv.Write(ctx, st, keySession, cur)
}

// InsightCards returns the identity's durable insight list.
func (s *Service) InsightCards(ctx context.Context, id domain.Identity) []domain.InsightCard {
	return kv.Read(ctx, s.kvs.For(id), keyInsights, []domain.InsightCard{})
}
