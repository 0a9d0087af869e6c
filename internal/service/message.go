package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/soluna-app/soluna/internal/adapter/llm"
	"github.com/soluna-app/soluna/internal/domain"
	"github.com/soluna-app/soluna/internal/kv"
	"github.com/soluna-app/soluna/internal/metrics"
	"github.com/soluna-app/soluna/internal/policy"
)

// apologyMessage replaces the assistant reply when the remote chat call
// fails. The conversation continues; nothing is retried automatically.
const apologyMessage = "I'm sorry, I'm having trouble responding right now. Your words are saved, and I'm still here with you."

// insightCadence is the user-message interval at which insight generation is
// offered.
const insightCadence = 5

// SendMessage appends a user message, gets the assistant reply, and persists
// the transcript. Gating violations (loading, cap, expired, limit reached)
// are silent no-ops reported via Rejected.
func (s *Service) SendMessage(ctx context.Context, id domain.Identity, content string) (domain.SendMessageResponse, error) {
	s.mu.Lock()

	now := s.clock.Now()
	st := s.kvs.For(id)
	sess := kv.Read(ctx, st, keySession, domain.ActiveSession{})
	lim := s.limitsFor(ctx, st, id)

	// First send starts a session when none is active.
	if sess.SessionID == "" {
		info := policy.TimeOfDay(now, id.Name)
		sess = s.begin(ctx, st, id, policy.SessionTypeFor(info.Period), sess.Generation)
	}

	msgs := kv.Read(ctx, st, keyBuffer, []domain.Message{})
	decision := s.evalGate(ctx, id, sess, lim)
	if decision != policy.GateAllow || sess.Loading || content == "" {
		resp := domain.SendMessageResponse{
			State:        viewState(decision),
			Messages:     msgs,
			MessagesUsed: lim.MessagesUsed,
			OfferInsight: sess.OfferInsight,
			Rejected:     true,
		}
		s.mu.Unlock()
		return resp, nil
	}

	// Optimistic append of the user message.
	userMsg := domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		Role:      domain.RoleUser,
		Content:   content,
		CreatedAt: now,
	}
	msgs = append(msgs, userMsg)
	kv.Write(ctx, st, keyBuffer, msgs)

	lim.MessagesUsed++
	kv.Write(ctx, st, keyLimits, lim)

	sess.MessagesSince++
	if sess.MessagesSince%insightCadence == 0 {
		// Sticky until the user acts or the counter resets.
		sess.OfferInsight = true
	}
	sess.Loading = true
	kv.Write(ctx, st, keySession, sess)
	metrics.MessagesSent.Inc()

	gen := sess.Generation
	sessionID := sess.SessionID
	transcript := make([]llm.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		transcript = append(transcript, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	s.mu.Unlock()

	// Remote call outside the lock. Failure is recovered with the apology
	// message; the user message and counters stay as they are.
	reply, err := s.chat.Complete(ctx, transcript)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("chat backend failed, substituting apology")
		metrics.ChatFailures.Inc()
		reply = apologyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := kv.Read(ctx, st, keySession, domain.ActiveSession{})
	if cur.SessionID != sessionID || cur.Generation != gen {
		// The session was reset while the call was in flight; the reply is
		// keyed to stale state and is discarded.
		log.Debug().Str("session_id", sessionID).Msg("dropping stale assistant reply")
		return domain.SendMessageResponse{
			State:    domain.ViewActive,
			Messages: kv.Read(ctx, st, keyBuffer, []domain.Message{}),
			Rejected: true,
		}, nil
	}

	assistantMsg := domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		Role:      domain.RoleAssistant,
		Content:   reply,
		CreatedAt: s.clock.Now(),
	}
	msgs = kv.Read(ctx, st, keyBuffer, []domain.Message{})
	msgs = append(msgs, assistantMsg)
	kv.Write(ctx, st, keyBuffer, msgs)

	cur.Loading = false
	kv.Write(ctx, st, keySession, cur)

	if data, err := json.Marshal(map[string]interface{}{"event": "message", "message": assistantMsg}); err == nil {
		s.broadcast(sessionID, data)
	}

	return domain.SendMessageResponse{
		State:        domain.ViewActive,
		Messages:     msgs,
		MessagesUsed: lim.MessagesUsed,
		OfferInsight: cur.OfferInsight,
	}, nil
}
