package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/soluna-app/soluna/internal/domain"
	"github.com/soluna-app/soluna/internal/kv"
	"github.com/soluna-app/soluna/internal/metrics"
	"github.com/soluna-app/soluna/internal/policy"
)

// limitsFor loads the identity's limits record, refreshing the derived daily
// completion flags and the tier cap.
func (s *Service) limitsFor(ctx context.Context, st kv.Store, id domain.Identity) domain.SessionLimits {
	tierPolicy := domain.PolicyFor(id.Tier)
	lim := kv.Read(ctx, st, keyLimits, domain.SessionLimits{MaxMessages: tierPolicy.MaxMessages})
	now := s.clock.Now()
	lim.MorningCompleted = policy.HasCompletedToday(now, lim.LastMorningSession)
	lim.EveningCompleted = policy.HasCompletedToday(now, lim.LastEveningSession)
	lim.MaxMessages = tierPolicy.MaxMessages
	return lim
}

// evalGate runs the send-gate policy for the current session and limits.
func (s *Service) evalGate(ctx context.Context, id domain.Identity, sess domain.ActiveSession, lim domain.SessionLimits) string {
	elapsed := 0.0
	if !sess.StartedAt.IsZero() {
		elapsed = s.clock.Now().Sub(sess.StartedAt).Minutes()
	}
	decision, err := s.gate.Evaluate(ctx, policy.GateInput{
		Tier:             string(id.Tier),
		Registered:       id.Registered,
		MessagesUsed:     lim.MessagesUsed,
		MaxMessages:      lim.MaxMessages,
		ElapsedMinutes:   elapsed,
		LimitMinutes:     policy.SessionTimeLimit(id.Tier).Minutes(),
		MorningCompleted: lim.MorningCompleted,
		EveningCompleted: lim.EveningCompleted,
	})
	if err != nil {
		log.Error().Err(err).Msg("gate evaluation failed, allowing")
		return policy.GateAllow
	}
	return decision
}

// viewState maps a gate decision to the lifecycle state. The message cap does
// not change state; it only rejects sends.
func viewState(decision string) domain.ViewState {
	switch decision {
	case policy.GateLimitReached:
		return domain.ViewLimitReached
	case policy.GateExpired:
		return domain.ViewExpired
	default:
		return domain.ViewActive
	}
}

// View evaluates the state machine for an identity, auto-starting a session
// when the time-of-day policy calls for one.
func (s *Service) View(ctx context.Context, id domain.Identity) domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.kvs.For(id)
	sess := kv.Read(ctx, st, keySession, domain.ActiveSession{})
	lim := s.limitsFor(ctx, st, id)

	if sess.SessionID == "" {
		info := policy.TimeOfDay(s.clock.Now(), id.Name)
		bothDone := id.Registered && id.Tier == domain.TierFree && lim.MorningCompleted && lim.EveningCompleted
		if info.ShouldAutoStart && !bothDone {
			sess = s.begin(ctx, st, id, policy.SessionTypeFor(info.Period), sess.Generation)
		} else {
			return domain.SessionView{
				State:       domain.ViewIdle,
				Messages:    []domain.Message{},
				MaxMessages: lim.MaxMessages,
				NextSession: policy.NextAvailableSession(s.clock.Now()).Format(time.RFC3339),
			}
		}
	}

	msgs := kv.Read(ctx, st, keyBuffer, []domain.Message{})
	state := viewState(s.evalGate(ctx, id, sess, lim))

	view := domain.SessionView{
		State:        state,
		SessionID:    sess.SessionID,
		Type:         sess.Type,
		Scene:        sess.Scene,
		Greeting:     sess.Greeting,
		Messages:     msgs,
		MessagesUsed: lim.MessagesUsed,
		MaxMessages:  lim.MaxMessages,
		OfferInsight: sess.OfferInsight,
	}
	if state != domain.ViewActive {
		view.NextSession = policy.NextAvailableSession(s.clock.Now()).Format(time.RFC3339)
	}
	return view
}

// StartSession explicitly starts a session of the requested type (or the
// type the current period opens). A session already in progress is returned
// as-is.
func (s *Service) StartSession(ctx context.Context, id domain.Identity, t domain.SessionType) domain.SessionView {
	s.mu.Lock()

	st := s.kvs.For(id)
	sess := kv.Read(ctx, st, keySession, domain.ActiveSession{})
	if sess.SessionID == "" {
		if t == "" {
			t = policy.SessionTypeFor(policy.TimeOfDay(s.clock.Now(), id.Name).Period)
		}
		s.begin(ctx, st, id, t, sess.Generation)
	}
	s.mu.Unlock()

	return s.View(ctx, id)
}

// NewSession archives the outgoing session, stamps its type completed, and
// starts a fresh one. This is the only transition out of the expired and
// limit-reached states.
func (s *Service) NewSession(ctx context.Context, id domain.Identity) domain.SessionView {
	s.mu.Lock()

	now := s.clock.Now()
	st := s.kvs.For(id)
	sess := kv.Read(ctx, st, keySession, domain.ActiveSession{})
	lim := s.limitsFor(ctx, st, id)

	nextType := policy.SessionTypeFor(policy.TimeOfDay(now, id.Name).Period)
	gen := sess.Generation

	if sess.SessionID != "" {
		msgs := kv.Read(ctx, st, keyBuffer, []domain.Message{})
		if len(msgs) > 0 && !sess.Archived {
			sess.Archived = true
			s.archive(ctx, st, sess, msgs, "")
		}
		s.stampCompleted(&lim, sess.Type, now)
		lim.MessagesUsed = 0
		kv.Write(ctx, st, keyLimits, lim)
	}

	kv.Clear(ctx, st, keyBuffer)
	s.begin(ctx, st, id, nextType, gen)
	s.mu.Unlock()

	return s.View(ctx, id)
}

// begin writes a fresh active session record. Callers hold s.mu.
func (s *Service) begin(ctx context.Context, st kv.Store, id domain.Identity, t domain.SessionType, prevGen int64) domain.ActiveSession {
	now := s.clock.Now()

	// Carry the stored scene only when it belongs to this type's set.
	scene := kv.Read(ctx, st, keyScene, policy.SceneForSession(t))
	if !policy.ValidScene(scene, t) {
		scene = policy.SceneForSession(t)
	}

	sess := domain.ActiveSession{
		SessionID:  "sess_" + uuid.New().String()[:8],
		UserID:     id.UserID,
		Type:       t,
		Scene:      scene,
		Greeting:   policy.TimeOfDay(now, id.Name).Greeting,
		StartedAt:  now,
		Generation: prevGen + 1,
	}
	kv.Write(ctx, st, keySession, sess)
	kv.Write(ctx, st, keyBuffer, []domain.Message{})
	kv.Write(ctx, st, keyScene, scene)

	if err := s.store.CreateChatSession(ctx, sess.SessionID, id.UserID, t, scene, now); err != nil {
		// Backend row failure shouldn't block the session.
		log.Error().Err(err).Str("session_id", sess.SessionID).Msg("failed to create backend session row")
	}

	metrics.SessionsStarted.WithLabelValues(string(t)).Inc()
	log.Info().Str("session_id", sess.SessionID).Str("type", string(t)).Str("user_id", id.UserID).Msg("session started")
	return sess
}

func (s *Service) stampCompleted(lim *domain.SessionLimits, t domain.SessionType, now time.Time) {
	ts := now
	if t == domain.SessionMorning {
		lim.LastMorningSession = &ts
		lim.MorningCompleted = true
	} else {
		lim.LastEveningSession = &ts
		lim.EveningCompleted = true
	}
}

// archive appends the session to the capped archive list. Callers hold s.mu
// and have already checked-and-set the Archived flag.
func (s *Service) archive(ctx context.Context, st kv.Store, sess domain.ActiveSession, msgs []domain.Message, insightCardID string) {
	kv.Write(ctx, st, keySession, sess)

	arch := kv.Read(ctx, st, keyArchive, []domain.ArchivedSession{})
	arch = append(arch, domain.ArchivedSession{
		SessionID:     sess.SessionID,
		Type:          sess.Type,
		Messages:      msgs,
		CreatedAt:     sess.StartedAt,
		SceneType:     sess.Scene,
		MessageCount:  len(msgs),
		Duration:      s.clock.Now().Sub(sess.StartedAt),
		InsightCardID: insightCardID,
	})
	for len(arch) > domain.ArchiveCap {
		oldest := 0
		for i := range arch {
			if arch[i].CreatedAt.Before(arch[oldest].CreatedAt) {
				oldest = i
			}
		}
		arch = append(arch[:oldest], arch[oldest+1:]...)
		metrics.ArchiveEvictions.Inc()
	}
	kv.Write(ctx, st, keyArchive, arch)
}

// ArchivedSessions returns the identity's archived sessions.
func (s *Service) ArchivedSessions(ctx context.Context, id domain.Identity) []domain.ArchivedSession {
	return kv.Read(ctx, s.kvs.For(id), keyArchive, []domain.ArchivedSession{})
}

// RecentSessions proxies the backend recent-sessions query.
func (s *Service) RecentSessions(ctx context.Context, id domain.Identity, limit int, t *domain.SessionType) ([]domain.SessionSummary, error) {
	return s.store.RecentChatSessions(ctx, id.UserID, limit, t)
}

// RotateScene advances or randomizes the current scene for the session type.
func (s *Service) RotateScene(ctx context.Context, id domain.Identity, random bool) domain.SceneType {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.kvs.For(id)
	sess := kv.Read(ctx, st, keySession, domain.ActiveSession{})
	t := sess.Type
	if t == "" {
		t = policy.SessionTypeFor(policy.TimeOfDay(s.clock.Now(), id.Name).Period)
	}

	current := kv.Read(ctx, st, keyScene, policy.SceneForSession(t))
	var next domain.SceneType
	if random {
		next = policy.RandomScene(s.rng, current, t)
	} else {
		next = policy.NextScene(current, t)
	}
	kv.Write(ctx, st, keyScene, next)
	if sess.SessionID != "" {
		sess.Scene = next
		kv.Write(ctx, st, keySession, sess)
	}
	return next
}

// VideoEnabled reports the identity's video-background preference.
func (s *Service) VideoEnabled(ctx context.Context, id domain.Identity) bool {
	return kv.Read(ctx, s.kvs.For(id), keyVideoEnabled, true)
}

// SetVideoEnabled stores the video-background preference.
func (s *Service) SetVideoEnabled(ctx context.Context, id domain.Identity, enabled bool) {
	kv.Write(ctx, s.kvs.For(id), keyVideoEnabled, enabled)
}
