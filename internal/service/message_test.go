package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/soluna-app/soluna/internal/domain"
)

func TestSendMessageAppendsUserAndAssistant(t *testing.T) {
	svc, mock, _ := newTestService(t)
	ctx := context.Background()
	mock.Reply = "That sounds like a good intention."

	resp, err := svc.SendMessage(ctx, freeUser(), "I want to stay calm today")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if resp.Rejected {
		t.Fatal("expected the send accepted")
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected user and assistant messages, got %d", len(resp.Messages))
	}
	if resp.Messages[0].Role != domain.RoleUser || resp.Messages[0].Content != "I want to stay calm today" {
		t.Fatalf("unexpected user message: %+v", resp.Messages[0])
	}
	if resp.Messages[1].Role != domain.RoleAssistant || resp.Messages[1].Content != mock.Reply {
		t.Fatalf("unexpected assistant message: %+v", resp.Messages[1])
	}
	if resp.MessagesUsed != 1 {
		t.Fatalf("expected 1 message used, got %d", resp.MessagesUsed)
	}
	if mock.Calls != 1 {
		t.Fatalf("expected one chat call, got %d", mock.Calls)
	}
}

func TestSendMessageStartsSessionOnFirstSend(t *testing.T) {
	svc, mock, _ := newTestService(t)
	ctx := context.Background()
	mock.Reply = "hello"

	if _, err := svc.SendMessage(ctx, freeUser(), "first"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	view := svc.View(ctx, freeUser())
	if view.SessionID == "" || view.Type != domain.SessionMorning {
		t.Fatalf("expected a morning session started by the send, got %+v", view)
	}
	if len(view.Messages) != 2 {
		t.Fatalf("expected the transcript persisted, got %d messages", len(view.Messages))
	}
}

func TestSendMessageRejectsAtCap(t *testing.T) {
	svc, mock, _ := newTestService(t)
	ctx := context.Background()
	id := freeUser()
	mock.Reply = "ok"

	for i := 0; i < 4; i++ {
		resp, err := svc.SendMessage(ctx, id, fmt.Sprintf("msg %d", i))
		if err != nil {
			t.Fatalf("SendMessage %d failed: %v", i, err)
		}
		if resp.Rejected {
			t.Fatalf("send %d rejected before the cap", i)
		}
	}
	callsBefore := mock.Calls

	resp, err := svc.SendMessage(ctx, id, "one too many")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !resp.Rejected {
		t.Fatal("expected the fifth free-tier send rejected")
	}
	if resp.State != domain.ViewActive {
		t.Fatalf("the message cap must not change state, got %s", resp.State)
	}
	if len(resp.Messages) != 8 {
		t.Fatalf("expected the transcript unchanged, got %d messages", len(resp.Messages))
	}
	if mock.Calls != callsBefore {
		t.Fatal("expected no chat call for a rejected send")
	}
}

func TestSendMessageUnlimitedForPro(t *testing.T) {
	svc, mock, _ := newTestService(t)
	ctx := context.Background()
	mock.Reply = "ok"

	for i := 0; i < 10; i++ {
		resp, err := svc.SendMessage(ctx, proUser(), fmt.Sprintf("msg %d", i))
		if err != nil {
			t.Fatalf("SendMessage %d failed: %v", i, err)
		}
		if resp.Rejected {
			t.Fatalf("pro send %d rejected", i)
		}
	}
}

func TestSendMessageIgnoresEmptyContent(t *testing.T) {
	svc, mock, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.SendMessage(ctx, freeUser(), "")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !resp.Rejected {
		t.Fatal("expected an empty send rejected")
	}
	if resp.MessagesUsed != 0 {
		t.Fatalf("expected no message consumed, got %d", resp.MessagesUsed)
	}
	if mock.Calls != 0 {
		t.Fatal("expected no chat call")
	}
}

func TestSendMessageApologizesOnChatFailure(t *testing.T) {
	svc, mock, _ := newTestService(t)
	ctx := context.Background()
	mock.Err = errors.New("backend down")

	resp, err := svc.SendMessage(ctx, freeUser(), "are you there?")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if resp.Rejected {
		t.Fatal("expected the send to go through with an apology")
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected user message plus apology, got %d", len(resp.Messages))
	}
	if resp.Messages[1].Content != apologyMessage {
		t.Fatalf("expected the apology reply, got %q", resp.Messages[1].Content)
	}
	if resp.MessagesUsed != 1 {
		t.Fatalf("expected the user message still counted, got %d", resp.MessagesUsed)
	}
}

func TestInsightOfferedEveryFifthMessage(t *testing.T) {
	svc, mock, _ := newTestService(t)
	ctx := context.Background()
	id := proUser()
	mock.Reply = "ok"

	for i := 1; i <= 4; i++ {
		resp, err := svc.SendMessage(ctx, id, fmt.Sprintf("msg %d", i))
		if err != nil {
			t.Fatalf("SendMessage %d failed: %v", i, err)
		}
		if resp.OfferInsight {
			t.Fatalf("offer raised early at message %d", i)
		}
	}

	resp, err := svc.SendMessage(ctx, id, "msg 5")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !resp.OfferInsight {
		t.Fatal("expected the insight offer after the fifth user message")
	}

	// The offer is sticky until acted on.
	resp, err = svc.SendMessage(ctx, id, "msg 6")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !resp.OfferInsight {
		t.Fatal("expected the offer to persist on the sixth message")
	}
}

func TestStaleReplyDroppedAfterReset(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	id := proUser()

	chat := newBlockingChat()
	svc.chat = chat

	done := make(chan domain.SendMessageResponse, 1)
	go func() {
		resp, err := svc.SendMessage(ctx, id, "slow one")
		if err != nil {
			t.Errorf("SendMessage failed: %v", err)
		}
		done <- resp
	}()
	<-chat.started

	// Reset the session while the reply is in flight.
	svc.NewSession(ctx, id)
	close(chat.release)

	resp := <-done
	if !resp.Rejected {
		t.Fatal("expected the in-flight reply discarded as stale")
	}

	view := svc.View(ctx, id)
	for _, m := range view.Messages {
		if m.Role == domain.RoleAssistant {
			t.Fatalf("stale assistant reply leaked into the new session: %q", m.Content)
		}
	}
}
