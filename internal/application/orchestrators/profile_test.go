package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/trainer"
)

func TestExecuteUpdateProfile(t *testing.T) {
	store := newMemTrainerStore(trainer.Trainer{ID: "T1", Name: "Anna", Email: "alt@verein.de", Notes: "Lizenz C"})
	sessions := newMemSessionStore()
	sess := session.Session{Token: "tok", TrainerID: "T1", Email: "alt@verein.de", Notes: "Lizenz C", CreatedAt: fixedTime.Add(-time.Hour)}
	sessions.sessions["tok"] = sess

	email := " neu@verein.de "
	got, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{Session: sess, Email: &email}, UpdateProfileDeps{
		TrainerStore: store, SessionStore: sessions, Now: fixedNow, TTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("ExecuteUpdateProfile: %v", err)
	}
	if store.trainers["T1"].Email != "neu@verein.de" || store.trainers["T1"].Notes != "Lizenz C" {
		t.Errorf("trainer = %+v, want only email changed", store.trainers["T1"])
	}
	if got.Email != "neu@verein.de" || sessions.sessions["tok"].Email != "neu@verein.de" {
		t.Error("session snapshot not refreshed")
	}
	if !sessions.sessions["tok"].ExpiresAt.Equal(fixedTime.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v", sessions.sessions["tok"].ExpiresAt)
	}
}

func TestExecuteUpdateProfile_EmailTooLong(t *testing.T) {
	store := newMemTrainerStore(trainer.Trainer{ID: "T1", Name: "Anna"})
	long := strings.Repeat("a", trainer.MaxEmailLength) + "@x.de"
	_, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{Session: session.Session{TrainerID: "T1"}, Email: &long}, UpdateProfileDeps{
		TrainerStore: store, SessionStore: newMemSessionStore(), Now: fixedNow, TTL: time.Hour,
	})
	if !errors.Is(err, trainer.ErrEmailTooLong) {
		t.Errorf("err = %v, want ErrEmailTooLong", err)
	}
}

func TestExecuteChangePin(t *testing.T) {
	tests := []struct {
		name    string
		oldPin  string
		newPin  string
		wantErr error
	}{
		{name: "valid", oldPin: "1234", newPin: "567890"},
		{name: "wrong current pin checked first", oldPin: "0000", newPin: "12", wantErr: trainer.ErrWrongCurrentPin},
		{name: "new pin too short", oldPin: "1234", newPin: "123", wantErr: trainer.ErrInvalidNewPin},
		{name: "new pin not digits", oldPin: "1234", newPin: "12a4", wantErr: trainer.ErrInvalidNewPin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemTrainerStore(trainer.Trainer{ID: "T1", Name: "Anna", Pin: trainer.HashPin("1234")})
			err := ExecuteChangePin(context.Background(), ChangePinInput{TrainerID: "T1", OldPin: tt.oldPin, NewPin: tt.newPin}, ChangePinDeps{TrainerStore: store})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			wantPin := tt.newPin
			if tt.wantErr != nil {
				wantPin = "1234"
			}
			if !trainer.VerifyPin(wantPin, store.trainers["T1"].Pin) {
				t.Errorf("stored pin does not verify against %q", wantPin)
			}
		})
	}
}
