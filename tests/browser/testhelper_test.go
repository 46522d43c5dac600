package browser_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	web "trainerweb/internal/adapters/http"
	"trainerweb/internal/adapters/storage"
	assignmentStore "trainerweb/internal/adapters/storage/assignment"
	auditStore "trainerweb/internal/adapters/storage/audit"
	monthStore "trainerweb/internal/adapters/storage/monthstatus"
	rateStore "trainerweb/internal/adapters/storage/rolerate"
	sessionStore "trainerweb/internal/adapters/storage/session"
	tournamentStore "trainerweb/internal/adapters/storage/tournament"
	trainerStore "trainerweb/internal/adapters/storage/trainer"
	trainingStore "trainerweb/internal/adapters/storage/training"
	planStore "trainerweb/internal/adapters/storage/trainingplan"
	noticeStore "trainerweb/internal/adapters/storage/unavailability"
	"trainerweb/internal/domain/trainer"
	"trainerweb/internal/domain/training"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL    string
	Stores     *web.Stores
	Browser    playwright.Browser
	TrainingID string
}

// newTestApp serves a fully wired app over a temp SQLite file and starts
// Chromium. The test is skipped in -short mode or without a browser driver.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, storage.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, storage.DriverSQLite); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}
	tdb := storage.NewTimedDB(db, storage.DriverSQLite, nil)

	stores := &web.Stores{
		Trainers:    trainerStore.NewSQLStore(tdb),
		Sessions:    sessionStore.NewSQLStore(tdb),
		Trainings:   trainingStore.NewSQLStore(tdb),
		Assignments: assignmentStore.NewSQLStore(tdb),
		Notices:     noticeStore.NewSQLStore(tdb),
		Plans:       planStore.NewSQLStore(tdb),
		Tournaments: tournamentStore.NewSQLStore(tdb),
		Months:      monthStore.NewSQLStore(tdb),
		Audit:       auditStore.NewSQLStore(tdb),
		RoleRates:   rateStore.NewSQLStore(tdb),
	}

	if err := stores.Trainers.Save(ctx, trainer.Trainer{
		ID:          "t-anna",
		Name:        "Anna Beispiel",
		Active:      true,
		DefaultRole: "Trainer",
		Pin:         trainer.HashPin("1234"),
	}); err != nil {
		t.Fatalf("failed to seed trainer: %v", err)
	}
	now := time.Now().UTC()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	if err := stores.Trainings.Save(ctx, training.Training{
		ID:        "tr-morgen",
		Date:      tomorrow,
		Start:     "18:00",
		End:       "19:30",
		Group:     "U12",
		Location:  "Halle Nord",
		Status:    training.StatusPlanned,
		Required:  2,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("failed to seed training: %v", err)
	}

	srv := httptest.NewServer(web.New(web.Options{
		Stores:  stores,
		CSRFKey: bytes.Repeat([]byte("b"), 32),
	}))
	t.Cleanup(srv.Close)

	pw, err := playwright.Run()
	if err != nil {
		t.Skipf("playwright driver not installed: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		t.Skipf("chromium not available: %v", err)
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})

	return &testApp{
		BaseURL:    srv.URL,
		Stores:     stores,
		Browser:    browser,
		TrainingID: "tr-morgen",
	}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs in through the HTML form and waits for the start page.
func (a *testApp) login(t *testing.T, page playwright.Page, identifier, pin string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=identifier]").Fill(identifier); err != nil {
		t.Fatalf("failed to fill identifier: %v", err)
	}
	if err := page.Locator("input[name=pin]").Fill(pin); err != nil {
		t.Fatalf("failed to fill pin: %v", err)
	}
	if err := page.Locator("main button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to start page: %v", err)
	}
}
