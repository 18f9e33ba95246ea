package river_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	goriver "github.com/riverqueue/river"

	_ "modernc.org/sqlite"

	riveradapter "github.com/retailops/statusflow/internal/adapter/river"
	"github.com/retailops/statusflow/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := t.TempDir() + "/river_test.db"
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		t.Fatalf("setting WAL: %v", err)
	}

	return db
}

// captureSender records delivered notifications on a channel.
type captureSender struct {
	sent chan string
}

func (s *captureSender) Send(_ context.Context, templateID, recipient string) error {
	s.sent <- templateID + "->" + recipient
	return nil
}

func setupClient(t *testing.T, db *sql.DB, sender riveradapter.NotificationSender) *riveradapter.Client {
	t.Helper()

	client, err := riveradapter.Setup(context.Background(), db, sender, riveradapter.NewActionRegistry())
	if err != nil {
		t.Fatalf("river setup: %v", err)
	}
	return client
}

func startClient(t *testing.T, client *riveradapter.Client) {
	t.Helper()

	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("river start: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Stop(stopCtx); err != nil {
			t.Errorf("river stop: %v", err)
		}
	})
}

func TestEnqueueTx_CommitDeliversJob(t *testing.T) {
	db := setupTestDB(t)
	sender := &captureSender{sent: make(chan string, 1)}
	client := setupClient(t, db, sender)
	ctx := context.Background()

	// Subscribe to job completions before starting so we don't miss events.
	subscribeChan, subscribeCancel := client.Subscribe(goriver.EventKindJobCompleted)
	defer subscribeCancel()

	startClient(t, client)

	enqueuer := riveradapter.NewEnqueuer(client)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("beginning tx: %v", err)
	}
	jobs := []domain.Job{
		domain.NotificationJob{
			AutomationID: 1,
			TemplateID:   "offer-made",
			Recipient:    "customer@example.test",
			EntityType:   domain.EntityTransaction,
			EntityID:     42,
			ToStatus:     "offer_given",
		},
	}
	if err := enqueuer.EnqueueTx(ctx, tx, jobs); err != nil {
		t.Fatalf("EnqueueTx failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	select {
	case event := <-subscribeChan:
		if event.Job.Kind != "automation.notification" {
			t.Errorf("job kind = %q, want %q", event.Job.Kind, "automation.notification")
		}
		argsStr := string(event.Job.EncodedArgs)
		for _, want := range []string{`"template_id":"offer-made"`, `"recipient":"customer@example.test"`, `"to_status":"offer_given"`} {
			if !strings.Contains(argsStr, want) {
				t.Errorf("encoded args missing %s, got: %s", want, argsStr)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job completion")
	}

	select {
	case got := <-sender.sent:
		if got != "offer-made->customer@example.test" {
			t.Errorf("sent = %q, want %q", got, "offer-made->customer@example.test")
		}
	case <-time.After(time.Second):
		t.Fatal("sender was never invoked")
	}
}

func TestEnqueueTx_RollbackDiscardsJobs(t *testing.T) {
	db := setupTestDB(t)
	sender := &captureSender{sent: make(chan string, 1)}
	client := setupClient(t, db, sender)
	ctx := context.Background()

	enqueuer := riveradapter.NewEnqueuer(client)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("beginning tx: %v", err)
	}
	jobs := []domain.Job{
		domain.NotificationJob{TemplateID: "never-sent", Recipient: "customer@example.test"},
	}
	if err := enqueuer.EnqueueTx(ctx, tx, jobs); err != nil {
		t.Fatalf("EnqueueTx failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	// The insert rolled back with the transition: no job row survives.
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM river_job").Scan(&count); err != nil {
		t.Fatalf("counting jobs: %v", err)
	}
	if count != 0 {
		t.Errorf("river_job count = %d, want 0 after rollback", count)
	}
}

func TestEnqueueTx_PreservesOrder(t *testing.T) {
	db := setupTestDB(t)
	sender := &captureSender{sent: make(chan string, 2)}
	client := setupClient(t, db, sender)
	ctx := context.Background()

	enqueuer := riveradapter.NewEnqueuer(client)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("beginning tx: %v", err)
	}
	jobs := []domain.Job{
		domain.NotificationJob{TemplateID: "exit-tpl", Recipient: "a@example.test"},
		domain.NotificationJob{TemplateID: "enter-tpl", Recipient: "b@example.test"},
	}
	if err := enqueuer.EnqueueTx(ctx, tx, jobs); err != nil {
		t.Fatalf("EnqueueTx failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	// Insertion order is reflected in job ids: exit jobs enqueue ahead of
	// enter jobs from the same transition.
	rows, err := db.QueryContext(ctx, "SELECT kind, args FROM river_job ORDER BY id")
	if err != nil {
		t.Fatalf("querying jobs: %v", err)
	}
	defer rows.Close()

	var templates []string
	for rows.Next() {
		var kind, args string
		if err := rows.Scan(&kind, &args); err != nil {
			t.Fatalf("scanning job: %v", err)
		}
		switch {
		case strings.Contains(args, "exit-tpl"):
			templates = append(templates, "exit-tpl")
		case strings.Contains(args, "enter-tpl"):
			templates = append(templates, "enter-tpl")
		}
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterating jobs: %v", err)
	}

	if len(templates) != 2 || templates[0] != "exit-tpl" || templates[1] != "enter-tpl" {
		t.Errorf("job order = %v, want [exit-tpl enter-tpl]", templates)
	}
}

func TestEnqueueTx_EmptyIsNoop(t *testing.T) {
	db := setupTestDB(t)
	sender := &captureSender{sent: make(chan string, 1)}
	client := setupClient(t, db, sender)
	ctx := context.Background()

	enqueuer := riveradapter.NewEnqueuer(client)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("beginning tx: %v", err)
	}
	if err := enqueuer.EnqueueTx(ctx, tx, nil); err != nil {
		t.Fatalf("EnqueueTx(nil) error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
}
