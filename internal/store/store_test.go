package store_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"verity/internal/citations"
	"verity/internal/services"
	"verity/internal/store"
	"verity/internal/testsupport"
)

func TestFactCheckRoundTrip(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	user, err := st.CreateUser(ctx, "alice@example.com", "hash", store.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected first user id 1, got %d", user.ID)
	}

	sources := []citations.Citation{
		{Title: "Example", URL: "https://example.com/a", Snippet: "supporting text"},
		{Title: "Source", URL: "https://example.com/b"},
	}
	created, err := st.CreateFactCheck(ctx, store.CreateFactCheckParams{
		UserID:        user.ID,
		MediaKind:     store.KindVideo,
		SourcePath:    "/media/clip.mp4",
		ExtractedText: "the transcript",
		VerdictText:   "The claim is false.",
		Citations:     sources,
	})
	if err != nil {
		t.Fatalf("create fact check: %v", err)
	}

	got, err := st.GetFactCheckByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get fact check: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.MediaKind != store.KindVideo || got.ExtractedText != "the transcript" || got.VerdictText != "The claim is false." {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.Citations) != 2 || got.Citations[0] != sources[0] || got.Citations[1] != sources[1] {
		t.Fatalf("citations mismatch: %+v", got.Citations)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at not persisted")
	}
}

func TestGetFactCheckAbsentIsNilNil(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	got, err := st.GetFactCheckByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent record, got %+v", got)
	}
}

func TestConcurrentUserCreationAssignsDenseIDs(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	const workers = 20
	ids := make([]int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := st.CreateUser(ctx, fmt.Sprintf("user%d@example.com", i), "hash", store.RoleUser)
			if err != nil {
				t.Errorf("create user %d: %v", i, err)
				return
			}
			ids[i] = user.ID
		}(i)
	}
	wg.Wait()
	if t.Failed() {
		t.FailNow()
	}

	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	for i, id := range ids {
		if id != int64(i+1) {
			t.Fatalf("expected dense ids 1..%d, got %v", workers, ids)
		}
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := st.CreateUser(ctx, "dup@example.com", "hash", store.RoleUser); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := st.CreateUser(ctx, "dup@example.com", "hash", store.RoleUser)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate email, got %v", err)
	}
}

func TestEmailStoredVerbatimAndCaseSensitive(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	mixed, err := st.CreateUser(ctx, "Alice@Example.com", "hash", store.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if mixed.Email != "Alice@Example.com" {
		t.Fatalf("email not stored as given: %q", mixed.Email)
	}

	got, err := st.GetUserByEmail(ctx, "Alice@Example.com")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if got == nil || got.ID != mixed.ID {
		t.Fatalf("exact lookup failed: %+v", got)
	}

	other, err := st.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if other != nil {
		t.Fatalf("case-variant lookup matched mixed-case account: %+v", other)
	}

	lower, err := st.CreateUser(ctx, "alice@example.com", "hash", store.RoleUser)
	if err != nil {
		t.Fatalf("expected case-variant email to be a distinct account, got %v", err)
	}
	if lower.ID == mixed.ID {
		t.Fatalf("case-variant account collided with existing id %d", mixed.ID)
	}
}

func TestTouchLastLogin(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	user, err := st.CreateUser(ctx, "login@example.com", "hash", store.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.LastLoginAt != nil {
		t.Fatalf("expected no last login on fresh account, got %v", user.LastLoginAt)
	}

	if err := st.TouchLastLogin(ctx, user.ID); err != nil {
		t.Fatalf("touch last login: %v", err)
	}
	updated, err := st.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if updated.LastLoginAt == nil {
		t.Fatal("last login not recorded")
	}

	if err := st.TouchLastLogin(ctx, 9999); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}
}

func TestListFactChecksNewestFirst(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	user, err := st.CreateUser(ctx, "bob@example.com", "hash", store.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	for i := 0; i < 3; i++ {
		_, err := st.CreateFactCheck(ctx, store.CreateFactCheckParams{
			UserID:      user.ID,
			MediaKind:   store.KindAudio,
			SourcePath:  fmt.Sprintf("/media/clip%d.wav", i),
			VerdictText: "ok",
		})
		if err != nil {
			t.Fatalf("create fact check %d: %v", i, err)
		}
	}

	records, err := st.ListFactChecksForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].ID <= records[i].ID {
			t.Fatalf("expected newest first, got ids %d then %d", records[i-1].ID, records[i].ID)
		}
	}
}

func TestCommentsAdminOnlyAndOldestFirst(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	user, err := st.CreateUser(ctx, "carol@example.com", "hash", store.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	admin, err := st.CreateUser(ctx, "root@example.com", "hash", store.RoleAdmin)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	record, err := st.CreateFactCheck(ctx, store.CreateFactCheckParams{
		UserID:      user.ID,
		MediaKind:   store.KindImage,
		SourcePath:  "/media/poster.png",
		VerdictText: "unverified",
	})
	if err != nil {
		t.Fatalf("create fact check: %v", err)
	}

	if _, err := st.CreateComment(ctx, record.ID, user.ID, "I disagree"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for non-admin comment, got %v", err)
	}
	if _, err := st.CreateComment(ctx, 9999, admin.ID, "hello"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing record, got %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := st.CreateComment(ctx, record.ID, admin.ID, fmt.Sprintf("note %d", i)); err != nil {
			t.Fatalf("create comment %d: %v", i, err)
		}
	}
	comments, err := st.ListCommentsForFactCheck(ctx, record.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	for i := 1; i < len(comments); i++ {
		if comments[i-1].ID >= comments[i].ID {
			t.Fatalf("expected oldest first, got ids %d then %d", comments[i-1].ID, comments[i].ID)
		}
	}
	if comments[0].AuthorEmail != "root@example.com" {
		t.Fatalf("expected author email joined in, got %q", comments[0].AuthorEmail)
	}
}

func TestCorruptCitationsDegradeToEmpty(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	user, err := st.CreateUser(ctx, "dave@example.com", "hash", store.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	record, err := st.CreateFactCheck(ctx, store.CreateFactCheckParams{
		UserID:      user.ID,
		MediaKind:   store.KindVideo,
		SourcePath:  "/media/clip.mp4",
		VerdictText: "ok",
		Citations:   []citations.Citation{{Title: "T", URL: "https://example.com"}},
	})
	if err != nil {
		t.Fatalf("create fact check: %v", err)
	}

	db, err := sql.Open("sqlite", st.Path())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`UPDATE fact_checks SET citations_json = '{not json' WHERE id = ?`, record.ID); err != nil {
		t.Fatalf("corrupt citations: %v", err)
	}

	got, err := st.GetFactCheckByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("get fact check: %v", err)
	}
	if got == nil {
		t.Fatal("record lost after citation corruption")
	}
	if len(got.Citations) != 0 {
		t.Fatalf("expected empty citations after corruption, got %+v", got.Citations)
	}
	if got.VerdictText != "ok" {
		t.Fatalf("verdict text lost: %q", got.VerdictText)
	}
}
