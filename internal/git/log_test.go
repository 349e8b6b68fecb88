package git

import (
	"context"
	"reflect"
	"testing"
)

func TestParseLog(t *testing.T) {
	t.Parallel()

	hashA := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	hashB := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	tests := []struct {
		name string
		out  string
		want []Commit
	}{
		{
			name: "empty output",
			out:  "",
			want: nil,
		},
		{
			name: "single commit without body",
			out:  hashA + "|feat: add login|",
			want: []Commit{{Hash: hashA, Subject: "feat: add login"}},
		},
		{
			name: "two commits",
			out: hashA + "|feat: add login|\n" +
				hashB + "|fix: null check|",
			want: []Commit{
				{Hash: hashA, Subject: "feat: add login"},
				{Hash: hashB, Subject: "fix: null check"},
			},
		},
		{
			name: "multi-line body folds into previous commit",
			out: hashA + "|feat!: new api|BREAKING CHANGE: endpoints moved\n" +
				"see the migration guide\n" +
				"\n" +
				hashB + "|fix: typo|",
			want: []Commit{
				{Hash: hashA, Subject: "feat!: new api", Body: "BREAKING CHANGE: endpoints moved\nsee the migration guide"},
				{Hash: hashB, Subject: "fix: typo"},
			},
		},
		{
			name: "subject containing pipe keeps body split stable",
			out:  hashA + "|feat: a|b in subject",
			want: []Commit{{Hash: hashA, Subject: "feat: a", Body: "b in subject"}},
		},
		{
			name: "leading noise without hash is dropped",
			out:  "warning: something\n" + hashA + "|fix: parse|",
			want: []Commit{{Hash: hashA, Subject: "fix: parse"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseLog(tt.out)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseLog() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSubjects(t *testing.T) {
	t.Parallel()

	commits := []Commit{
		{Subject: "feat: one"},
		{Subject: "fix: two"},
	}
	want := []string{"feat: one", "fix: two"}
	if got := Subjects(commits); !reflect.DeepEqual(got, want) {
		t.Errorf("Subjects() = %v, want %v", got, want)
	}
}

func TestLog_Repo(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()

	first, err := HeadHash(ctx, repo)
	if err != nil {
		t.Fatalf("HeadHash() error = %v", err)
	}
	commitFile(t, repo, "a.txt", "a", "feat: add a")
	commitFile(t, repo, "b.txt", "b", "fix: add b")

	// Full history.
	commits, err := Log(ctx, repo, "", "HEAD")
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if len(commits) != 3 {
		t.Fatalf("len(commits) = %d, want 3", len(commits))
	}
	if commits[0].Subject != "fix: add b" {
		t.Errorf("newest subject = %q", commits[0].Subject)
	}

	// Exclusive start: the boundary commit itself is not included.
	commits, err = Log(ctx, repo, first, "HEAD")
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("len(commits) since first = %d, want 2", len(commits))
	}
}

func TestFindCommitByMessage(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "v.txt", "1", "chore(release): bump version to 1.2.0")
	bumpHash, err := HeadHash(ctx, repo)
	if err != nil {
		t.Fatal(err)
	}
	commitFile(t, repo, "w.txt", "2", "feat: later work")

	if got := FindCommitByMessage(ctx, repo, "HEAD", "chore(release): bump version to "); got != bumpHash {
		t.Errorf("FindCommitByMessage() = %q, want %q", got, bumpHash)
	}
	if got := FindCommitByMessage(ctx, repo, "HEAD", "no such message"); got != "" {
		t.Errorf("FindCommitByMessage() = %q, want empty", got)
	}
	if got := FindCommitByMessage(ctx, repo, "no-such-ref", "anything"); got != "" {
		t.Errorf("FindCommitByMessage() on bad ref = %q, want empty", got)
	}
}

func TestCommitSubject(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "x.txt", "x", "docs: explain setup")
	got, err := CommitSubject(ctx, repo, "HEAD")
	if err != nil {
		t.Fatalf("CommitSubject() error = %v", err)
	}
	if got != "docs: explain setup" {
		t.Errorf("CommitSubject() = %q", got)
	}
}
