package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"practicetrack/internal/common"
	"practicetrack/internal/domain/model"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSubmit(t *testing.T) {
	Convey("Given a problem to submit against", t, func() {
		ctx := context.Background()
		submissions := newMemSubmissionRepo()
		problems := newMemProblemRepo()
		completions := newMemCompletionRepo()
		svc := NewSubmissionService(submissions, problems, completions)

		problems.Create(ctx, &model.Problem{
			ID:         "p1",
			Name:       "Two Sum",
			Difficulty: model.DifficultyEasy,
			Tags:       []string{},
			CreatedAt:  time.Now(),
		})
		alice := model.Identity{UserID: "u1", Username: "alice"}

		Convey("A first submission creates a row with the given fields", func() {
			sub, err := svc.Submit(ctx, alice, SubmitRequest{
				ProblemID: "p1", Code: "X", Language: "go", Notes: "first try",
			})
			So(err, ShouldBeNil)
			So(sub.Code, ShouldEqual, "X")
			So(sub.Language, ShouldEqual, "go")
			So(sub.Notes, ShouldEqual, "first try")
			So(submissions.count(), ShouldEqual, 1)
		})

		Convey("An omitted language defaults", func() {
			sub, err := svc.Submit(ctx, alice, SubmitRequest{ProblemID: "p1", Code: "X"})
			So(err, ShouldBeNil)
			So(sub.Language, ShouldEqual, model.DefaultSubmissionLanguage)
		})

		Convey("Resubmitting replaces the row in place", func() {
			first, err := svc.Submit(ctx, alice, SubmitRequest{ProblemID: "p1", Code: "X"})
			So(err, ShouldBeNil)

			second, err := svc.Submit(ctx, alice, SubmitRequest{ProblemID: "p1", Code: "Y", Language: "go"})
			So(err, ShouldBeNil)

			So(second.ID, ShouldEqual, first.ID)
			So(submissions.count(), ShouldEqual, 1)

			stored, err := submissions.FindByUserAndProblem(ctx, "u1", "p1")
			So(err, ShouldBeNil)
			So(stored.Code, ShouldEqual, "Y")
			So(stored.Language, ShouldEqual, "go")
		})

		Convey("Different users keep separate rows for the same problem", func() {
			bob := model.Identity{UserID: "u2", Username: "bob"}
			_, err := svc.Submit(ctx, alice, SubmitRequest{ProblemID: "p1", Code: "A"})
			So(err, ShouldBeNil)
			_, err = svc.Submit(ctx, bob, SubmitRequest{ProblemID: "p1", Code: "B"})
			So(err, ShouldBeNil)
			So(submissions.count(), ShouldEqual, 2)
		})

		Convey("Missing problem id or code is a validation error", func() {
			_, err := svc.Submit(ctx, alice, SubmitRequest{Code: "X"})
			So(errors.Is(err, common.ErrValidation), ShouldBeTrue)
			_, err = svc.Submit(ctx, alice, SubmitRequest{ProblemID: "p1"})
			So(errors.Is(err, common.ErrValidation), ShouldBeTrue)
		})

		Convey("Submitting against a nonexistent problem is not found", func() {
			_, err := svc.Submit(ctx, alice, SubmitRequest{ProblemID: "p-missing", Code: "X"})
			So(errors.Is(err, common.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestUpdateSubmission(t *testing.T) {
	Convey("Given an existing submission by alice", t, func() {
		ctx := context.Background()
		submissions := newMemSubmissionRepo()
		problems := newMemProblemRepo()
		completions := newMemCompletionRepo()
		svc := NewSubmissionService(submissions, problems, completions)

		submissions.Create(ctx, &model.Submission{
			ID:          "s1",
			UserID:      "u1",
			ProblemID:   "p1",
			Code:        "old",
			Language:    "cpp",
			SubmittedAt: time.Now().Add(-time.Hour),
		})
		alice := model.Identity{UserID: "u1", Username: "alice"}
		bob := model.Identity{UserID: "u2", Username: "bob"}

		Convey("The owner can edit code, language and notes", func() {
			updated, err := svc.Update(ctx, alice, "s1", UpdateSubmissionRequest{
				Code: "new", Language: "go", Notes: "rewrite",
			})
			So(err, ShouldBeNil)
			So(updated.Code, ShouldEqual, "new")
			So(updated.Language, ShouldEqual, "go")
			So(updated.Notes, ShouldEqual, "rewrite")
		})

		Convey("Anyone else is forbidden, and the row is untouched", func() {
			_, err := svc.Update(ctx, bob, "s1", UpdateSubmissionRequest{Code: "hax", Language: "go"})
			So(errors.Is(err, common.ErrForbidden), ShouldBeTrue)

			stored, _ := submissions.FindByID(ctx, "s1")
			So(stored.Code, ShouldEqual, "old")
		})

		Convey("Missing code or language is a validation error", func() {
			_, err := svc.Update(ctx, alice, "s1", UpdateSubmissionRequest{Language: "go"})
			So(errors.Is(err, common.ErrValidation), ShouldBeTrue)
			_, err = svc.Update(ctx, alice, "s1", UpdateSubmissionRequest{Code: "new"})
			So(errors.Is(err, common.ErrValidation), ShouldBeTrue)
		})

		Convey("An unknown submission id is not found", func() {
			_, err := svc.Update(ctx, alice, "s-missing", UpdateSubmissionRequest{Code: "x", Language: "go"})
			So(errors.Is(err, common.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestListSubmissionsForProblem(t *testing.T) {
	Convey("Given submissions from two users on one problem", t, func() {
		ctx := context.Background()
		submissions := newMemSubmissionRepo()
		problems := newMemProblemRepo()
		completions := newMemCompletionRepo()
		svc := NewSubmissionService(submissions, problems, completions)

		problems.Create(ctx, &model.Problem{
			ID:           "p1",
			Name:         "Two Sum",
			Description:  "classic",
			Difficulty:   model.DifficultyEasy,
			ExternalLink: "https://example.com/two-sum",
			Tags:         []string{},
			CreatedAt:    time.Now(),
		})
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		submissions.Create(ctx, &model.Submission{
			ID: "s1", UserID: "u1", ProblemID: "p1", Code: "A", Language: "go",
			SubmittedAt: base, UserUsername: "alice",
		})
		submissions.Create(ctx, &model.Submission{
			ID: "s2", UserID: "u2", ProblemID: "p1", Code: "B", Language: "cpp",
			SubmittedAt: base.Add(time.Hour), UserUsername: "bob",
		})
		completions.Create(ctx, &model.Completion{
			ID: "c1", UserID: "u1", ProblemID: "p1", CompletedAt: base,
		})

		Convey("When alice lists the problem's submissions", func() {
			resp, err := svc.ListForProblem(ctx, model.Identity{UserID: "u1", Username: "alice"}, "p1")
			So(err, ShouldBeNil)

			Convey("They come newest first with author info", func() {
				So(resp.Submissions, ShouldHaveLength, 2)
				So(resp.Submissions[0].User.Username, ShouldEqual, "bob")
				So(resp.Submissions[1].User.Username, ShouldEqual, "alice")
			})

			Convey("Per-author completion state is attached", func() {
				So(resp.Submissions[0].IsCompleted, ShouldBeFalse)
				So(resp.Submissions[1].IsCompleted, ShouldBeTrue)
			})

			Convey("The requester's own submission is flagged", func() {
				So(resp.Submissions[0].IsCurrentUser, ShouldBeFalse)
				So(resp.Submissions[1].IsCurrentUser, ShouldBeTrue)
			})

			Convey("The problem summary is present", func() {
				So(resp.Problem, ShouldNotBeNil)
				So(resp.Problem.Name, ShouldEqual, "Two Sum")
			})
		})

		Convey("When the problem has been deleted out from under its submissions", func() {
			problems.Delete(ctx, "p1")
			resp, err := svc.ListForProblem(ctx, model.Identity{UserID: "u1"}, "p1")
			So(err, ShouldBeNil)

			Convey("Orphaned submissions still render, with a nil summary", func() {
				So(resp.Submissions, ShouldHaveLength, 2)
				So(resp.Problem, ShouldBeNil)
			})
		})
	})
}
