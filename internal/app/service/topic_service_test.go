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

func TestCreateTopic(t *testing.T) {
	Convey("Given the topic service", t, func() {
		ctx := context.Background()
		env := newProgressEnv()
		svc := NewTopicService(env.topics, env.svc)
		alice := model.Identity{UserID: "u1", Username: "alice"}

		Convey("A new topic gets a slug and zeroed progress", func() {
			view, err := svc.Create(ctx, alice, CreateTopicRequest{
				Name:        "Dynamic Programming",
				Description: "memo and tabulation",
				Icon:        "🧮",
			})
			So(err, ShouldBeNil)
			So(view.Slug, ShouldEqual, "dynamic-programming")
			So(view.Icon, ShouldEqual, "🧮")
			So(view.TotalProblems, ShouldEqual, 0)
			So(view.Progress, ShouldEqual, 0)
		})

		Convey("An omitted icon falls back to the default", func() {
			view, err := svc.Create(ctx, alice, CreateTopicRequest{Name: "Graphs"})
			So(err, ShouldBeNil)
			So(view.Icon, ShouldEqual, model.DefaultTopicIcon)
		})

		Convey("A missing name is a validation error", func() {
			_, err := svc.Create(ctx, alice, CreateTopicRequest{Description: "no name"})
			So(errors.Is(err, common.ErrValidation), ShouldBeTrue)
		})
	})
}

func TestListTopics(t *testing.T) {
	Convey("Given two topics with different progress per user", t, func() {
		ctx := context.Background()
		env := newProgressEnv()
		svc := NewTopicService(env.topics, env.svc)

		env.addTopic("t1", "Graphs")
		env.addTopic("t2", "Trees")
		env.addProblem("p1", strPtr("t1"), model.DifficultyEasy)
		env.addProblem("p2", strPtr("t1"), model.DifficultyEasy)
		env.addProblem("p3", strPtr("t2"), model.DifficultyHard)
		env.complete("c1", "u1", "p1", time.Now())

		Convey("Each topic carries the requester's own progress", func() {
			views, err := svc.List(ctx, model.Identity{UserID: "u1", Username: "alice"})
			So(err, ShouldBeNil)
			So(views, ShouldHaveLength, 2)

			byName := map[string]TopicView{}
			for _, v := range views {
				byName[v.Name] = v
			}
			So(byName["Graphs"].TotalProblems, ShouldEqual, 2)
			So(byName["Graphs"].CompletedProblems, ShouldEqual, 1)
			So(byName["Graphs"].Progress, ShouldEqual, 50)
			So(byName["Trees"].CompletedProblems, ShouldEqual, 0)
		})

		Convey("A different user sees their own counts", func() {
			views, err := svc.List(ctx, model.Identity{UserID: "u2", Username: "bob"})
			So(err, ShouldBeNil)
			for _, v := range views {
				So(v.CompletedProblems, ShouldEqual, 0)
				So(v.Progress, ShouldEqual, 0)
			}
		})
	})
}
