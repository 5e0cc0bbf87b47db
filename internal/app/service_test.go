package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/lexigo/tilescore/internal/app"
	"github.com/lexigo/tilescore/internal/domain/scoring"
	"github.com/lexigo/tilescore/internal/domain/session"
	"github.com/lexigo/tilescore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startedService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("failed to start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When starting it", func() {
			err := svc.Start(context.Background())

			Convey("Then it starts and reports so", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, true)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})
		})
	})
}

func TestService_ComputeScore(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		Convey("When computing a valid word", func() {
			computed, err := svc.ComputeScore(ctx, "hello")

			Convey("Then the score and normalized letters come back", func() {
				So(err, ShouldBeNil)
				So(computed.Letters, ShouldEqual, "HELLO")
				So(computed.Score, ShouldEqual, 8)
			})
		})

		Convey("When computing an invalid word", func() {
			_, err := svc.ComputeScore(ctx, "nope!")

			Convey("Then the scoring error surfaces unchanged", func() {
				So(errors.Is(err, scoring.ErrInvalidCharacter), ShouldBeTrue)
			})
		})
	})

	Convey("Given a lenient service", t, func() {
		svc := startedService(t, service.WithLenientScoring(true))
		ctx := context.Background()

		Convey("When computing an empty word", func() {
			computed, err := svc.ComputeScore(ctx, "")

			Convey("Then it scores zero", func() {
				So(err, ShouldBeNil)
				So(computed.Score, ShouldEqual, 0)
			})
		})
	})
}

func TestService_Rules(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)

		Convey("When fetching the scoring rules", func() {
			rs := svc.Rules(context.Background())

			Convey("Then they are ordered ascending by points", func() {
				So(len(rs), ShouldEqual, 7)
				So(rs[0].Points, ShouldEqual, 1)
				So(rs[0].Letters, ShouldEqual, "AEIOULNSTR")
				So(rs[6].Points, ShouldEqual, 10)
				So(rs[6].Letters, ShouldEqual, "QZ")
			})
		})
	})
}

func TestService_SaveAndRank(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		Convey("When saving scores in a known order", func() {
			for _, word := range []string{"QUIZ", "HELLO", "WOW"} {
				rec, err := svc.SaveScore(ctx, word)
				So(err, ShouldBeNil)
				So(rec.ID, ShouldNotBeEmpty)
			}

			Convey("Then the leaderboard ranks them 1..3 in score order", func() {
				entries, err := svc.TopScores(ctx, 10)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[0].Score, ShouldEqual, 22)
				So(entries[1].Rank, ShouldEqual, 2)
				So(entries[1].Score, ShouldEqual, 8)
				So(entries[2].Rank, ShouldEqual, 3)
				So(entries[2].Score, ShouldEqual, 4)
			})
		})

		Convey("When saving two words with equal points", func() {
			first, err := svc.SaveScore(ctx, "TEN")
			So(err, ShouldBeNil)
			second, err := svc.SaveScore(ctx, "NET")
			So(err, ShouldBeNil)
			So(first.Points, ShouldEqual, second.Points)

			Convey("Then the earlier submission ranks first with distinct ranks", func() {
				entries, err := svc.TopScores(ctx, 10)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].Letters, ShouldEqual, "TEN")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Letters, ShouldEqual, "NET")
				So(entries[1].Rank, ShouldEqual, 2)
			})
		})

		Convey("When the repository is empty", func() {
			entries, err := svc.TopScores(ctx, 10)

			Convey("Then the leaderboard is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("When saving an invalid word", func() {
			_, err := svc.SaveScore(ctx, "toolongword")

			Convey("Then nothing is persisted", func() {
				So(errors.Is(err, scoring.ErrTooLong), ShouldBeTrue)
				entries, listErr := svc.TopScores(ctx, 10)
				So(listErr, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})
		})
	})
}

func TestService_Limits(t *testing.T) {
	Convey("Given a service with a small leaderboard cap", t, func() {
		svc := startedService(t, service.WithMaxTopLimit(5), service.WithDefaultTopN(2))
		ctx := context.Background()

		for _, word := range []string{"CAT", "DOG", "EEL"} {
			_, err := svc.SaveScore(ctx, word)
			So(err, ShouldBeNil)
		}

		Convey("When requesting more than the cap", func() {
			_, err := svc.TopScores(ctx, 6)

			Convey("Then the request is rejected", func() {
				So(errors.Is(err, service.ErrLimitExceeded), ShouldBeTrue)
			})
		})

		Convey("When requesting without a limit", func() {
			entries, err := svc.TopScores(ctx, 0)

			Convey("Then the configured default applies", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
			})
		})
	})
}

func TestService_SnapshotInterval(t *testing.T) {
	Convey("Given a service with a fast snapshot interval", t, func() {
		svc := startedService(t, service.WithSnapshotInterval(10*time.Millisecond))
		ctx := context.Background()

		Convey("When scores are saved and an interval elapses", func() {
			for _, word := range []string{"QUIZ", "HELLO"} {
				_, err := svc.SaveScore(ctx, word)
				So(err, ShouldBeNil)
			}

			time.Sleep(50 * time.Millisecond)

			Convey("Then the configured interval reaches the store's snapshot cache", func() {
				stats := svc.GetStats()
				So(stats["topCached"], ShouldEqual, 2)
			})
		})
	})
}

func TestService_DeleteScores(t *testing.T) {
	Convey("Given a service with saved scores", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		rec, err := svc.SaveScore(ctx, "GONE")
		So(err, ShouldBeNil)

		Convey("When deleting the record twice", func() {
			removed, err := svc.DeleteScores(ctx, []string{rec.ID})
			So(err, ShouldBeNil)
			So(removed, ShouldEqual, 1)

			removed, err = svc.DeleteScores(ctx, []string{rec.ID})

			Convey("Then the second call removes nothing without error", func() {
				So(err, ShouldBeNil)
				So(removed, ShouldEqual, 0)
			})
		})
	})
}

func TestService_Sessions(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		Convey("When issuing a session", func() {
			s, err := svc.NewSession(ctx)

			Convey("Then it carries generated identity", func() {
				So(err, ShouldBeNil)
				So(s.SessionID, ShouldNotBeEmpty)
				So(s.PlayerID, ShouldNotBeEmpty)
				So(s.PlayerName, ShouldStartWith, "Player")
			})

			Convey("And it can be resolved again", func() {
				got, err := svc.GetSession(ctx, s.SessionID)
				So(err, ShouldBeNil)
				So(got.PlayerID, ShouldEqual, s.PlayerID)
			})
		})

		Convey("When resolving an unknown session", func() {
			_, err := svc.GetSession(ctx, "nope")

			Convey("Then it is not found", func() {
				So(errors.Is(err, session.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}
