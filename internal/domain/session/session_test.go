package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lexigo/tilescore/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryIssuer(t *testing.T) {
	Convey("Given an in-memory issuer", t, func() {
		issuer := session.NewInMemoryIssuer()
		ctx := context.Background()

		Convey("When issuing a session", func() {
			s, err := issuer.NewSession(ctx)

			Convey("Then it has generated identity", func() {
				So(err, ShouldBeNil)
				So(s.SessionID, ShouldNotBeEmpty)
				So(s.PlayerID, ShouldNotBeEmpty)
				So(s.PlayerName, ShouldStartWith, "Player")
				So(s.CreatedAt.IsZero(), ShouldBeFalse)
			})

			Convey("And it resolves by id", func() {
				got, err := issuer.Get(ctx, s.SessionID)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, s)
			})

			Convey("And two sessions never share ids", func() {
				other, err := issuer.NewSession(ctx)
				So(err, ShouldBeNil)
				So(other.SessionID, ShouldNotEqual, s.SessionID)
				So(other.PlayerID, ShouldNotEqual, s.PlayerID)
			})
		})

		Convey("When resolving an unknown id", func() {
			_, err := issuer.Get(ctx, "unknown")

			Convey("Then it reports not found", func() {
				So(errors.Is(err, session.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a bounded issuer", t, func() {
		issuer := session.NewInMemoryIssuer(session.WithMaxSessions(2))
		ctx := context.Background()

		Convey("When issuing past the bound", func() {
			first, err := issuer.NewSession(ctx)
			So(err, ShouldBeNil)
			_, err = issuer.NewSession(ctx)
			So(err, ShouldBeNil)
			_, err = issuer.NewSession(ctx)
			So(err, ShouldBeNil)

			Convey("Then the oldest session is evicted", func() {
				So(issuer.Size(), ShouldEqual, 2)
				_, err := issuer.Get(ctx, first.SessionID)
				So(errors.Is(err, session.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given an issuer with a custom name source", t, func() {
		issuer := session.NewInMemoryIssuer(session.WithNameFunc(func() string { return "Tester" }))

		Convey("When issuing a session", func() {
			s, err := issuer.NewSession(context.Background())

			Convey("Then the custom name is used", func() {
				So(err, ShouldBeNil)
				So(s.PlayerName, ShouldEqual, "Tester")
			})
		})
	})
}
