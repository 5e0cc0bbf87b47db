package scoring_test

import (
	"strings"
	"testing"

	"github.com/lexigo/tilescore/internal/domain/rules"
	"github.com/lexigo/tilescore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func mustTable() *rules.Table {
	t, err := rules.New()
	if err != nil {
		panic(err)
	}
	return t
}

func TestTableScorer_Compute(t *testing.T) {
	Convey("Given a strict scorer over the default table", t, func() {
		scorer := scoring.NewTableScorer(mustTable())

		Convey("When scoring known words", func() {
			cases := map[string]int{
				"HELLO": 8,
				"QUIZ":  22,
				"JAZZY": 33,
				"A":     1,
			}
			for word, want := range cases {
				res, err := scorer.Compute(word)
				So(err, ShouldBeNil)
				So(res.Points, ShouldEqual, want)
				So(res.Letters, ShouldEqual, word)
			}
		})

		Convey("When scoring lowercase input", func() {
			res, err := scorer.Compute("hello")

			Convey("Then it is uppercased and scored identically", func() {
				So(err, ShouldBeNil)
				So(res.Letters, ShouldEqual, "HELLO")
				So(res.Points, ShouldEqual, 8)
			})
		})

		Convey("When scoring the same input twice", func() {
			first, err1 := scorer.Compute("QUIZ")
			second, err2 := scorer.Compute("QUIZ")

			Convey("Then the results are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})
		})

		Convey("When the input is exactly ten characters", func() {
			res, err := scorer.Compute(strings.Repeat("A", 10))

			Convey("Then it succeeds", func() {
				So(err, ShouldBeNil)
				So(res.Points, ShouldEqual, 10)
			})
		})

		Convey("When the input is eleven characters", func() {
			_, err := scorer.Compute(strings.Repeat("A", 11))

			Convey("Then it is rejected as too long", func() {
				So(err, ShouldWrap, scoring.ErrTooLong)
			})
		})

		Convey("When the input is empty", func() {
			_, err := scorer.Compute("")

			Convey("Then it is rejected", func() {
				So(err, ShouldWrap, scoring.ErrEmptyInput)
			})
		})

		Convey("When the input carries a digit", func() {
			_, err := scorer.Compute("CAT3")

			Convey("Then it is rejected as an invalid character", func() {
				So(err, ShouldWrap, scoring.ErrInvalidCharacter)
			})
		})
	})

	Convey("Given a lenient scorer", t, func() {
		scorer := scoring.NewTableScorer(mustTable(), scoring.WithLenientValidation())

		Convey("When the input is empty", func() {
			res, err := scorer.Compute("")

			Convey("Then it scores zero", func() {
				So(err, ShouldBeNil)
				So(res.Points, ShouldEqual, 0)
			})
		})

		Convey("When the input mixes letters and punctuation", func() {
			res, err := scorer.Compute("C@T!")

			Convey("Then only alphabet letters contribute", func() {
				So(err, ShouldBeNil)
				So(res.Points, ShouldEqual, 4) // C=3, T=1
			})
		})

		Convey("When the input is still too long", func() {
			_, err := scorer.Compute(strings.Repeat("Z", 11))

			Convey("Then the length cap applies regardless of policy", func() {
				So(err, ShouldWrap, scoring.ErrTooLong)
			})
		})
	})

	Convey("Given a scorer with a custom length cap", t, func() {
		scorer := scoring.NewTableScorer(mustTable(), scoring.WithMaxLength(3))

		Convey("When the input exceeds the cap", func() {
			_, err := scorer.Compute("FOUR")

			Convey("Then it is rejected before scoring", func() {
				So(err, ShouldWrap, scoring.ErrTooLong)
			})
		})
	})
}
