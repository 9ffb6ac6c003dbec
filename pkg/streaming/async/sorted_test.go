package async

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/vnykmshr/lazyflow/internal/testutil"
	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/order"
)

type score struct {
	Player string
	Points int
	Round  int
}

var (
	byPoints = order.KeyOf(func(s score) int { return s.Points })
	byRound  = order.KeyOf(func(s score) int { return s.Round })
)

func players(scores []score) []string {
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.Player
	}
	return out
}

func TestSortBy_ThenBy(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	data := []score{
		{"ann", 10, 2}, {"bob", 7, 1}, {"cid", 10, 1}, {"dee", 7, 1}, {"eve", 3, 5},
	}

	asc, err := FromSlice(data).SortBy(byPoints).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, players(asc), []string{"eve", "bob", "dee", "ann", "cid"})

	refined, err := FromSlice(data).SortByDescending(byPoints).ThenBy(byRound).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, players(refined), []string{"cid", "ann", "bob", "dee", "eve"})

	desc, err := FromSlice(data).SortBy(byPoints).ThenByDescending(byRound).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, players(desc), []string{"eve", "bob", "dee", "ann", "cid"})

	testutil.AssertSliceEqual(t, players(data), []string{"ann", "bob", "cid", "dee", "eve"})
}

func TestSortedTake_MatchesFullSortPrefix(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	r := rand.New(rand.NewPCG(5, 8))
	for _, size := range []int{0, 1, 6, 30} {
		data := make([]score, size)
		for i := range data {
			data[i] = score{Player: string(rune('a' + i%26)), Points: r.IntN(6), Round: r.IntN(3)}
		}
		want := slices.Clone(data)
		slices.SortStableFunc(want, order.Composite(byPoints, byRound.Reverse()))

		for n := 0; n <= size+2; n++ {
			got, err := FromSlice(data).SortBy(byPoints).ThenByDescending(byRound).Take(n).ToSlice(ctx)
			testutil.AssertNoError(t, err)
			testutil.AssertSliceEqual(t, got, want[:min(n, size)])

			rest, err := FromSlice(data).SortBy(byPoints).ThenByDescending(byRound).Skip(n).ToSlice(ctx)
			testutil.AssertNoError(t, err)
			testutil.AssertSliceEqual(t, rest, want[min(n, size):])
		}
	}
}

func TestSortedTake_PullsInputOnce(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	mock := testutil.NewMockSource(5, 3, 8, 1, 9)
	got, err := FromSource[int](mock).SortBy(order.Natural[int]()).Take(2).ToSlice(ctx)

	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, got, []int{1, 3})
	testutil.AssertEqual(t, mock.Pulled(), 5)
	testutil.AssertEqual(t, mock.Closed(), true)
}

func TestSorted_EdgeCounts(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	mock := testutil.NewMockSource(2, 1)
	s := FromSource[int](mock).SortByDescending(order.Natural[int]())

	none, err := s.Take(0).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(none), 0)
	testutil.AssertEqual(t, mock.Pulled(), 0)

	if s.Take(Unbounded) != s {
		t.Error("Take(Unbounded) should return the stage itself")
	}
	testutil.AssertErrorIs(t, s.Take(-1).Err(), lferrors.ErrInvalidArgument)

	top := s.Take(2)
	testutil.AssertEqual(t, top.PreSorted(), true)
	tail, err := top.Skip(1).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, tail, []int{1})
}

func TestSorted_CanceledWhileDraining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pulled := 0
	naturals := Generate(func(_ context.Context, i int) (int, error) {
		pulled++
		if pulled == 100 {
			cancel()
		}
		return -i, nil
	})

	_, err := naturals.SortBy(order.By[int](cmp.Compare[int])).Take(3).ToSlice(ctx)
	testutil.AssertErrorIs(t, err, context.Canceled)
	testutil.AssertEqual(t, pulled, 100)
}
