package stream

import (
	"errors"
	"iter"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/vnykmshr/lazyflow/internal/testutil"
	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/streaming/source"
)

func TestFrom(t *testing.T) {
	data := []int{1, 2, 3}

	result, err := From(data).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, data)

	// ToSlice over caller data is a copy.
	result[0] = 99
	testutil.AssertEqual(t, data[0], 1)
}

func TestEmpty(t *testing.T) {
	result, err := Empty[int]().ToSlice()
	testutil.AssertNoError(t, err)
	if result == nil || len(result) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", result)
	}

	var zero Stream[string]
	count, err := zero.Count()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, 0)
}

func TestFromChannel_OneShot(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "hello"
	ch <- "world"
	ch <- "test"
	close(ch)

	s := FromChannel(ch)

	result, err := s.ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []string{"hello", "world", "test"})

	again, err := s.ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(again), 0)
}

func TestFromFunc_ProducesPerIteration(t *testing.T) {
	calls := 0
	s := FromFunc(func() []int {
		calls++
		return []int{1, 2}
	})
	testutil.AssertEqual(t, s.Flags().Expensive, true)

	_, _ = s.ToSlice()
	_, _ = s.Count()
	testutil.AssertEqual(t, calls, 2)
}

func TestNilArguments(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"FromSeq", FromSeq[int](nil).Err()},
		{"FromFunc", FromFunc[int](nil).Err()},
		{"FromChannel", FromChannel[int](nil).Err()},
		{"Generate", Generate[int](nil).Err()},
		{"Filter", Of(1).Filter(nil).Err()},
		{"Map", Map[int, int](Of(1), nil).Err()},
		{"Join", Join[int, int, int, int](Of(1), Of(1), nil, nil, nil).Err()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !lferrors.IsValidationError(tt.err) {
				t.Errorf("expected validation error, got %v", tt.err)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	s := Generate(func(i int) int { return i * i })
	testutil.AssertEqual(t, s.Flags().Infinite, true)

	taken := s.Take(4)
	testutil.AssertEqual(t, taken.Flags().Infinite, false)

	result, err := taken.ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{0, 1, 4, 9})

	strs, err := GenerateN(strconv.Itoa, 3).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, strs, []string{"0", "1", "2"})
}

func TestRange(t *testing.T) {
	tests := []struct {
		name             string
		start, end, step int
		want             []int
	}{
		{"up", 0, 10, 3, []int{0, 3, 6, 9}},
		{"down", 5, 0, -2, []int{5, 3, 1}},
		{"wrong direction", 0, 5, -1, nil},
		{"empty", 3, 3, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Range(tt.start, tt.end, tt.step).ToSlice()
			testutil.AssertNoError(t, err)
			testutil.AssertSliceEqual(t, result, tt.want)
		})
	}

	floats, err := Range(0.0, 1.0, 0.25).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, floats, []float64{0, 0.25, 0.5, 0.75})

	if err := Range(0, 10, 0).Err(); !lferrors.IsValidationError(err) {
		t.Errorf("expected validation error for zero step, got %v", err)
	}

	head, err := RangeFrom(10, 5).Take(3).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, head, []int{10, 15, 20})
}

func TestRange_StopsBeforeOverflow(t *testing.T) {
	up, err := Range[int8](100, 127, 10).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, up, []int8{100, 110, 120})

	down, err := Range[int8](-100, -128, -10).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, down, []int8{-100, -110, -120})

	top, err := Range(math.MaxInt-2, math.MaxInt, 3).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, top, []int{math.MaxInt - 2})

	small, err := Range[uint8](250, 255, 2).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, small, []uint8{250, 252, 254})

	tail, err := RangeFrom[int8](120, 3).Take(10).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, tail, []int8{120, 123, 126})
}

func TestRepeatItem(t *testing.T) {
	result, err := Repeat("x", 3).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []string{"x", "x", "x"})

	testutil.AssertEqual(t, Repeat(1, Unbounded).Flags().Infinite, true)
	testutil.AssertErrorIs(t, Repeat(1, -1).Err(), lferrors.ErrInvalidArgument)
}

func TestTake_DoesNotOverPull(t *testing.T) {
	cs := testutil.NewCountingSeq(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	result, err := FromSeq(cs.Seq()).Take(3).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{1, 2, 3})
	testutil.AssertEqual(t, cs.Pulled(), 3)

	_, err = FromSeq(cs.Seq()).Take(0).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cs.Passes(), 1)
}

func TestTakeSkip(t *testing.T) {
	data := []int{1, 2, 3, 4, 5}
	lazySrc := FromSeq(slices.Values(data))

	tests := []struct {
		name string
		s    Stream[int]
		want []int
	}{
		{"take", From(data).Take(2), []int{1, 2}},
		{"take lazy", lazySrc.Take(2), []int{1, 2}},
		{"take past end", From(data).Take(10), data},
		{"take unbounded", From(data).Take(Unbounded), data},
		{"skip", From(data).Skip(2), []int{3, 4, 5}},
		{"skip lazy", lazySrc.Skip(2), []int{3, 4, 5}},
		{"skip past end", From(data).Skip(10), nil},
		{"skip unbounded", From(data).Skip(Unbounded), nil},
		{"take while", From(data).TakeWhile(func(x int) bool { return x < 3 }), []int{1, 2}},
		{"skip while", From(data).SkipWhile(func(x int) bool { return x < 3 }), []int{3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.s.ToSlice()
			testutil.AssertNoError(t, err)
			testutil.AssertSliceEqual(t, result, tt.want)
		})
	}

	testutil.AssertErrorIs(t, From(data).Take(-1).Err(), lferrors.ErrInvalidArgument)
	testutil.AssertErrorIs(t, From(data).Skip(-3).Err(), lferrors.ErrInvalidArgument)
}

func TestFilterPeek(t *testing.T) {
	var seen []int
	result, err := From([]int{1, 2, 3, 4, 5, 6}).
		Peek(func(x int) { seen = append(seen, x) }).
		Filter(func(x int) bool { return x%2 == 0 }).
		Take(2).
		ToSlice()

	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{2, 4})
	testutil.AssertSliceEqual(t, seen, []int{1, 2, 3, 4})
}

func TestConcat(t *testing.T) {
	s := Of(1, 2).Concat(Of(3), Empty[int]()).Append(4, 5)
	result, err := s.ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{1, 2, 3, 4, 5})

	inf := Of(1).Concat(Generate(func(i int) int { return i }))
	testutil.AssertEqual(t, inf.Flags().Infinite, true)

	calls := 0
	grouped := GroupByMap(Of(7, 7), func(n int) int { return n }, func(k int, _ Stream[int]) int {
		calls++
		return k
	})
	mixed := Of(1).Concat(grouped)
	testutil.AssertEqual(t, mixed.Flags().Expensive, true)

	cycled, err := mixed.Repeat(3).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, cycled, []int{1, 7, 1, 7, 1, 7})
	testutil.AssertEqual(t, calls, 1)

	bad := Of(1).Take(-1)
	testutil.AssertErrorIs(t, Of(1).Concat(bad).Err(), lferrors.ErrInvalidArgument)
}

func TestRepeatStream(t *testing.T) {
	result, err := Of(1, 2).Repeat(2).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{1, 2, 1, 2})

	cycled, err := Of("a", "b").Repeat(Unbounded).Take(5).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, cycled, []string{"a", "b", "a", "b", "a"})

	// Cycling nothing must terminate.
	none, err := Empty[int]().Repeat(Unbounded).Take(3).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(none), 0)
}

func TestRepeatStream_ProducesExpensiveSourceOnce(t *testing.T) {
	calls := 0
	s := FromFunc(func() []int {
		calls++
		return []int{7, 8}
	})

	count, err := s.Repeat(3).Count()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, 6)
	testutil.AssertEqual(t, calls, 1)
}

func TestReverse(t *testing.T) {
	data := []int{1, 2, 3}
	s := From(data).Reverse()
	testutil.AssertEqual(t, s.Flags(), source.Materialized())

	result, err := s.ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{3, 2, 1})
	testutil.AssertSliceEqual(t, data, []int{1, 2, 3})

	twice, err := From(data).Reverse().Reverse().ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, twice, data)
}

func TestShuffle(t *testing.T) {
	data := []int{1, 2, 3, 4, 5, 6, 7, 8}
	r := rand.New(rand.NewPCG(1, 2))

	result, err := From(data).Shuffle(r).ToSlice()
	testutil.AssertNoError(t, err)
	slices.Sort(result)
	testutil.AssertSliceEqual(t, result, data)

	// Same seed, same permutation.
	a, _ := From(data).Shuffle(rand.New(rand.NewPCG(7, 7))).ToSlice()
	b, _ := From(data).Shuffle(rand.New(rand.NewPCG(7, 7))).ToSlice()
	testutil.AssertSliceEqual(t, a, b)
}

func TestCollapse_FreshBufferPerIteration(t *testing.T) {
	s := From([]int{1, 2, 3}).Collapse()
	testutil.AssertEqual(t, s.Flags(), source.Materialized())

	first, err := s.ToSlice()
	testutil.AssertNoError(t, err)
	first[0] = 100

	second, err := s.ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, second, []int{1, 2, 3})
}

func TestDeepCopy(t *testing.T) {
	type doc struct {
		Tags []string
	}
	data := []doc{{Tags: []string{"a", "b"}}}

	copies, err := From(data).DeepCopy().ToSlice()
	testutil.AssertNoError(t, err)
	copies[0].Tags[0] = "changed"

	testutil.AssertEqual(t, data[0].Tags[0], "a")
}

func TestMap(t *testing.T) {
	doubled, err := Map(Of(1, 2, 3), func(x int) int { return x * 2 }).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, doubled, []int{2, 4, 6})

	labels, err := MapIndexed(Of("a", "b"), func(i int, s string) string {
		return strconv.Itoa(i) + s
	}).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, labels, []string{"0a", "1b"})

	testutil.AssertEqual(t, Map(Generate(func(i int) int { return i }), strconv.Itoa).Flags().Infinite, true)
}

func TestFlatMap(t *testing.T) {
	words, err := FlatMap(Of("a b", "c", ""), func(s string) iter.Seq[string] {
		return slices.Values(strings.Fields(s))
	}).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, words, []string{"a", "b", "c"})

	nested, err := FlatMap(Of(1, 2), func(n int) iter.Seq[int] {
		return Repeat(n, n).All()
	}).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, nested, []int{1, 2, 2})
}

func TestDistinct(t *testing.T) {
	result, err := Distinct(Of(3, 1, 3, 2, 1)).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{3, 1, 2})

	byLen, err := DistinctBy(Of("go", "is", "fun", "yes"), func(s string) int { return len(s) }).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, byLen, []string{"go", "fun"})
}

func TestChunk(t *testing.T) {
	chunks, err := Chunk(Range(1, 6, 1), 2).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, chunks, [][]int{{1, 2}, {3, 4}, {5}})

	testutil.AssertErrorIs(t, Chunk(Of(1), 0).Err(), lferrors.ErrInvalidArgument)
}

func TestZip(t *testing.T) {
	pairs, err := Zip(Of(1, 2, 3), Of("a", "b"), func(n int, s string) string {
		return strconv.Itoa(n) + s
	}).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, pairs, []string{"1a", "2b"})

	indexed, err := Zip(Of("x", "y"), RangeFrom(0, 1), func(s string, i int) string {
		return s + strconv.Itoa(i)
	}).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, indexed, []string{"x0", "y1"})
}

func TestFailedStagePropagates(t *testing.T) {
	bad := Of(1, 2, 3).Take(-1)
	err := bad.Err()
	testutil.AssertErrorIs(t, err, lferrors.ErrInvalidArgument)
	if !strings.Contains(err.Error(), "stream.Take failed") {
		t.Errorf("error %q should name the failing operation", err)
	}

	derived := Map(bad.Filter(func(int) bool { return true }), strconv.Itoa)
	_, got := derived.ToSlice()
	if !errors.Is(got, lferrors.ErrInvalidArgument) {
		t.Fatalf("derived stage should carry the original error, got %v", got)
	}

	// Upstream stages are untouched.
	result, err := Of(1, 2, 3).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 3)
}

func TestInfiniteTaint(t *testing.T) {
	inf := Map(Generate(func(i int) int { return i }), func(i int) int { return i * 2 }).
		Filter(func(i int) bool { return i%3 == 0 })
	other := Of(1, 2)
	key := func(i int) int { return i }

	tests := []struct {
		name string
		run  func() error
	}{
		{"ToSlice", func() error { _, err := inf.ToSlice(); return err }},
		{"Count", func() error { _, err := inf.Count(); return err }},
		{"ForEach", func() error { return inf.ForEach(func(int) {}) }},
		{"Reduce", func() error { _, err := inf.Reduce(func(a, b int) int { return a + b }); return err }},
		{"Fold", func() error { _, err := Fold(inf, 0, func(a, b int) int { return a + b }); return err }},
		{"Last", func() error { _, err := inf.Last(); return err }},
		{"Every", func() error { _, err := inf.Every(func(int) bool { return true }); return err }},
		{"FindFinal", func() error { _, _, err := inf.FindFinal(func(int) bool { return true }); return err }},
		{"MakeString", func() error { _, err := inf.MakeString(","); return err }},
		{"Min", func() error { _, err := inf.Min(); return err }},
		{"ToSet", func() error { _, err := ToSet(inf); return err }},
		{"ToMap", func() error { _, err := ToMap(inf, key, key); return err }},
		{"SequenceEquals", func() error { _, err := SequenceEquals(other, inf); return err }},
		{"MarshalJSON", func() error { _, err := inf.MarshalJSON(); return err }},
		{"Sort", func() error { return inf.Sort().Err() }},
		{"SortTake", func() error { return inf.Sort().Take(3).Err() }},
		{"GroupBy", func() error { return GroupBy(inf, key).Err() }},
		{"Reverse", func() error { return inf.Reverse().Err() }},
		{"Shuffle", func() error { return inf.Shuffle(nil).Err() }},
		{"Join outer", func() error { return Join(inf, other, key, key, func(a, b int) int { return a }).Err() }},
		{"Join inner", func() error { return Join(other, inf, key, key, func(a, b int) int { return a }).Err() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !lferrors.IsNeverEnding(err) {
				t.Errorf("expected never-ending error, got %v", err)
			}
		})
	}

	first, err := inf.First()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, first, 0)

	found, err := inf.Any(func(i int) bool { return i > 10 })
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, found, true)
}

func TestFlags(t *testing.T) {
	gen := Generate(func(i int) int { return i })
	key := func(i int) int { return i }

	tests := []struct {
		name string
		got  source.Flags
		want source.Flags
	}{
		{"From", Of(1).Flags(), source.Flags{}},
		{"FromFunc", FromFunc(func() []int { return nil }).Flags(), source.Flags{Expensive: true}},
		{"Generate", gen.Flags(), source.Flags{Infinite: true}},
		{"Map over infinite", Map(gen, key).Flags(), source.Flags{Infinite: true}},
		{"Take over infinite", gen.Take(2).Flags(), source.Flags{}},
		{"Sort", Of(2, 1).Sort().Flags(), source.Materialized()},
		{"Map over sort", Map(Of(2, 1).Sort().Stream, key).Flags(), source.Flags{}},
		{"Take over fresh", Of(2, 1).Collapse().Take(1).Flags(), source.Flags{Fresh: true}},
		{"GroupBy", GroupBy(Of(1), key).Flags(), source.Materialized()},
		{"Join", Join(Of(1), Of(1), key, key, func(a, b int) int { return a }).Flags(), source.Indexed()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, tt.got, tt.want)
		})
	}
}

func TestAll_IsLazy(t *testing.T) {
	calls := 0
	s := FromFunc(func() []int {
		calls++
		return []int{1, 2, 3}
	})

	seq := s.All()
	testutil.AssertEqual(t, calls, 0)

	sum := 0
	for v := range seq {
		sum += v
	}
	testutil.AssertEqual(t, sum, 6)
	testutil.AssertEqual(t, calls, 1)
}

func TestFromJSON(t *testing.T) {
	body := []byte(`{"items":[{"name":"a","qty":2},{"name":"b","qty":5}],"total":7}`)

	names, err := Map(FromJSON(body, "items"), func(r gjson.Result) string {
		return r.Get("name").String()
	}).ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, names, []string{"a", "b"})

	total, err := FromJSON(body, "total").Count()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, total, 1)

	missing, err := FromJSON(body, "nope").Count()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, missing, 0)

	if err := FromJSON([]byte(`{"broken"`), "").Err(); !lferrors.IsValidationError(err) {
		t.Errorf("expected validation error for invalid JSON, got %v", err)
	}
}

func TestNaturalSortOfMixedValues(t *testing.T) {
	result, err := Of[any]("b", 2, nil, true, "a", 1.5).Sort().ToSlice()
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []any{nil, true, 1.5, 2, "a", "b"})
}
