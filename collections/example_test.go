package collections_test

import (
	"fmt"
	"strconv"

	"github.com/hasbyte1/go-lazy-collections/collections"
)

func ExampleOf() {
	s := collections.Of(1, 2, 3, 4, 5)
	fmt.Println(s.Count(), collections.Sum[int](s))
	// Output: 5 15
}

func ExampleSequence_Filter() {
	result := collections.Of(1, 2, 3, 4, 5, 6).
		Filter(func(n, _ int) bool { return n%2 == 0 }).
		All()
	fmt.Println(result)
	// Output: [2 4 6]
}

func ExampleSequence_Sort() {
	result := collections.Of(5, 3, 1, 4, 2).
		Sort(func(a, b int) bool { return a < b }).
		All()
	fmt.Println(result)
	// Output: [1 2 3 4 5]
}

func ExampleSequence_Chunk() {
	chunks, _ := collections.Of(1, 2, 3, 4, 5).Chunk(2)
	for _, chunk := range chunks {
		fmt.Println(chunk.All())
	}
	// Output:
	// [1 2]
	// [3 4]
	// [5]
}

func ExampleSequence_Implode() {
	s := collections.Of(1, 2, 3).Implode(", ", strconv.Itoa)
	fmt.Println(s)
	// Output: 1, 2, 3
}

func ExampleMapTo() {
	result := collections.MapTo(
		collections.Of(1, 2, 3),
		func(n, _ int) string { return strconv.Itoa(n * n) },
	)
	fmt.Println(result.Join(", "))
	// Output: 1, 4, 9
}

func ExampleReduce() {
	sum := collections.Reduce(
		collections.Of(1, 2, 3, 4, 5),
		func(acc, n, _ int) int { return acc + n },
		0,
	)
	fmt.Println(sum)
	// Output: 15
}

func ExampleZip() {
	pairs := collections.Zip(collections.Of("a", "b", "c"), collections.Of(1, 2, 3))
	pairs.Each(func(p collections.Pair[string, int], _ int) {
		fmt.Printf("%s=%d\n", p.First, p.Second)
	})
	// Output:
	// a=1
	// b=2
	// c=3
}

func ExampleGroupBy() {
	groups := collections.GroupBy(
		collections.Of(1, 2, 3, 4, 5, 6),
		func(n int) string {
			if n%2 == 0 {
				return "even"
			}
			return "odd"
		},
	)
	even, _ := groups.Get("even")
	fmt.Println(collections.Sum[int](even))
	// Output: 12
}

func ExampleMap_Put() {
	m := collections.MapOf(collections.P("a", 1))
	m2 := m.Put("b", 2)
	fmt.Println(m, m2)
	// Output: {a: 1} {a: 1, b: 2}
}

func ExampleCollection_LazyPipeline() {
	out, _ := collections.LazyRange(1, 1_000_000).LazyPipeline(
		collections.PipeMap(func(v, _ int) int { return v * 2 }),
		collections.PipeTake[int, int](3),
	)
	fmt.Println(out.Values().All())
	// Output: [2 4 6]
}
