package fn

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, strconv.Itoa)
	if !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Errorf("Map = %v", got)
	}
	if empty := Map(nil, strconv.Itoa); len(empty) != 0 {
		t.Errorf("Map(nil) = %v, want empty", empty)
	}
}

func TestFilter(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	got := Filter([]int{1, 2, 3, 4, 5}, even)
	if !reflect.DeepEqual(got, []int{2, 4}) {
		t.Errorf("Filter = %v", got)
	}
	if got := Filter([]int{1, 3}, even); got != nil {
		t.Errorf("Filter with no matches = %v, want nil", got)
	}
}

func TestFilterMap(t *testing.T) {
	got := FilterMap([]string{"1", "x", "3"}, func(s string) (int, bool) {
		n, err := strconv.Atoi(s)
		return n, err == nil
	})
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("FilterMap = %v", got)
	}
}

func TestReduce(t *testing.T) {
	sum := Reduce([]int{1, 2, 3, 4}, 0, func(acc, n int) int { return acc + n })
	if sum != 10 {
		t.Errorf("Reduce sum = %d, want 10", sum)
	}
	if got := Reduce(nil, 7, func(acc, _ int) int { return acc }); got != 7 {
		t.Errorf("Reduce(nil) = %d, want init", got)
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]string{"a", "b", "a", "c", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Unique = %v, want first occurrences in order", got)
	}
}

func TestUniqueBy(t *testing.T) {
	got := UniqueBy([]string{"Ant", "ant", "Bee"}, strings.ToLower)
	if !reflect.DeepEqual(got, []string{"Ant", "Bee"}) {
		t.Errorf("UniqueBy = %v", got)
	}
}
