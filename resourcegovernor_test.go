package qaoa

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewResourceGovernor(t *testing.T) {
	Convey("Given parameters for a new resource governor", t, func() {
		Convey("When creating a new resource governor", func() {
			governor := NewResourceGovernor(100, 1<<30)

			Convey("It should be properly initialized", func() {
				So(governor, ShouldNotBeNil)
				So(governor.maxNodes, ShouldEqual, 100)
				So(governor.maxHeapBytes, ShouldEqual, uint64(1<<30))
				So(governor.currentNodes, ShouldEqual, 0)
				So(governor.Limit(), ShouldBeFalse)
			})
		})

		Convey("When the node budget is not positive", func() {
			governor := NewResourceGovernor(0, 0)

			Convey("It should fall back to the default", func() {
				So(governor.MaxNodes(), ShouldEqual, DefaultMaxNodes)
			})
		})
	})
}

func TestResourceGovernorObserve(t *testing.T) {
	Convey("Given a resource governor", t, func() {
		governor := NewResourceGovernor(10, 0)

		Convey("When observing a layer within budget", func() {
			governor.Observe(3, 10)

			Convey("It should not limit", func() {
				nodes, heap := governor.GetResourceUsage()
				So(nodes, ShouldEqual, 10)
				So(heap, ShouldEqual, uint64(0))
				So(governor.Limit(), ShouldBeFalse)
				So(governor.Err(), ShouldBeNil)
			})
		})

		Convey("When observing a layer above budget", func() {
			governor.Observe(4, 11)

			Convey("It should limit and explain why", func() {
				So(governor.Limit(), ShouldBeTrue)

				var target *ResourceExhaustedError
				So(errors.As(governor.Err(), &target), ShouldBeTrue)
				So(target.Resource, ShouldEqual, "tree layer nodes")
				So(target.Requested, ShouldEqual, uint64(11))
			})

			Convey("When renormalizing", func() {
				governor.Renormalize()

				Convey("It should forget the violation", func() {
					So(governor.Limit(), ShouldBeFalse)
				})
			})
		})
	})

	Convey("Given a governor with a tiny heap budget", t, func() {
		governor := NewResourceGovernor(10, 1)
		governor.Observe(1, 1)

		Convey("It should report the heap as exhausted", func() {
			var target *ResourceExhaustedError
			So(errors.As(governor.Err(), &target), ShouldBeTrue)
			So(target.Resource, ShouldEqual, "heap bytes")
		})
	})
}

func TestResourceGovernorAdmit(t *testing.T) {
	Convey("Given a resource governor", t, func() {
		governor := NewResourceGovernor(16, 0)

		Convey("It should admit requests up to the budget", func() {
			So(governor.Admit("states", 16), ShouldBeNil)
		})

		Convey("It should refuse requests above the budget without recording them", func() {
			err := governor.Admit("states", 17)
			So(errors.Is(err, ErrResourceExhausted), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "states requested 17, limit 16")
			So(governor.Limit(), ShouldBeFalse)
		})
	})
}

func TestResourceGovernorAdmitTable(t *testing.T) {
	Convey("Given a resource governor", t, func() {
		governor := NewResourceGovernor(16, 0)

		Convey("It should admit tables up to the budget", func() {
			So(governor.AdmitTable("cells", 4, 4), ShouldBeNil)
			So(governor.AdmitTable("cells", 0, math.MaxUint64), ShouldBeNil)
		})

		Convey("It should report the size of a table above the budget", func() {
			var target *ResourceExhaustedError
			So(errors.As(governor.AdmitTable("cells", 4, 5), &target), ShouldBeTrue)
			So(target.Requested, ShouldEqual, uint64(20))
			So(target.Limit, ShouldEqual, uint64(16))
		})

		Convey("When the table size does not fit a uint64", func() {
			var target *ResourceExhaustedError
			err := governor.AdmitTable("cells", 4, 1<<62+1)

			Convey("It should refuse it with a saturated size", func() {
				So(errors.As(err, &target), ShouldBeTrue)
				So(target.Requested, ShouldEqual, uint64(math.MaxUint64))
			})
		})
	})
}
