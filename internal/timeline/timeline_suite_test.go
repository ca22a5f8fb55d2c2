package timeline

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTimeline(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Timeline Suite")
}

var _ = Describe("Driver", func() {
	var d *Driver

	BeforeEach(func() {
		d = NewDriver(Range{Min: 2000, Max: 2002}, time.Millisecond)
	})

	It("starts stopped at the end of the range", func() {
		Expect(d.Running()).To(BeFalse())
		Expect(d.Year()).To(Equal(2002))
	})

	It("loops through the range while running", func() {
		cmd := d.Toggle()
		var seen []int
		for i := 0; i < 5; i++ {
			msg, ok := cmd().(TickMsg)
			Expect(ok).To(BeTrue())
			var advanced bool
			advanced, cmd = d.Tick(msg)
			Expect(advanced).To(BeTrue())
			seen = append(seen, d.Year())
		}
		Expect(seen).To(Equal([]int{2000, 2001, 2002, 2000, 2001}))
	})

	Context("when stopped before a scheduled tick fires", func() {
		It("drops the tick", func() {
			cmd := d.Start()
			d.Toggle()
			Expect(d.Running()).To(BeFalse())

			advanced, next := d.Tick(cmd().(TickMsg))
			Expect(advanced).To(BeFalse())
			Expect(next).To(BeNil())
			Expect(d.Year()).To(Equal(2002))
		})
	})

	Context("when the user scrubs during playback", func() {
		It("halts autoplay and keeps the chosen year", func() {
			cmd := d.Start()
			d.Set(2001)
			Expect(d.Running()).To(BeFalse())

			advanced, _ := d.Tick(cmd().(TickMsg))
			Expect(advanced).To(BeFalse())
			Expect(d.Year()).To(Equal(2001))
		})
	})
})

var _ = Describe("Filter", func() {
	It("matches the visible count reported by Counts", func() {
		features := scenario()
		r := DefaultRange()
		counts := Counts(features, r)
		for year := r.Min; year <= r.Max; year++ {
			Expect(Filter(features, year)).To(HaveLen(counts[year-r.Min]))
		}
	})
})
