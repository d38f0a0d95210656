package glass_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/glassdial/internal/engine"
	"github.com/san-kum/glassdial/internal/glass"
	"github.com/san-kum/glassdial/internal/input"
)

// forwardScript returns n frames of +1 rotation followed by silence.
func forwardScript(n int) []int32 {
	deltas := make([]int32, n)
	for i := range deltas {
		deltas[i] = 1
	}
	return deltas
}

func runScript(seed int64, deltas []int32, frames int) *engine.Result {
	session := glass.NewSession(glass.DefaultTuning(), seed)
	e := engine.New(session, input.NewScript(deltas))
	result, err := e.Run(context.Background(), engine.Config{
		Frames:  frames,
		FrameDt: time.Second / 60,
		Start:   time.Unix(0, 0),
	})
	Expect(err).NotTo(HaveOccurred())
	return result
}

var _ = Describe("destruction lifecycle", func() {
	Context("escalating under sustained forward rotation", func() {
		It("walks the severity ladder without skipping upward by more than the input allows", func() {
			result := runScript(7, forwardScript(120), 130)

			Expect(result.Final.State).To(Equal(glass.Silence))
			Expect(result.Final.Level).To(Equal(1.0))

			for i, ev := range result.Events {
				Expect(ev.New.Severity()).To(BeNumerically(">", ev.Old.Severity()),
					"event %d went backwards under forward rotation", i)
			}
		})

		It("emits exactly one notification per band crossed", func() {
			result := runScript(8, forwardScript(120), 130)

			seen := map[glass.State]int{}
			for _, ev := range result.Events {
				seen[ev.New]++
			}
			for state, count := range seen {
				Expect(count).To(Equal(1), "state %v entered %d times", state, count)
			}
		})
	})

	Context("going idle while destroyed", func() {
		It("runs the complete rebuild sequence back to a pristine pane", func() {
			tuning := glass.DefaultTuning()
			idleFrames := int(tuning.IdleTimeout/(time.Second/60)) + 2
			recoveryFrames := int(1.0/tuning.RecoverySpeed) + 50
			total := 120 + idleFrames + recoveryFrames

			result := runScript(9, forwardScript(120), total)

			var order []glass.State
			for _, ev := range result.Events {
				if ev.New.Override() || ev.New == glass.Normal {
					order = append(order, ev.New)
				}
			}
			Expect(order).To(Equal([]glass.State{glass.Rebuild, glass.Recovery, glass.Normal}))

			Expect(result.Final.State).To(Equal(glass.Normal))
			Expect(result.Final.Level).To(BeZero())
			Expect(result.Final.Cracks).To(BeZero())
			Expect(result.Final.Particles).To(BeZero())
		})

		It("never raises the level once the rebuild starts", func() {
			tuning := glass.DefaultTuning()
			idleFrames := int(tuning.IdleTimeout/(time.Second/60)) + 2
			total := 120 + idleFrames + 400

			result := runScript(10, forwardScript(120), total)

			rebuildFrame := -1
			for _, ev := range result.Events {
				if ev.New == glass.Rebuild {
					rebuildFrame = ev.Frame
					break
				}
			}
			Expect(rebuildFrame).To(BeNumerically(">=", 0), "rebuild never triggered")

			for i := rebuildFrame + 1; i < len(result.Levels); i++ {
				Expect(result.Levels[i]).To(BeNumerically("<=", result.Levels[i-1]),
					"level rose at frame %d", i)
			}
		})

		It("leaves a pristine pane untouched no matter how long it idles", func() {
			result := runScript(11, nil, 1500)

			Expect(result.Events).To(BeEmpty())
			Expect(result.Final.State).To(Equal(glass.Normal))
		})
	})

	Context("under random stress", func() {
		It("holds every structural bound over a long seeded run", func() {
			tuning := glass.DefaultTuning()
			session := glass.NewSession(tuning, 99)
			e := engine.New(session, input.NewRandom(99, 3))

			bound := func(frame int, f glass.Frame) bool {
				Expect(f.Level).To(And(
					BeNumerically(">=", 0),
					BeNumerically("<=", 1),
				), "level escaped bounds at frame %d", frame)
				Expect(len(f.Cracks)).To(BeNumerically("<=", tuning.MaxCracks))
				Expect(len(f.Particles)).To(BeNumerically("<=", tuning.MaxParticles))
				return true
			}

			err := e.RunWithCallback(context.Background(), engine.Config{
				Frames:  1000,
				FrameDt: time.Second / 60,
				Start:   time.Unix(0, 0),
			}, bound)
			Expect(err).NotTo(HaveOccurred())
		})

		It("reproduces a run exactly from the same seed and script", func() {
			deltas := []int32{1, 2, 0, -1, 3, 3, 0, 0, -2, 1}
			script := make([]int32, 0, 400)
			for len(script) < 400 {
				script = append(script, deltas...)
			}

			a := runScript(42, script, 450)
			b := runScript(42, script, 450)

			Expect(a.Final).To(Equal(b.Final))
			Expect(a.Events).To(Equal(b.Events))
			Expect(a.Levels).To(Equal(b.Levels))
		})
	})
})
