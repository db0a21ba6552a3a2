package sim_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/params"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/sim"
)

type fakeRenderer struct {
	ready  atomic.Bool
	fail   atomic.Bool
	mu     sync.Mutex
	frames []sim.Frame
}

func (r *fakeRenderer) Ready() bool { return r.ready.Load() }

func (r *fakeRenderer) Render(f sim.Frame) error {
	if r.fail.Load() {
		return errors.New("gpu lost")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	return nil
}

func (r *fakeRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *fakeRenderer) last() sim.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

var _ = Describe("Simulator", func() {
	var (
		store *params.Store
		s     *sim.Simulator
	)

	BeforeEach(func() {
		var err error
		store = params.NewStore(dynamo.DefaultParams(), params.DefaultLimits())
		s, err = sim.New(physics.NewProductSine(), store, sim.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("energy level change mid-run", func() {
		It("clears the trail before the next push", func() {
			for i := 0; i < 30; i++ {
				_, err := s.Tick(0.016)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(s.TrailLen()).To(Equal(30))

			changed, err := s.Dispatch(params.SetEnergyLevel{N: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())
			Expect(s.TrailLen()).To(BeZero())

			f, err := s.Tick(0.016)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Trail).To(HaveLen(1))
			Expect(f.Params.Energy).To(Equal(dynamo.EnergyLevel(3)))
		})
	})

	Describe("box width set to zero", func() {
		It("clamps to the minimum dimension and stays finite", func() {
			_, err := s.Dispatch(params.SetBoxAxis{Axis: dynamo.AxisX, Value: 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Params().Box.Width).To(Equal(dynamo.MinDimension))

			for i := 0; i < 200; i++ {
				f, err := s.Tick(0.016)
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Position.IsValid()).To(BeTrue())
			}
		})
	})

	Describe("Run", func() {
		var (
			r      *fakeRenderer
			ctx    context.Context
			cancel context.CancelFunc
			done   chan sim.LoopStats
		)

		BeforeEach(func() {
			r = &fakeRenderer{}
			ctx, cancel = context.WithCancel(context.Background())
			done = make(chan sim.LoopStats, 1)
		})

		AfterEach(func() {
			cancel()
		})

		start := func() {
			go func() {
				defer GinkgoRecover()
				stats, err := s.Run(ctx, r, 2*time.Millisecond)
				Expect(err).To(MatchError(context.Canceled))
				done <- stats
			}()
		}

		It("renders frames while the renderer is ready", func() {
			r.ready.Store(true)
			start()

			Eventually(r.count).Should(BeNumerically(">=", 5))
			Expect(s.Status()).To(Equal(sim.Running))
			Expect(r.last().Trail).NotTo(BeEmpty())

			cancel()
			var stats sim.LoopStats
			Eventually(done).Should(Receive(&stats))
			Expect(stats.Rendered).To(BeNumerically(">=", 5))
		})

		It("skips ticks while the renderer is not ready", func() {
			start()

			Consistently(r.count, 30*time.Millisecond).Should(BeZero())
			Expect(s.Status()).To(Equal(sim.Idle))

			r.ready.Store(true)
			Eventually(r.count).Should(BeNumerically(">", 0))

			cancel()
			var stats sim.LoopStats
			Eventually(done).Should(Receive(&stats))
			Expect(stats.Skipped).To(BeNumerically(">", 0))
		})

		It("keeps running after render errors", func() {
			r.ready.Store(true)
			r.fail.Store(true)
			start()

			Eventually(s.Time).Should(BeNumerically(">", 0))
			r.fail.Store(false)
			Eventually(r.count).Should(BeNumerically(">", 0))

			cancel()
			var stats sim.LoopStats
			Eventually(done).Should(Receive(&stats))
			Expect(stats.Failed).To(BeNumerically(">", 0))
		})

		It("accepts parameter changes from another goroutine", func() {
			r.ready.Store(true)
			start()

			Eventually(r.count).Should(BeNumerically(">=", 3))
			_, err := s.Dispatch(params.SetEnergyLevel{N: 4})
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() dynamo.EnergyLevel {
				return r.last().Params.Energy
			}).Should(Equal(dynamo.EnergyLevel(4)))
		})
	})
})
